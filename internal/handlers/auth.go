package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	mw "mealsense/internal/middleware"
	"mealsense/internal/services"
)

type AuthHandler struct {
	accounts  *services.AccountService
	foodlog   *services.FoodLogService
	jwtSecret []byte
	tokenTTL  time.Duration
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewAuthHandler(accounts *services.AccountService, foodlog *services.FoodLogService, jwtSecret []byte, tokenTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:  accounts,
		foodlog:   foodlog,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		validate:  validate,
		logger:    logger,
	}
}

func (h *AuthHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return c, false
	}
	c.Username = strings.TrimSpace(c.Username)
	if err := h.validate.Struct(c); err != nil {
		http.Error(w, validationMessage(err), http.StatusBadRequest)
		return c, false
	}
	return c, true
}

func (h *AuthHandler) issue(w http.ResponseWriter, status int, username string) {
	token, err := mw.IssueToken(h.jwtSecret, username, h.tokenTTL, time.Now())
	if err != nil {
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, status, tokenResponse{Token: token, Username: username})
}

// Register godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Success 201 {object} tokenResponse
// @Failure 400 {string} string "Invalid body"
// @Failure 409 {string} string "Username already exists"
// @Router /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	c, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}
	if err := h.accounts.Register(r.Context(), c.Username, c.Password); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.issue(w, http.StatusCreated, c.Username)
}

// Login godoc
// @Summary Exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} tokenResponse
// @Failure 401 {string} string "Invalid credentials"
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	c, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}
	if err := h.accounts.Authenticate(r.Context(), c.Username, c.Password); err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.issue(w, http.StatusOK, c.Username)
}

// Status reports who is logged in. Anonymous callers get logged_in=false.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	username, ok := mw.UsernameFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, statusResponse{})
		return
	}
	hasProfile, err := h.foodlog.HasProfile(r.Context(), username)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{LoggedIn: true, Username: username, HasProfile: hasProfile})
}
