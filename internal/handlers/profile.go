package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"mealsense/internal/services"
)

type ProfileHandler struct {
	foodlog  *services.FoodLogService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewProfileHandler(foodlog *services.FoodLogService, validate *validator.Validate, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{foodlog: foodlog, validate: validate, logger: logger}
}

// Save godoc
// @Summary Create or replace the user's profile
// @Description Computes TDEE and the daily calorie target from the submitted body metrics.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} profileResponse
// @Failure 400 {string} string "Invalid body"
// @Router /profile [post]
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, validationMessage(err), http.StatusBadRequest)
		return
	}

	profile, err := h.foodlog.SaveProfile(r.Context(), currentUser(r), req.toInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Message: "Profile saved", Profile: profile})
}

// Get returns the stored profile, or null before the first submission.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.foodlog.Profile(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
