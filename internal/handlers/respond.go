package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"mealsense/internal/inference"
	mw "mealsense/internal/middleware"
	"mealsense/internal/nutrition"
	"mealsense/internal/services"
)

// NewValidator reports field errors by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("invalid %s: failed %s", fe.Field(), fe.Tag())
	}
	return "invalid body"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service errors onto status codes.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr *nutrition.ValidationError
	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Error(), http.StatusBadRequest)
	case errors.Is(err, inference.ErrInvalidImage):
		http.Error(w, "invalid image", http.StatusBadRequest)
	case errors.Is(err, services.ErrNoProfile):
		http.Error(w, "profile not set", http.StatusNotFound)
	case errors.Is(err, services.ErrMealNotFound):
		http.Error(w, "meal not found", http.StatusNotFound)
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, services.ErrAlreadyExists):
		http.Error(w, "username already exists", http.StatusConflict)
	case errors.Is(err, services.ErrInvalidCredentials):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	default:
		logger.Error("request failed", zap.Error(err))
		http.Error(w, "server error", http.StatusInternalServerError)
	}
}

// currentUser is only called behind RequireAuth.
func currentUser(r *http.Request) string {
	u, _ := mw.UsernameFromContext(r.Context())
	return u
}
