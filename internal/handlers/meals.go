package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"mealsense/internal/services"
)

// MaxPhotoBytes bounds a meal photo upload.
const MaxPhotoBytes = 16 << 20

type MealHandler struct {
	foodlog *services.FoodLogService
	logger  *zap.Logger
}

func NewMealHandler(foodlog *services.FoodLogService, logger *zap.Logger) *MealHandler {
	return &MealHandler{foodlog: foodlog, logger: logger}
}

// LogMeal godoc
// @Summary Log a meal from a photo
// @Description Multipart form with a "photo" file and optional "date" (YYYY-MM-DD) and "time" (HH:MM) in UTC+7.
// @Tags meals
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} logMealResponse
// @Failure 400 {string} string "Missing or invalid photo"
// @Router /log_meal [post]
func (h *MealHandler) LogMeal(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxPhotoBytes+1<<20)
	if err := r.ParseMultipartForm(MaxPhotoBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "photo too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "photo is required", http.StatusBadRequest)
		return
	}
	defer file.Close()
	photo, err := io.ReadAll(file)
	if err != nil || len(photo) == 0 {
		http.Error(w, "photo is required", http.StatusBadRequest)
		return
	}

	date := strings.TrimSpace(r.FormValue("date"))
	clock := strings.TrimSpace(r.FormValue("time"))
	rec, err := h.foodlog.LogMeal(r.Context(), currentUser(r), photo, date, clock)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, logMealResponse{Message: "Meal logged", Data: rec})
}

// List returns the food log in the order meals were logged.
func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	log, err := h.foodlog.FoodLog(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

// Delete godoc
// @Summary Delete a logged meal
// @Tags meals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {string} string "Meal not found"
// @Router /delete_meal [post]
func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	var err error
	switch {
	case req.ID != "":
		err = h.foodlog.DeleteMeal(r.Context(), currentUser(r), req.ID)
	case req.Timestamp != "":
		err = h.foodlog.DeleteMealAt(r.Context(), currentUser(r), req.Timestamp)
	default:
		http.Error(w, "id or timestamp required", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Meal deleted"})
}

func (h *MealHandler) CurrentDate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentDateResponse{CurrentDate: h.foodlog.CurrentDate()})
}
