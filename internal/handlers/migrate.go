package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"mealsense/internal/nutrition"
	"mealsense/internal/services"
)

type MigrateHandler struct {
	foodlog *services.FoodLogService
	logger  *zap.Logger
}

func NewMigrateHandler(foodlog *services.FoodLogService, logger *zap.Logger) *MigrateHandler {
	return &MigrateHandler{foodlog: foodlog, logger: logger}
}

type migratedMeal struct {
	Timestamp         string `json:"timestamp"`
	Date              string `json:"date"`
	MealName          string `json:"meal_name"`
	Calories          int    `json:"calories"`
	Description       string `json:"description"`
	NutritionAnalysis string `json:"nutrition_analysis"`
}

type MigrateRequest struct {
	FoodLog []migratedMeal  `json:"food_log"`
	Profile *profileRequest `json:"profile"`
}

// MigrateData godoc
// @Summary Import an exported food log
// @Description Appends meals exported by an older client and optionally replaces the profile. Nothing is saved if any entry is invalid.
// @Tags migrate
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param data body MigrateRequest true "Migration data"
// @Success 201 {object} map[string]interface{} "Data migrated successfully"
// @Failure 400 {string} string "Bad request"
// @Failure 500 {string} string "Internal server error"
// @Router /migrate [post]
func (h *MigrateHandler) MigrateData(w http.ResponseWriter, r *http.Request) {
	var req MigrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	meals := make([]services.ImportedMeal, len(req.FoodLog))
	for i, m := range req.FoodLog {
		meals[i] = services.ImportedMeal(m)
	}
	var profile *nutrition.ProfileInput
	if req.Profile != nil {
		in := req.Profile.toInput()
		profile = &in
	}

	n, err := h.foodlog.ImportLog(r.Context(), currentUser(r), profile, meals)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Data migrated successfully",
		"imported": n,
	})
}
