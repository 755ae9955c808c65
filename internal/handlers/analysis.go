package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mealsense/internal/services"
)

type AnalysisHandler struct {
	foodlog *services.FoodLogService
	logger  *zap.Logger
}

func NewAnalysisHandler(foodlog *services.FoodLogService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{foodlog: foodlog, logger: logger}
}

// Nutrition godoc
// @Summary Intake analytics against the calorie target
// @Description Today's intake, 30-day average, 7-day achievement rate and calorie series, meal-time distribution and two-week trend.
// @Tags analysis
// @Produce json
// @Security BearerAuth
// @Success 200 {object} analytics.Analysis
// @Failure 404 {string} string "Profile not set"
// @Router /nutrition_analysis [get]
func (h *AnalysisHandler) Nutrition(w http.ResponseWriter, r *http.Request) {
	a, err := h.foodlog.Analysis(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AnalysisHandler) Tips(w http.ResponseWriter, r *http.Request) {
	tips, err := h.foodlog.Tips(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tipsResponse{Tips: tips})
}

// SuggestMenu always answers 200 once a profile exists; model failures
// fall back to canned menus.
func (h *AnalysisHandler) SuggestMenu(w http.ResponseWriter, r *http.Request) {
	s, err := h.foodlog.SuggestMenu(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
