// Package inference turns a meal photo into a nutrition estimate using an
// external multimodal model. Callers never see model failures: the
// Analyzer always answers, falling back to synthetic data when it must.
package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mealsense/internal/models"
)

const mealPrompt = `Analyze the dish in this photo. Reply with JSON only:

{
    "meal_name": "Dish name",
    "estimated_calories": calories_as_integer,
    "description": "Short description",
    "nutrition_analysis": "Nutrition analysis"
}

Example:
{
    "meal_name": "Phở bò",
    "estimated_calories": 450,
    "description": "Beef noodle soup with rare and well-done beef in a fragrant broth",
    "nutrition_analysis": "Protein from beef, carbohydrates from rice noodles"
}
`

const suggestionPrompt = `User: %s, goal: %s
Calories today: %d/%d kcal
Calories remaining: %d kcal

Suggest 3 suitable dishes. Reply with JSON only:

{
    "advice": "Short advice",
    "menu_suggestions": [
        {"name": "Dish 1", "calories": 0, "nutrition_summary": "Short summary"}
    ]
}
`

// Analyzer composes the invoker, normalizer and synthesizer.
type Analyzer struct {
	invoker    *Invoker
	normalizer *Normalizer
	fallback   *Synthesizer
	logger     *zap.Logger
}

// NewAnalyzer builds the pipeline. A nil invoker means no model is
// configured and every answer is synthetic.
func NewAnalyzer(invoker *Invoker, fallback *Synthesizer, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		invoker:    invoker,
		normalizer: NewNormalizer(fallback, logger),
		fallback:   fallback,
		logger:     logger,
	}
}

// EstimateMeal sends a prepared JPEG to the model and normalizes the answer.
func (a *Analyzer) EstimateMeal(ctx context.Context, image []byte) (models.Estimate, Source) {
	if a.invoker == nil {
		a.logger.Warn("no model configured, using synthetic estimate")
		return a.fallback.Meal(), SourceSynthetic
	}

	text, err := a.invoker.Invoke(ctx, mealPrompt, image)
	if err != nil {
		a.logger.Error("meal estimation failed, using synthetic estimate", zap.Error(err))
		return a.fallback.Meal(), SourceSynthetic
	}
	return a.normalizer.Normalize(text)
}

// SuggestMenu asks the model for dishes that fit the remaining budget.
func (a *Analyzer) SuggestMenu(ctx context.Context, profile models.Profile, consumed int) models.Suggestion {
	remaining := profile.TargetCalories - consumed
	if a.invoker == nil {
		return a.fallback.Suggestion(profile, remaining)
	}

	prompt := fmt.Sprintf(suggestionPrompt, profile.Name, profile.Goal, consumed, profile.TargetCalories, remaining)
	text, err := a.invoker.Invoke(ctx, prompt, nil)
	if err != nil {
		a.logger.Error("menu suggestion failed, using fallback", zap.Error(err))
		return a.fallback.Suggestion(profile, remaining)
	}

	s, ok := parseSuggestion(text)
	if !ok {
		a.logger.Warn("unusable suggestion response, using fallback", zap.String("response", truncate(text, 500)))
		return a.fallback.Suggestion(profile, remaining)
	}
	return s
}

func parseSuggestion(text string) (models.Suggestion, bool) {
	obj := extractJSONObject(text)
	if !strings.HasPrefix(obj, "{") {
		return models.Suggestion{}, false
	}
	var s models.Suggestion
	if err := json.Unmarshal([]byte(obj), &s); err != nil {
		return models.Suggestion{}, false
	}
	if strings.TrimSpace(s.Advice) == "" && len(s.MenuSuggestions) == 0 {
		return models.Suggestion{}, false
	}
	return s, true
}
