package nutrition

import (
	"fmt"
	"strings"

	"mealsense/internal/models"
)

// ValidationError reports a rejected field of a profile submission.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ProfileInput is the raw profile submission.
type ProfileInput struct {
	Name          string
	Gender        string
	Age           int
	HeightCm      float64
	WeightKg      float64
	ActivityLevel string
	Goal          string
}

// ParseGoal accepts the canonical goal names case-insensitively.
func ParseGoal(s string) (models.Goal, error) {
	switch g := models.Goal(strings.ToLower(strings.TrimSpace(s))); g {
	case models.GoalReduce, models.GoalMaintain, models.GoalGain:
		return g, nil
	}
	return "", &ValidationError{Field: "goal", Reason: fmt.Sprintf("unknown goal %q", s)}
}

// NewProfile validates in and derives tdee and target calories.
func NewProfile(in ProfileInput) (models.Profile, error) {
	if in.Age <= 0 {
		return models.Profile{}, &ValidationError{Field: "age", Reason: "must be greater than 0"}
	}
	if in.HeightCm <= 0 {
		return models.Profile{}, &ValidationError{Field: "height_cm", Reason: "must be greater than 0"}
	}
	if in.WeightKg <= 0 {
		return models.Profile{}, &ValidationError{Field: "weight_kg", Reason: "must be greater than 0"}
	}
	goal, err := ParseGoal(in.Goal)
	if err != nil {
		return models.Profile{}, err
	}

	tdee := TDEE(in.Gender, in.Age, in.HeightCm, in.WeightKg, in.ActivityLevel)
	return models.Profile{
		Name:           strings.TrimSpace(in.Name),
		Gender:         in.Gender,
		Age:            in.Age,
		HeightCm:       in.HeightCm,
		WeightKg:       in.WeightKg,
		ActivityLevel:  in.ActivityLevel,
		Goal:           goal,
		TDEE:           tdee,
		TargetCalories: TargetCalories(tdee, goal),
	}, nil
}
