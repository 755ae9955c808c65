package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mealsense/internal/analytics"
	"mealsense/internal/models"
	"mealsense/internal/nutrition"
)

// ImportedMeal is a food log entry exported by an older client. Such
// entries carry no id.
type ImportedMeal struct {
	Timestamp         string
	Date              string
	MealName          string
	Calories          int
	Description       string
	NutritionAnalysis string
}

// ImportLog appends previously exported meals, and optionally replaces the
// profile, in one update. Nothing is written unless every entry is valid.
func (s *FoodLogService) ImportLog(ctx context.Context, username string, profile *nutrition.ProfileInput, meals []ImportedMeal) (int, error) {
	if profile == nil && len(meals) == 0 {
		return 0, &nutrition.ValidationError{Field: "food_log", Reason: "nothing to import"}
	}

	var p *models.Profile
	if profile != nil {
		built, err := nutrition.NewProfile(*profile)
		if err != nil {
			return 0, err
		}
		p = &built
	}

	records := make([]models.MealRecord, 0, len(meals))
	for i, m := range meals {
		rec, err := importedRecord(m)
		if err != nil {
			err.Field = fmt.Sprintf("food_log[%d].%s", i, err.Field)
			return 0, err
		}
		records = append(records, rec)
	}

	err := s.update(ctx, username, func(acc *models.Account) error {
		if p != nil {
			acc.Profile = p
		}
		acc.FoodLog = append(acc.FoodLog, records...)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func importedRecord(m ImportedMeal) (models.MealRecord, *nutrition.ValidationError) {
	at, ok := analytics.ParseTimestamp(m.Timestamp)
	if !ok {
		return models.MealRecord{}, &nutrition.ValidationError{Field: "timestamp", Reason: fmt.Sprintf("unrecognized timestamp %q", m.Timestamp)}
	}
	if strings.TrimSpace(m.MealName) == "" {
		return models.MealRecord{}, &nutrition.ValidationError{Field: "meal_name", Reason: "required"}
	}
	if m.Calories < 0 {
		return models.MealRecord{}, &nutrition.ValidationError{Field: "calories", Reason: "must not be negative"}
	}

	date := m.Date
	if date == "" {
		date = analytics.DateOf(at)
	} else if _, err := time.Parse(analytics.DateLayout, date); err != nil {
		return models.MealRecord{}, &nutrition.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}

	return models.MealRecord{
		ID:                uuid.NewString(),
		Timestamp:         m.Timestamp,
		Date:              date,
		MealName:          m.MealName,
		Calories:          m.Calories,
		Description:       m.Description,
		NutritionAnalysis: m.NutritionAnalysis,
	}, nil
}
