package handlers

import (
	"mealsense/internal/models"
	"mealsense/internal/nutrition"
)

type credentials struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=4"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type statusResponse struct {
	LoggedIn   bool   `json:"logged_in"`
	Username   string `json:"username,omitempty"`
	HasProfile bool   `json:"has_profile"`
}

type profileRequest struct {
	Name          string  `json:"name" validate:"required"`
	Gender        string  `json:"gender" validate:"required"`
	Age           int     `json:"age" validate:"gt=0,lt=150"`
	HeightCm      float64 `json:"height_cm" validate:"gt=0"`
	WeightKg      float64 `json:"weight_kg" validate:"gt=0"`
	ActivityLevel string  `json:"activity_level"`
	Goal          string  `json:"goal" validate:"required"`
}

func (p profileRequest) toInput() nutrition.ProfileInput {
	return nutrition.ProfileInput{
		Name:          p.Name,
		Gender:        p.Gender,
		Age:           p.Age,
		HeightCm:      p.HeightCm,
		WeightKg:      p.WeightKg,
		ActivityLevel: p.ActivityLevel,
		Goal:          p.Goal,
	}
}

type profileResponse struct {
	Message string         `json:"message"`
	Profile models.Profile `json:"profile"`
}

type logMealResponse struct {
	Message string            `json:"message"`
	Data    models.MealRecord `json:"data"`
}

// deleteMealRequest addresses a meal by id, or by timestamp for records
// logged before ids existed.
type deleteMealRequest struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
}

type tipsResponse struct {
	Tips []string `json:"tips"`
}

type currentDateResponse struct {
	CurrentDate string `json:"current_date"`
}
