package models

// Goal is the user's weight objective.
type Goal string

const (
	GoalReduce   Goal = "reduce"
	GoalMaintain Goal = "maintain"
	GoalGain     Goal = "gain"
)

// Profile is created or overwritten wholesale on every submission.
type Profile struct {
	Name           string  `json:"name"`
	Gender         string  `json:"gender"`
	Age            int     `json:"age"`
	HeightCm       float64 `json:"height_cm"`
	WeightKg       float64 `json:"weight_kg"`
	ActivityLevel  string  `json:"activity_level"`
	Goal           Goal    `json:"goal"`
	TDEE           int     `json:"tdee"`
	TargetCalories int     `json:"target_calories"`
}

// MealRecord is immutable once appended to a FoodLog. Date is the UTC+7
// calendar day computed at creation and is the bucketing key for analytics.
type MealRecord struct {
	ID                string `json:"id"`
	Timestamp         string `json:"timestamp"`
	Date              string `json:"date"`
	MealName          string `json:"meal_name"`
	Calories          int    `json:"calories"`
	Description       string `json:"description"`
	NutritionAnalysis string `json:"nutrition_analysis"`
	PhotoKey          string `json:"photo_key,omitempty"`
	Synthetic         bool   `json:"synthetic,omitempty"`
}

// Account is the whole per-user record held by the store.
type Account struct {
	Username     string       `json:"username"`
	PasswordHash string       `json:"password_hash"`
	Profile      *Profile     `json:"profile"`
	FoodLog      []MealRecord `json:"food_log"`
}

// Estimate is the structured result of the inference pipeline.
type Estimate struct {
	MealName          string `json:"meal_name"`
	EstimatedCalories int    `json:"estimated_calories"`
	Description       string `json:"description"`
	NutritionAnalysis string `json:"nutrition_analysis"`
}

type MenuItem struct {
	Name             string `json:"name"`
	Calories         int    `json:"calories"`
	NutritionSummary string `json:"nutrition_summary"`
}

// Suggestion is the menu advice payload returned to the client.
type Suggestion struct {
	Advice          string     `json:"advice"`
	MenuSuggestions []MenuItem `json:"menu_suggestions"`
	Note            string     `json:"note,omitempty"`
}
