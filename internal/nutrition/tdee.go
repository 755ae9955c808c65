package nutrition

import (
	"math"
	"strings"

	"mealsense/internal/models"
)

// MinTargetCalories is the floor applied to every computed target.
const MinTargetCalories = 1200

const defaultActivityMultiplier = 1.55

// activityMultipliers maps activity level names to their TDEE multiplier.
// Unknown levels fall back to defaultActivityMultiplier without error.
var activityMultipliers = map[string]float64{
	"low":    1.2,
	"normal": 1.55,
	"high":   1.9,
}

// ActivityMultiplier returns the multiplier for level, or 1.55 when level is
// not recognized.
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(level))]; ok {
		return m
	}
	return defaultActivityMultiplier
}

func isMale(gender string) bool {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "male", "m", "nam":
		return true
	}
	return false
}

// BMR uses Mifflin-St Jeor. Any gender other than male gets the female constant.
func BMR(gender string, age int, heightCm, weightKg float64) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if isMale(gender) {
		return bmr + 5
	}
	return bmr - 161
}

// TDEE rounds half away from zero.
func TDEE(gender string, age int, heightCm, weightKg float64, activity string) int {
	return int(math.Round(BMR(gender, age, heightCm, weightKg) * ActivityMultiplier(activity)))
}

// TargetCalories adjusts tdee for goal and clamps to MinTargetCalories.
func TargetCalories(tdee int, goal models.Goal) int {
	target := tdee
	switch goal {
	case models.GoalReduce:
		target = tdee - 500
	case models.GoalGain:
		target = tdee + 500
	}
	return max(target, MinTargetCalories)
}
