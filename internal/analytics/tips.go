package analytics

import "mealsense/internal/models"

const (
	TipReduceFarOver   = "Well over your target today. Cut back on starch and add more greens."
	TipReduceOver      = "Slightly over your target. Keep dinner light."
	TipReduceRoom      = "Plenty of calories left. Add a healthy snack."
	TipGainFarUnder    = "You need to eat more. Add a calorie-dense snack."
	TipGainUnder       = "Keep going and add more protein to your main meals."
	TipMaintainOff     = "Intake is drifting from your target. Rebalance your meals."
	TipTooFewMeals     = "Eat three regular meals a day to keep your energy stable."
	TipManySmallMeals  = "Several small meals help with calorie control!"
	TipKeepItUp        = "Your diet looks good! Keep it up."
	reduceFarOverLimit = -300
	reduceRoomLimit    = 500
	gainFarUnderLimit  = 700
	gainUnderLimit     = 300
	maintainDrift      = 300
)

// Tips returns advisory messages for today's intake. The result is never empty.
func Tips(todayCalories, targetCalories int, goal models.Goal, mealsToday int) []string {
	remaining := targetCalories - todayCalories
	var tips []string

	switch goal {
	case models.GoalReduce:
		switch {
		case remaining < reduceFarOverLimit:
			tips = append(tips, TipReduceFarOver)
		case remaining < 0:
			tips = append(tips, TipReduceOver)
		case remaining > reduceRoomLimit:
			tips = append(tips, TipReduceRoom)
		}
	case models.GoalGain:
		switch {
		case remaining > gainFarUnderLimit:
			tips = append(tips, TipGainFarUnder)
		case remaining > gainUnderLimit:
			tips = append(tips, TipGainUnder)
		}
	default:
		if remaining > maintainDrift || remaining < -maintainDrift {
			tips = append(tips, TipMaintainOff)
		}
	}

	if mealsToday < 2 {
		tips = append(tips, TipTooFewMeals)
	}
	if mealsToday > 5 {
		tips = append(tips, TipManySmallMeals)
	}

	if len(tips) == 0 {
		tips = append(tips, TipKeepItUp)
	}
	return tips
}
