package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mealsense/internal/models"
)

func TestTips(t *testing.T) {
	tests := []struct {
		name   string
		today  int
		target int
		goal   models.Goal
		meals  int
		want   []string
	}{
		{"reduce far over", 2400, 2000, models.GoalReduce, 3, []string{TipReduceFarOver}},
		{"reduce just over", 2100, 2000, models.GoalReduce, 3, []string{TipReduceOver}},
		{"reduce exactly at -300 is just over", 2300, 2000, models.GoalReduce, 3, []string{TipReduceOver}},
		{"reduce plenty left", 1000, 2000, models.GoalReduce, 3, []string{TipReduceRoom}},
		{"reduce on target", 1700, 2000, models.GoalReduce, 3, []string{TipKeepItUp}},
		{"gain far under", 1000, 2000, models.GoalGain, 3, []string{TipGainFarUnder}},
		{"gain under", 1500, 2000, models.GoalGain, 3, []string{TipGainUnder}},
		{"gain close", 1800, 2000, models.GoalGain, 3, []string{TipKeepItUp}},
		{"maintain drift over", 2400, 2000, models.GoalMaintain, 3, []string{TipMaintainOff}},
		{"maintain drift under", 1600, 2000, models.GoalMaintain, 3, []string{TipMaintainOff}},
		{"maintain edge", 1700, 2000, models.GoalMaintain, 3, []string{TipKeepItUp}},
		{"too few meals", 0, 2000, models.GoalMaintain, 0, []string{TipMaintainOff, TipTooFewMeals}},
		{"many meals", 2000, 2000, models.GoalMaintain, 6, []string{TipManySmallMeals}},
		{"one meal on target", 1900, 2000, models.GoalGain, 1, []string{TipTooFewMeals}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tips(tt.today, tt.target, tt.goal, tt.meals))
		})
	}
}
