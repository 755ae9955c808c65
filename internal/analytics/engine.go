// Package analytics derives read-only views from a user's food log and
// profile. Every function here is pure over (log, profile, reference time).
package analytics

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"mealsense/internal/models"
)

const (
	monthWindow       = 30
	weekWindow        = 7
	trendWindow       = 14
	minTrendRecords   = 7
	trendThreshold    = 100
	onTrackTolerance  = 200
	TrendIncreasing   = "increasing"
	TrendDecreasing   = "decreasing"
	TrendStable       = "stable"
	TrendNotEnough    = "not_enough_data"
	ComparisonAbove   = "above"
	ComparisonOnTrack = "on_track"
	ComparisonBelow   = "below"
)

type MealTypes struct {
	Morning int `json:"morning"`
	Midday  int `json:"midday"`
	Evening int `json:"evening"`
	Other   int `json:"other"`
}

// Trend compares the two most recent 7-day windows. When the log holds fewer
// than seven records only Trend and Message are set.
type Trend struct {
	Trend            string `json:"trend"`
	Message          string `json:"message,omitempty"`
	TargetComparison string `json:"target_comparison,omitempty"`
	Week1Avg         int    `json:"week1_avg"`
	Week2Avg         int    `json:"week2_avg"`
	OverallAvg       int    `json:"overall_avg"`
}

// MarshalJSON emits only trend and message while there is not enough data,
// so zero averages are never mistaken for measured ones.
func (t Trend) MarshalJSON() ([]byte, error) {
	if t.Trend == TrendNotEnough {
		return json.Marshal(struct {
			Trend   string `json:"trend"`
			Message string `json:"message,omitempty"`
		}{t.Trend, t.Message})
	}
	type plain Trend
	return json.Marshal(plain(t))
}

type Analysis struct {
	TodayCalories      int         `json:"today_calories"`
	TargetCalories     int         `json:"target_calories"`
	MonthAvgCalories   int         `json:"month_avg_calories"`
	AchievementRate    int         `json:"achievement_rate"`
	MealTypes          MealTypes   `json:"meal_types"`
	TotalMeals         int         `json:"total_meals"`
	DailyCaloriesTrend []int       `json:"daily_calories_trend"`
	DatesTrend         []string    `json:"dates_trend"`
	Goal               models.Goal `json:"goal"`
	RemainingCalories  int         `json:"remaining_calories"`
	TrendAnalysis      Trend       `json:"trend_analysis"`
}

// dailyTotals sums calories and counts records per calendar date.
type dailyTotals struct {
	calories map[string]int
	meals    map[string]int
}

func totalsOf(log []models.MealRecord) dailyTotals {
	t := dailyTotals{calories: make(map[string]int), meals: make(map[string]int)}
	for _, m := range log {
		t.calories[m.Date] += m.Calories
		t.meals[m.Date]++
	}
	return t
}

func (t dailyTotals) series(dates []string) []int {
	out := make([]int, len(dates))
	for i, d := range dates {
		out[i] = t.calories[d]
	}
	return out
}

func sum(xs []int) int {
	s := 0
	for _, x := range xs {
		s += x
	}
	return s
}

// Analyze builds the full analysis for the UTC+7 date of now.
func Analyze(log []models.MealRecord, profile models.Profile, now time.Time) Analysis {
	totals := totalsOf(log)
	today := DateOf(now)
	week := TrailingDates(now, weekWindow)

	return Analysis{
		TodayCalories:      totals.calories[today],
		TargetCalories:     profile.TargetCalories,
		MonthAvgCalories:   int(math.Round(float64(sum(totals.series(TrailingDates(now, monthWindow)))) / monthWindow)),
		AchievementRate:    achievementRate(totals, week, profile.TargetCalories),
		MealTypes:          ClassifyMeals(log),
		TotalMeals:         len(log),
		DailyCaloriesTrend: totals.series(week),
		DatesTrend:         week,
		Goal:               profile.Goal,
		RemainingCalories:  profile.TargetCalories - totals.calories[today],
		TrendAnalysis:      trendOf(log, totals, profile.TargetCalories, now),
	}
}

// TodayCalories sums calories of records dated on the UTC+7 date of now.
func TodayCalories(log []models.MealRecord, now time.Time) int {
	return totalsOf(log).calories[DateOf(now)]
}

// MealsOn counts records dated on the UTC+7 date of now.
func MealsOn(log []models.MealRecord, now time.Time) int {
	return totalsOf(log).meals[DateOf(now)]
}

// AchievementRate is the rounded percentage of data-bearing days among the
// trailing seven whose total stayed within target; 0 when no day has data.
func AchievementRate(log []models.MealRecord, target int, now time.Time) int {
	return achievementRate(totalsOf(log), TrailingDates(now, weekWindow), target)
}

func achievementRate(totals dailyTotals, dates []string, target int) int {
	var withData, onTarget int
	for _, d := range dates {
		if totals.meals[d] == 0 {
			continue
		}
		withData++
		if totals.calories[d] <= target {
			onTarget++
		}
	}
	if withData == 0 {
		return 0
	}
	return int(math.Round(float64(onTarget) / float64(withData) * 100))
}

// AnalyzeTrend classifies the direction of the last 14 days and compares
// their mean against target.
func AnalyzeTrend(log []models.MealRecord, target int, now time.Time) Trend {
	return trendOf(log, totalsOf(log), target, now)
}

func trendOf(log []models.MealRecord, totals dailyTotals, target int, now time.Time) Trend {
	if len(log) < minTrendRecords {
		return Trend{Trend: TrendNotEnough, Message: "Log at least 7 meals to see your trend"}
	}

	days := totals.series(TrailingDates(now, trendWindow))
	older := float64(sum(days[:weekWindow])) / weekWindow
	newer := float64(sum(days[weekWindow:])) / weekWindow

	direction := TrendStable
	switch {
	case newer > older+trendThreshold:
		direction = TrendIncreasing
	case newer < older-trendThreshold:
		direction = TrendDecreasing
	}

	overall := (older + newer) / 2
	comparison := ComparisonBelow
	switch {
	case overall > float64(target+onTrackTolerance):
		comparison = ComparisonAbove
	case math.Abs(overall-float64(target)) <= onTrackTolerance:
		comparison = ComparisonOnTrack
	}

	return Trend{
		Trend:            direction,
		TargetComparison: comparison,
		Week1Avg:         int(math.Round(older)),
		Week2Avg:         int(math.Round(newer)),
		OverallAvg:       int(math.Round(overall)),
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseTimestamp reads a MealRecord timestamp. Timestamps without an offset
// are UTC+7 wall-clock times.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, Location); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var (
	morningWords = []string{"bữa sáng", "sáng", "điểm tâm", "breakfast"}
	middayWords  = []string{"bữa trưa", "trưa", "lunch"}
	eveningWords = []string{"bữa tối", "tối", "dinner", "supper"}
)

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// ClassifyMeals buckets records by the hour of their timestamp, read in the
// timestamp's own offset. Records with an unparseable timestamp are bucketed
// by keywords in the meal name.
func ClassifyMeals(log []models.MealRecord) MealTypes {
	var mt MealTypes
	for _, m := range log {
		if t, ok := ParseTimestamp(m.Timestamp); ok {
			switch h := t.Hour(); {
			case h >= 5 && h < 11:
				mt.Morning++
			case h >= 11 && h < 14:
				mt.Midday++
			case h >= 17 && h < 22:
				mt.Evening++
			default:
				mt.Other++
			}
			continue
		}

		name := strings.ToLower(m.MealName)
		switch {
		case containsAny(name, morningWords):
			mt.Morning++
		case containsAny(name, middayWords):
			mt.Midday++
		case containsAny(name, eveningWords):
			mt.Evening++
		default:
			mt.Other++
		}
	}
	return mt
}
