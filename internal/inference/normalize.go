package inference

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"mealsense/internal/models"
)

// Source tells which stage produced an Estimate.
type Source int

const (
	SourceModel Source = iota
	SourceSalvaged
	SourceSynthetic
)

func (s Source) String() string {
	switch s {
	case SourceModel:
		return "model"
	case SourceSalvaged:
		return "salvaged"
	default:
		return "synthetic"
	}
}

const (
	defaultMealName     = "Unidentified dish"
	defaultCalories     = 300
	defaultDescription  = "No detailed description"
	defaultAnalysis     = "No nutrition analysis yet"
	salvagedAnalysis    = "Estimated automatically from the model's description"
	salvageDescMaxRunes = 300
	fence               = "```"
)

var (
	calorieRe   = regexp.MustCompile(`(?i)(\d+)\s*(calo|calories|kcal)`)
	leadingNum  = regexp.MustCompile(`-?\d+(\.\d+)?`)
	foodKeyword = []string{
		"phở", "bún", "cơm", "bánh", "cháo", "xôi", "hủ tiếu", "miến", "gỏi",
		"rice", "noodle", "soup", "salad", "sandwich", "porridge",
	}
)

// Normalizer turns free model text into an Estimate through three stages:
// strict JSON parse, heuristic salvage, and full synthesis.
type Normalizer struct {
	fallback *Synthesizer
	logger   *zap.Logger
}

func NewNormalizer(fallback *Synthesizer, logger *zap.Logger) *Normalizer {
	return &Normalizer{fallback: fallback, logger: logger}
}

// Normalize always returns a valid Estimate.
func (n *Normalizer) Normalize(text string) (est models.Estimate, src Source) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("normalizer panicked, using synthetic estimate", zap.Any("panic", r))
			est, src = n.fallback.Meal(), SourceSynthetic
		}
	}()

	if est, ok := parseStrict(text); ok {
		return est, SourceModel
	}
	n.logger.Warn("model response is not valid JSON, salvaging", zap.String("response", truncate(text, 500)))

	if est, ok := salvage(text, n.fallback.Meal()); ok {
		return est, SourceSalvaged
	}
	n.logger.Warn("nothing salvageable in model response, using synthetic estimate")
	return n.fallback.Meal(), SourceSynthetic
}

// extractJSONObject strips code fences and slices from the first '{' to the
// last '}'.
func extractJSONObject(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, fence) {
		s = strings.TrimLeftFunc(s[len(fence):], func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
		})
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, fence) {
		s = strings.TrimSpace(s[:len(s)-len(fence)])
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start != -1 && end > start {
		s = s[start : end+1]
	}
	return s
}

// calorieValue accepts numbers and numeric strings such as "450 kcal".
type calorieValue struct {
	n   int
	set bool
}

func (c *calorieValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		c.n, c.set = int(math.Round(f)), true
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	if m := leadingNum.FindString(s); m != "" {
		if f, err := strconv.ParseFloat(m, 64); err == nil {
			c.n, c.set = int(math.Round(f)), true
		}
	}
	return nil
}

type rawEstimate struct {
	MealName          string       `json:"meal_name"`
	EstimatedCalories calorieValue `json:"estimated_calories"`
	Description       string       `json:"description"`
	NutritionAnalysis string       `json:"nutrition_analysis"`
}

func parseStrict(text string) (models.Estimate, bool) {
	obj := extractJSONObject(text)
	if !strings.HasPrefix(obj, "{") {
		return models.Estimate{}, false
	}
	var raw rawEstimate
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return models.Estimate{}, false
	}

	est := models.Estimate{
		MealName:          orDefault(raw.MealName, defaultMealName),
		EstimatedCalories: defaultCalories,
		Description:       orDefault(raw.Description, defaultDescription),
		NutritionAnalysis: orDefault(raw.NutritionAnalysis, defaultAnalysis),
	}
	if raw.EstimatedCalories.set {
		est.EstimatedCalories = max(raw.EstimatedCalories.n, 0)
	}
	return est, true
}

// salvage fills base with whatever a line-oriented scan of text recovers.
// It reports false when neither a dish name nor a calorie figure is found.
func salvage(text string, base models.Estimate) (models.Estimate, bool) {
	var found bool
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if containsAnyWord(lower, foodKeyword) {
			if name := strings.Trim(line, " \t\r*#->:`\""); name != "" {
				base.MealName = name
				found = true
				break
			}
		}
	}

	if m := calorieRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			base.EstimatedCalories = n
			found = true
		}
	}
	if !found {
		return models.Estimate{}, false
	}

	base.Description = truncate(strings.TrimSpace(text), salvageDescMaxRunes)
	base.NutritionAnalysis = salvagedAnalysis
	return base, true
}

func containsAnyWord(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}

// truncate cuts s to n runes and appends "..." when it had to cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
