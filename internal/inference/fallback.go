package inference

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"mealsense/internal/models"
)

type dish struct {
	name        string
	description string
}

var dishCatalog = []dish{
	{"Cơm tấm sườn nướng", "Broken rice with grilled pork chop, shredded pork skin, egg meatloaf and pickles"},
	{"Phở bò", "Rice noodle soup with rare and well-done beef in a fragrant broth"},
	{"Bún chả", "Rice vermicelli with grilled pork patties, spring rolls and sweet fish sauce"},
	{"Bánh mì thịt", "Crispy baguette filled with pork, pâté and fresh herbs"},
	{"Cơm gà xé", "Rice with shredded chicken, fresh herbs and fish sauce"},
	{"Bún bò Huế", "Spicy Hue-style beef noodle soup with pork knuckle"},
	{"Hủ tiếu Nam Vang", "Clear-broth rice noodle soup with pork and shrimp"},
}

const (
	minSyntheticCalories = 200
	maxSyntheticCalories = 800
	syntheticAnalysis    = "Traditional Vietnamese dish (sample estimate)"
)

// Synthesizer produces plausible data when the model is unavailable. It
// never fails and is safe for concurrent use.
type Synthesizer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSynthesizer uses rnd for every choice; nil seeds a fresh source.
func NewSynthesizer(rnd *rand.Rand) *Synthesizer {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Synthesizer{rnd: rnd}
}

// Meal picks a catalog dish with calories uniform in [200, 800].
func (s *Synthesizer) Meal() models.Estimate {
	s.mu.Lock()
	d := dishCatalog[s.rnd.IntN(len(dishCatalog))]
	calories := minSyntheticCalories + s.rnd.IntN(maxSyntheticCalories-minSyntheticCalories+1)
	s.mu.Unlock()

	return models.Estimate{
		MealName:          d.name,
		EstimatedCalories: calories,
		Description:       d.description,
		NutritionAnalysis: syntheticAnalysis,
	}
}

var (
	reduceOverMenu = []models.MenuItem{
		{Name: "Vegetable salad", Calories: 150, NutritionSummary: "Low calorie, high fibre"},
		{Name: "Vegetable soup", Calories: 120, NutritionSummary: "Light on the stomach"},
		{Name: "Unsweetened yoghurt", Calories: 80, NutritionSummary: "Good for digestion"},
	}
	reduceMenu = []models.MenuItem{
		{Name: "Brown rice with chicken breast", Calories: 400, NutritionSummary: "Balanced nutrition"},
		{Name: "Brown rice vermicelli with salmon", Calories: 350, NutritionSummary: "Omega-3 and fibre"},
		{Name: "Boiled vegetables with tofu", Calories: 280, NutritionSummary: "Plant protein"},
	}
	gainMenu = []models.MenuItem{
		{Name: "Cơm thịt kho", Calories: 550, NutritionSummary: "Energy dense"},
		{Name: "Bún bò Huế", Calories: 520, NutritionSummary: "High protein"},
		{Name: "Oat porridge with nuts", Calories: 450, NutritionSummary: "Well-rounded nutrition"},
	}
	maintainMenu = []models.MenuItem{
		{Name: "Cơm cá kho", Calories: 480, NutritionSummary: "Balanced"},
		{Name: "Phở gà", Calories: 420, NutritionSummary: "Moderate"},
		{Name: "Bánh mì trứng", Calories: 380, NutritionSummary: "Convenient"},
	}
)

// Suggestion builds short advice from the remaining-calorie bracket and a
// menu chosen by goal.
func (s *Synthesizer) Suggestion(profile models.Profile, remaining int) models.Suggestion {
	var advice string
	switch {
	case remaining < 0:
		advice = fmt.Sprintf("%d kcal over target. Favour greens and light food.", -remaining)
	case remaining < 200:
		advice = fmt.Sprintf("%d kcal left. Pick something light: salad, soup or fruit.", remaining)
	case remaining < 500:
		advice = fmt.Sprintf("%d kcal left. Balance protein, vegetables and a moderate portion of starch.", remaining)
	default:
		advice = fmt.Sprintf("%d kcal left. You can eat a varied range of foods.", remaining)
	}

	var menu []models.MenuItem
	switch profile.Goal {
	case models.GoalReduce:
		if remaining < 0 {
			menu = reduceOverMenu
		} else {
			menu = reduceMenu
		}
	case models.GoalGain:
		menu = gainMenu
	default:
		menu = maintainMenu
	}

	return models.Suggestion{
		Advice:          advice,
		MenuSuggestions: append([]models.MenuItem(nil), menu...),
		Note:            fmt.Sprintf("Goal: %s", profile.Goal),
	}
}
