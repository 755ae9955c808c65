// Package services orchestrates accounts, meal logging and analytics on
// top of the record store. Every change to an account is a whole-record
// read-modify-write performed under that user's lock.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mealsense/internal/analytics"
	"mealsense/internal/inference"
	"mealsense/internal/models"
	"mealsense/internal/nutrition"
	"mealsense/internal/photos"
	"mealsense/internal/store"
)

// Estimator is the inference pipeline as seen by the service.
type Estimator interface {
	EstimateMeal(ctx context.Context, image []byte) (models.Estimate, inference.Source)
	SuggestMenu(ctx context.Context, profile models.Profile, consumed int) models.Suggestion
}

// PhotoArchive stores prepared meal photos.
type PhotoArchive interface {
	Put(ctx context.Context, key string, jpeg []byte) error
}

const customInstantLayout = "2006-01-02 15:04"

type FoodLogService struct {
	store     store.Store
	locks     *store.KeyedMutex
	estimator Estimator
	archive   PhotoArchive
	logger    *zap.Logger
	now       func() time.Time
}

// NewFoodLogService wires the service. archive may be nil.
func NewFoodLogService(st store.Store, locks *store.KeyedMutex, estimator Estimator, archive PhotoArchive, logger *zap.Logger) *FoodLogService {
	return &FoodLogService{
		store:     st,
		locks:     locks,
		estimator: estimator,
		archive:   archive,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *FoodLogService) load(ctx context.Context, username string) (*models.Account, error) {
	acc, err := s.store.Load(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("account %q: %w", username, ErrNotFound)
		}
		return nil, err
	}
	return acc, nil
}

// update runs fn on a fresh copy of the account and saves the result, all
// while holding the user's lock.
func (s *FoodLogService) update(ctx context.Context, username string, fn func(*models.Account) error) error {
	unlock := s.locks.Lock(username)
	defer unlock()

	acc, err := s.load(ctx, username)
	if err != nil {
		return err
	}
	if err := fn(acc); err != nil {
		return err
	}
	return s.store.Save(ctx, acc)
}

func (s *FoodLogService) withProfile(ctx context.Context, username string) (*models.Account, error) {
	acc, err := s.load(ctx, username)
	if err != nil {
		return nil, err
	}
	if acc.Profile == nil {
		return nil, ErrNoProfile
	}
	return acc, nil
}

// HasProfile reports whether the user has submitted a profile.
func (s *FoodLogService) HasProfile(ctx context.Context, username string) (bool, error) {
	acc, err := s.load(ctx, username)
	if err != nil {
		return false, err
	}
	return acc.Profile != nil, nil
}

// SaveProfile validates in and replaces the stored profile wholesale.
func (s *FoodLogService) SaveProfile(ctx context.Context, username string, in nutrition.ProfileInput) (models.Profile, error) {
	profile, err := nutrition.NewProfile(in)
	if err != nil {
		return models.Profile{}, err
	}
	err = s.update(ctx, username, func(acc *models.Account) error {
		acc.Profile = &profile
		return nil
	})
	if err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// Profile returns nil when no profile has been submitted.
func (s *FoodLogService) Profile(ctx context.Context, username string) (*models.Profile, error) {
	acc, err := s.load(ctx, username)
	if err != nil {
		return nil, err
	}
	return acc.Profile, nil
}

// LogMeal estimates the photo's contents and appends the meal to the log.
// date and clock (YYYY-MM-DD, HH:MM) set a custom UTC+7 instant when both
// parse; otherwise the meal is logged at the current time.
func (s *FoodLogService) LogMeal(ctx context.Context, username string, photo []byte, date, clock string) (models.MealRecord, error) {
	prepared, err := inference.PrepareImage(photo)
	if err != nil {
		return models.MealRecord{}, err
	}
	// Fail fast before the model call for unknown users.
	if _, err := s.load(ctx, username); err != nil {
		return models.MealRecord{}, err
	}

	at := s.instant(date, clock)
	est, src := s.estimator.EstimateMeal(ctx, prepared)
	rec := models.MealRecord{
		ID:                uuid.NewString(),
		Timestamp:         at.Format(time.RFC3339),
		Date:              analytics.DateOf(at),
		MealName:          est.MealName,
		Calories:          est.EstimatedCalories,
		Description:       est.Description,
		NutritionAnalysis: est.NutritionAnalysis,
		Synthetic:         src == inference.SourceSynthetic,
	}

	if s.archive != nil {
		key := photos.MealKey(username, rec.ID)
		if err := s.archive.Put(ctx, key, prepared); err != nil {
			s.logger.Warn("photo archive failed", zap.String("username", username), zap.String("meal_id", rec.ID), zap.Error(err))
		} else {
			rec.PhotoKey = key
		}
	}

	err = s.update(ctx, username, func(acc *models.Account) error {
		acc.FoodLog = append(acc.FoodLog, rec)
		return nil
	})
	if err != nil {
		if rec.PhotoKey != "" {
			s.logger.Error("meal not saved, archived photo is orphaned",
				zap.String("username", username),
				zap.String("photo_key", rec.PhotoKey),
				zap.Error(err))
		}
		return models.MealRecord{}, err
	}
	s.logger.Info("meal logged",
		zap.String("username", username),
		zap.String("meal_id", rec.ID),
		zap.Int("calories", rec.Calories),
		zap.Stringer("source", src))
	return rec, nil
}

func (s *FoodLogService) instant(date, clock string) time.Time {
	now := s.now().In(analytics.Location)
	if date == "" || clock == "" {
		return now
	}
	t, err := time.ParseInLocation(customInstantLayout, date+" "+clock, analytics.Location)
	if err != nil {
		s.logger.Warn("invalid meal date/time, using current time", zap.String("date", date), zap.String("time", clock))
		return now
	}
	return t
}

// FoodLog returns the user's meals in the order they were logged.
func (s *FoodLogService) FoodLog(ctx context.Context, username string) ([]models.MealRecord, error) {
	acc, err := s.load(ctx, username)
	if err != nil {
		return nil, err
	}
	if acc.FoodLog == nil {
		return []models.MealRecord{}, nil
	}
	return acc.FoodLog, nil
}

// DeleteMeal removes the meal with the given id.
func (s *FoodLogService) DeleteMeal(ctx context.Context, username, id string) error {
	return s.deleteFirst(ctx, username, func(m models.MealRecord) bool { return m.ID == id })
}

// DeleteMealAt removes the first meal logged at timestamp. Records that
// predate meal ids can only be addressed this way.
func (s *FoodLogService) DeleteMealAt(ctx context.Context, username, timestamp string) error {
	return s.deleteFirst(ctx, username, func(m models.MealRecord) bool { return m.Timestamp == timestamp })
}

func (s *FoodLogService) deleteFirst(ctx context.Context, username string, match func(models.MealRecord) bool) error {
	return s.update(ctx, username, func(acc *models.Account) error {
		for i, m := range acc.FoodLog {
			if match(m) {
				acc.FoodLog = append(acc.FoodLog[:i], acc.FoodLog[i+1:]...)
				return nil
			}
		}
		return ErrMealNotFound
	})
}

func (s *FoodLogService) Analysis(ctx context.Context, username string) (analytics.Analysis, error) {
	acc, err := s.withProfile(ctx, username)
	if err != nil {
		return analytics.Analysis{}, err
	}
	return analytics.Analyze(acc.FoodLog, *acc.Profile, s.now()), nil
}

func (s *FoodLogService) Tips(ctx context.Context, username string) ([]string, error) {
	acc, err := s.withProfile(ctx, username)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return analytics.Tips(
		analytics.TodayCalories(acc.FoodLog, now),
		acc.Profile.TargetCalories,
		acc.Profile.Goal,
		analytics.MealsOn(acc.FoodLog, now),
	), nil
}

// SuggestMenu never fails once the profile exists; the estimator falls
// back to canned menus.
func (s *FoodLogService) SuggestMenu(ctx context.Context, username string) (models.Suggestion, error) {
	acc, err := s.withProfile(ctx, username)
	if err != nil {
		return models.Suggestion{}, err
	}
	consumed := analytics.TodayCalories(acc.FoodLog, s.now())
	return s.estimator.SuggestMenu(ctx, *acc.Profile, consumed), nil
}

// CurrentDate is today's UTC+7 calendar date.
func (s *FoodLogService) CurrentDate() string {
	return analytics.DateOf(s.now())
}
