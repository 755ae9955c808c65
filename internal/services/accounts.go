package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"mealsense/internal/models"
	"mealsense/internal/store"
)

// AccountService registers users and checks their passwords.
type AccountService struct {
	store    store.Store
	locks    *store.KeyedMutex
	logger   *zap.Logger
	hashCost int
}

func NewAccountService(st store.Store, locks *store.KeyedMutex, logger *zap.Logger) *AccountService {
	return &AccountService{store: st, locks: locks, logger: logger, hashCost: bcrypt.DefaultCost}
}

// Register creates an empty account. Usernames are unique.
func (s *AccountService) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	unlock := s.locks.Lock(username)
	defer unlock()

	_, err := s.store.Load(ctx, username)
	switch {
	case err == nil:
		return fmt.Errorf("username %q: %w", username, ErrAlreadyExists)
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	acc := &models.Account{
		Username:     username,
		PasswordHash: string(hashed),
		FoodLog:      []models.MealRecord{},
	}
	if err := s.store.Save(ctx, acc); err != nil {
		return err
	}
	s.logger.Info("account registered", zap.String("username", username))
	return nil
}

// Authenticate returns ErrInvalidCredentials for an unknown user or a
// wrong password alike.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) error {
	acc, err := s.store.Load(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}
