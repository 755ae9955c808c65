package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrNoProfile    = fmt.Errorf("profile not set: %w", ErrNotFound)
	ErrMealNotFound = fmt.Errorf("meal not found: %w", ErrNotFound)
)
