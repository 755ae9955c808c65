// Package store holds whole per-user account records behind a narrow
// load/save interface. Writers must hold the user's lock from a KeyedMutex
// for the whole read-modify-write sequence.
package store

import (
	"context"
	"errors"

	"mealsense/internal/models"
)

var ErrNotFound = errors.New("account not found")

// Store reads and writes complete account records; there are no
// partial-field updates.
type Store interface {
	Load(ctx context.Context, username string) (*models.Account, error)
	Save(ctx context.Context, account *models.Account) error
}
