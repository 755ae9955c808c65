package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"mealsense/internal/crypto"
	"mealsense/internal/models"
)

// PostgresStore keeps one row per account with the whole record as payload.
type PostgresStore struct {
	db    *sqlx.DB
	codec codec
}

// NewPostgresStore seals payloads when cipher is non-nil.
func NewPostgresStore(db *sqlx.DB, cipher *crypto.EncryptionService) *PostgresStore {
	return &PostgresStore{db: db, codec: codec{cipher: cipher}}
}

type accountRow struct {
	Payload   string `db:"payload"`
	Encrypted bool   `db:"encrypted"`
}

func (s *PostgresStore) Load(ctx context.Context, username string) (*models.Account, error) {
	var row accountRow
	err := s.db.GetContext(ctx, &row, `SELECT payload, encrypted FROM accounts WHERE username=$1`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	return s.codec.decode(row.Payload, row.Encrypted)
}

func (s *PostgresStore) Save(ctx context.Context, account *models.Account) error {
	payload, encrypted, err := s.codec.encode(account)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO accounts (username, payload, encrypted, updated_at)
	                                VALUES ($1, $2, $3, NOW())
	                                ON CONFLICT (username)
	                                DO UPDATE SET
	                                  payload = EXCLUDED.payload,
	                                  encrypted = EXCLUDED.encrypted,
	                                  updated_at = NOW()`, account.Username, payload, encrypted)
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	return nil
}
