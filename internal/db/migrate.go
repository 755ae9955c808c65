package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// RunMigrations creates the account table. Each account is one row holding
// the whole JSON record, sealed when encrypted is true.
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS accounts (
    username TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return err
	}

	alters := `
DO $$ BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM information_schema.columns WHERE table_name='accounts' AND column_name='encrypted'
    ) THEN
        ALTER TABLE accounts ADD COLUMN encrypted BOOLEAN NOT NULL DEFAULT false;
    END IF;
END $$;`
	_, err = db.ExecContext(ctx, alters)
	return err
}
