package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const createUsersTable = `
	CREATE TABLE IF NOT EXISTS users (
		id         UUID PRIMARY KEY,
		email      VARCHAR(255) NOT NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name  VARCHAR(100) NOT NULL,
		is_active  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NULL,
		CONSTRAINT users_email_key UNIQUE (email)
	);
	CREATE INDEX IF NOT EXISTS users_created_at_idx ON users (created_at DESC);
`

// EnsureSchema creates the tables the service needs when they are missing.
func EnsureSchema(ctx context.Context, db DB, logger *zap.Logger) error {
	if _, err := db.Exec(ctx, createUsersTable); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	logger.Info("db schema ready")

	return nil
}
