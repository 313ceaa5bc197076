package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the tables the repositories rely on.
const Schema = `
CREATE TABLE IF NOT EXISTS pickup_snapshots (
	account_id    TEXT NOT NULL,
	service_id    TEXT NOT NULL,
	pickup_date   DATE NOT NULL,
	adjusted_date DATE NOT NULL,
	synced_at     TIMESTAMP WITH TIME ZONE NOT NULL,
	PRIMARY KEY (account_id, service_id, pickup_date)
);`

// EnsureSchema applies Schema. It is idempotent.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
