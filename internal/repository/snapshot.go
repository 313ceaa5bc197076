package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wm-pickup/internal/apperr"
	"wm-pickup/internal/domain"
	"wm-pickup/internal/holiday"
	"wm-pickup/internal/ports/snapshottx"
)

// SnapshotRepo stores the last synced pickup schedule of every service.
type SnapshotRepo struct {
	db *pgxpool.Pool
}

// NewSnapshotRepo creates a new SnapshotRepo.
func NewSnapshotRepo(db *pgxpool.Pool) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// WithTx opens a transaction and executes fn within it.
func (r *SnapshotRepo) WithTx(ctx context.Context, fn func(tx snapshottx.Repository) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				panic(rbErr)
			}
			panic(p)
		}
	}()

	if err := fn(&TxRepo{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Save replaces the stored schedule of one service with s.
func (r *SnapshotRepo) Save(ctx context.Context, s domain.PickupSchedule, syncedAt time.Time) error {
	if len(s.Raw) != len(s.Dates) {
		return fmt.Errorf("save snapshot %s/%s: raw and adjusted differ in length: %w",
			s.AccountID, s.ServiceID, apperr.Invalid)
	}
	rows := make([]snapshottx.Row, 0, len(s.Raw))
	for i := range s.Raw {
		rows = append(rows, snapshottx.Row{
			AccountID: s.AccountID,
			ServiceID: s.ServiceID,
			Pickup:    holiday.Day(s.Raw[i]),
			Adjusted:  holiday.Day(s.Dates[i]),
			SyncedAt:  syncedAt.UTC(),
		})
	}

	return r.WithTx(ctx, func(tx snapshottx.Repository) error {
		if _, err := tx.DeleteService(ctx, s.AccountID, s.ServiceID); err != nil {
			return err
		}
		return tx.InsertRows(ctx, rows)
	})
}

// Load returns the stored pickup -> adjusted mapping of one service. A
// service that was never synced yields an empty map.
func (r *SnapshotRepo) Load(ctx context.Context, accountID, serviceID string) (map[time.Time]time.Time, error) {
	rows, err := r.db.Query(ctx, `
		SELECT pickup_date, adjusted_date
		FROM pickup_snapshots
		WHERE account_id = $1 AND service_id = $2
	`, accountID, serviceID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s/%s: %w", accountID, serviceID, err)
	}
	defer rows.Close()

	out := make(map[time.Time]time.Time)
	for rows.Next() {
		var pickup, adjusted time.Time
		if err := rows.Scan(&pickup, &adjusted); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		out[holiday.Day(pickup)] = holiday.Day(adjusted)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load snapshot %s/%s: %w", accountID, serviceID, err)
	}
	return out, nil
}

// TxRepo represents transaction repository.
type TxRepo struct {
	tx pgx.Tx
}

// DeleteService removes every stored row of one service.
func (r *TxRepo) DeleteService(ctx context.Context, accountID, serviceID string) (int64, error) {
	ct, err := r.tx.Exec(ctx,
		`DELETE FROM pickup_snapshots WHERE account_id = $1 AND service_id = $2`,
		accountID, serviceID)
	if err != nil {
		return 0, fmt.Errorf("delete snapshot %s/%s: %w", accountID, serviceID, err)
	}
	return ct.RowsAffected(), nil
}

// InsertRows batches the inserts of rows into one round trip.
func (r *TxRepo) InsertRows(ctx context.Context, rows []snapshottx.Row) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`
			INSERT INTO pickup_snapshots(account_id, service_id, pickup_date, adjusted_date, synced_at)
			VALUES ($1, $2, $3, $4, $5)
		`, row.AccountID, row.ServiceID, row.Pickup, row.Adjusted, row.SyncedAt)
	}

	br := r.tx.SendBatch(ctx, batch)
	for range rows {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if IsDuplicate(err) {
				return fmt.Errorf("insert snapshot row: %w", apperr.Conflict)
			}
			return fmt.Errorf("insert snapshot row: %w", err)
		}
	}
	return br.Close()
}
