package withdraw

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/peerfund/backend/internal/db"
	"github.com/peerfund/backend/internal/ledger"
)

// pgStore backs the workflow with Postgres. The shared pool is resolved at
// call time, after db.Init has run.
type pgStore struct{}

func (pgStore) Ledger(ctx context.Context, userID string) (*ledger.Ledger, error) {
	return ledger.GetByUserID(ctx, userID)
}

func (pgStore) PendingRequest(ctx context.Context, userID string) (*Request, error) {
	var r Request
	err := db.Conn.QueryRow(ctx,
		`SELECT user_id, amount, status, created_at
         FROM withdraw_requests WHERE user_id = $1`, userID).
		Scan(&r.UserID, &r.Amount, &r.Status, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query withdraw request: %w", err)
	}
	return &r, nil
}

// CreateRequest relies on the user_id primary key: a concurrent duplicate
// insert conflicts instead of producing a second row.
func (pgStore) CreateRequest(ctx context.Context, req *Request) (bool, error) {
	ct, err := db.Conn.Exec(ctx, `
        INSERT INTO withdraw_requests (user_id, amount, status, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id) DO NOTHING`,
		req.UserID, req.Amount, req.Status, req.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("create withdraw request: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

// Settle runs the whole settlement in one database transaction: lock the
// ledger row, delete-and-return the request, disburse, append history. A
// crash at any point before commit leaves both records untouched, so the
// same request can never settle twice.
func (pgStore) Settle(ctx context.Context, userID string) (*ledger.Ledger, *Request, error) {
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin settlement: %w", err)
	}
	defer tx.Rollback(ctx)

	l, err := ledger.LockForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, nil, err
	}

	var req Request
	err = tx.QueryRow(ctx, `
        DELETE FROM withdraw_requests WHERE user_id = $1
        RETURNING user_id, amount, status, created_at`, userID).
		Scan(&req.UserID, &req.Amount, &req.Status, &req.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrNoRequest
	}
	if err != nil {
		return nil, nil, fmt.Errorf("consume withdraw request: %w", err)
	}

	ledger.Settle(l, req.Amount)
	if err := ledger.Write(ctx, tx, l); err != nil {
		return nil, nil, err
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO ledger_transactions (id, user_id, amount, status)
        VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), userID, req.Amount, ledger.StatusProcessed)
	if err != nil {
		return nil, nil, fmt.Errorf("append transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit settlement: %w", err)
	}
	return l, &req, nil
}

func (pgStore) DeleteRequest(ctx context.Context, userID string) (bool, error) {
	ct, err := db.Conn.Exec(ctx,
		`DELETE FROM withdraw_requests WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("delete withdraw request: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}
