package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/peerfund/backend/internal/db"
)

var (
	ErrNotFound     = errors.New("ledger not found")
	ErrUserNotFound = errors.New("user not found")
)

const ledgerColumns = `user_id, alloted_amt, locked_amt, disbursed_amt,
       avail_to_withdraw, is_blocked, bank_details_added, created_at`

func scanLedger(row pgx.Row) (*Ledger, error) {
	var l Ledger
	err := row.Scan(
		&l.UserID,
		&l.AllotedAmt,
		&l.LockedAmt,
		&l.DisbursedAmt,
		&l.AvailToWithdraw,
		&l.IsBlocked,
		&l.BankDetailsAdded,
		&l.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan ledger: %w", err)
	}
	return &l, nil
}

// GetByUserID fetches a user's ledger record.
func GetByUserID(ctx context.Context, userID string) (*Ledger, error) {
	row := db.Conn.QueryRow(ctx,
		`SELECT `+ledgerColumns+` FROM ledgers WHERE user_id = $1`, userID)
	return scanLedger(row)
}

// UpdateByEmail runs a read-modify-write on the ledger of the user owning
// the given email. The row is locked for the duration of the transaction so
// the recompute never reads stale inputs under concurrent edits.
func UpdateByEmail(ctx context.Context, email string, mutate func(*Ledger)) (*Ledger, error) {
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin ledger update: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID string
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve user by email: %w", err)
	}

	l, err := LockForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	mutate(l)

	if err := Write(ctx, tx, l); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit ledger update: %w", err)
	}
	return l, nil
}

// SetBlocked flips the withdrawal block flag on a user's ledger.
func SetBlocked(ctx context.Context, userID string, blocked bool) error {
	ct, err := db.Conn.Exec(ctx,
		`UPDATE ledgers SET is_blocked = $1 WHERE user_id = $2`, blocked, userID)
	if err != nil {
		return fmt.Errorf("update block flag: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TransactionsByUserID returns the user's disbursement history, oldest first.
func TransactionsByUserID(ctx context.Context, userID string) ([]Transaction, error) {
	rows, err := db.Conn.Query(ctx,
		`SELECT id, amount, status, created_at
         FROM ledger_transactions
         WHERE user_id = $1
         ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Amount, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// LockForUpdate reads a ledger row under FOR UPDATE inside an open
// transaction. Settlement uses it to combine the ledger write, the history
// append and the request deletion into one atomic unit.
func LockForUpdate(ctx context.Context, tx pgx.Tx, userID string) (*Ledger, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+ledgerColumns+` FROM ledgers WHERE user_id = $1 FOR UPDATE`, userID)
	return scanLedger(row)
}

// Write persists all ledger fields inside an open transaction.
func Write(ctx context.Context, tx pgx.Tx, l *Ledger) error {
	_, err := tx.Exec(ctx, `
        UPDATE ledgers
        SET alloted_amt = $1,
            locked_amt = $2,
            disbursed_amt = $3,
            avail_to_withdraw = $4,
            is_blocked = $5,
            bank_details_added = $6
        WHERE user_id = $7`,
		l.AllotedAmt, l.LockedAmt, l.DisbursedAmt, l.AvailToWithdraw,
		l.IsBlocked, l.BankDetailsAdded, l.UserID)
	if err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}
