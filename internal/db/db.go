package db

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var Conn *pgxpool.Pool

// Init connects to Postgres and makes sure the schema exists.
func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_NAME"),
		)
	}

	var err error
	Conn, err = pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("unable to connect to database: %v", err)
	}

	if err = Conn.Ping(context.Background()); err != nil {
		log.Fatalf("unable to ping database: %v", err)
	}

	log.Info("connected to Postgres")

	EnsureSchema()
}

// EnsureSchema creates every table the service needs. Idempotent; also used
// by database-backed tests against a throwaway instance.
func EnsureSchema() {
	ensureUsersTable()
	ensureLedgerTables()
	ensureWithdrawRequestsTable()
	ensureAccountTables()
}

// Close releases the pool. Safe to call when Init never ran.
func Close() {
	if Conn != nil {
		Conn.Close()
	}
}

func ensureUsersTable() {
	exec(`
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            username TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL DEFAULT 'user',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`, "users")
}

func ensureLedgerTables() {
	exec(`
        CREATE TABLE IF NOT EXISTS ledgers (
            user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
            alloted_amt BIGINT NOT NULL DEFAULT 0,
            locked_amt BIGINT NOT NULL DEFAULT 0,
            disbursed_amt BIGINT NOT NULL DEFAULT 0,
            avail_to_withdraw BIGINT NOT NULL DEFAULT 0,
            is_blocked BOOLEAN NOT NULL DEFAULT FALSE,
            bank_details_added BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`, "ledgers")

	exec(`
        CREATE TABLE IF NOT EXISTS ledger_transactions (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            amount BIGINT NOT NULL DEFAULT 0,
            status TEXT NOT NULL DEFAULT 'Processing',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_ledger_transactions_user_created
            ON ledger_transactions(user_id, created_at)`, "ledger_transactions")
}

// withdraw_requests keys on user_id so the database itself rules out a
// second outstanding request for the same user.
func ensureWithdrawRequestsTable() {
	exec(`
        CREATE TABLE IF NOT EXISTS withdraw_requests (
            user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
            amount BIGINT NOT NULL DEFAULT 0,
            status TEXT NOT NULL DEFAULT 'Processing',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )`, "withdraw_requests")
}

func ensureAccountTables() {
	exec(`
        CREATE TABLE IF NOT EXISTS bank_details (
            user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
            acc_holder_name TEXT NOT NULL,
            bank_name TEXT NOT NULL,
            account_no TEXT NOT NULL UNIQUE,
            ifsc TEXT NOT NULL UNIQUE,
            acc_type TEXT NOT NULL
        )`, "bank_details")

	exec(`
        CREATE TABLE IF NOT EXISTS kyc (
            user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
            acc_holder_name TEXT NOT NULL,
            mobile_no TEXT NOT NULL,
            pan TEXT NOT NULL,
            aadhar TEXT NOT NULL
        )`, "kyc")

	exec(`
        CREATE TABLE IF NOT EXISTS beneficiaries (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            beneficiary_name TEXT NOT NULL,
            mobile_no TEXT NOT NULL,
            account_no TEXT NOT NULL UNIQUE,
            address TEXT NOT NULL,
            state TEXT NOT NULL,
            zip TEXT NOT NULL,
            bank_name TEXT NOT NULL,
            branch_name TEXT NOT NULL,
            ifsc TEXT NOT NULL UNIQUE,
            acc_type TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_beneficiaries_user_created
            ON beneficiaries(user_id, created_at)`, "beneficiaries")
}

func exec(ddl, table string) {
	if _, err := Conn.Exec(context.Background(), ddl); err != nil {
		log.WithError(err).Fatalf("failed to ensure %s table", table)
	}
}
