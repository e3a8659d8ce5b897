package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/peerfund/backend/internal/db"
)

// Setup starts a throwaway Postgres container, points the shared pool at it
// and creates the schema. The container is terminated via t.Cleanup. Tests
// that call this need a Docker daemon; `go test -short` skips them.
func Setup(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("peerfund_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(map[string]string{
			"test":      "peerfund-backend",
			"test-name": t.Name(),
		}),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		db.Close()
		db.Conn = nil
		if err := container.Terminate(ctx); err != nil {
			t.Logf("warning: failed to terminate test container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))

	db.Conn = pool
	db.EnsureSchema()
}

// SeedUser inserts a user with an empty ledger and returns the user id.
func SeedUser(t *testing.T, username, email string) string {
	t.Helper()
	ctx := context.Background()
	id := uuid.New().String()
	_, err := db.Conn.Exec(ctx,
		`INSERT INTO users (id, username, email, password) VALUES ($1, $2, $3, $4)`,
		id, username, email, "not-a-real-hash")
	require.NoError(t, err)
	_, err = db.Conn.Exec(ctx, `INSERT INTO ledgers (user_id) VALUES ($1)`, id)
	require.NoError(t, err)
	return id
}
