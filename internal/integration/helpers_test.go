package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"assist_backend/internal/db"
	"assist_backend/internal/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
)

// openDB connects to DATABASE_URL and applies the embedded migrations.
func openDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	pool, err := db.Open(context.Background(), dsn, os.Getenv("DATABASE_USERNAME"), os.Getenv("DATABASE_PASSWORD"))
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrations.Apply(context.Background(), pool, nil); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return pool
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}
