package migrations

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

type recordingExecer struct {
	stmts  []string
	failOn string
}

func (r *recordingExecer) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	if r.failOn != "" && strings.Contains(sql, r.failOn) {
		return pgconn.CommandTag{}, errors.New("boom")
	}
	r.stmts = append(r.stmts, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func TestNamesOrdered(t *testing.T) {
	names, err := Names()
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	want := []string{"001_users.sql", "002_tasks.sql", "003_boards.sql", "004_audit_logs.sql"}
	if len(names) != len(want) {
		t.Fatalf("names = %v; want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names[%d] = %s; want %s", i, names[i], want[i])
		}
	}
}

func TestApply(t *testing.T) {
	ex := &recordingExecer{}
	var applied []string
	if err := Apply(context.Background(), ex, func(n string) { applied = append(applied, n) }); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(applied) != 4 || len(ex.stmts) != 4 {
		t.Fatalf("applied %v, executed %d statements", applied, len(ex.stmts))
	}
	if !strings.Contains(ex.stmts[0], "CREATE TABLE IF NOT EXISTS users") {
		t.Fatalf("users table must be created first: %s", ex.stmts[0])
	}
}

func TestApplyStopsOnError(t *testing.T) {
	ex := &recordingExecer{failOn: "tasks"}
	err := Apply(context.Background(), ex, nil)
	if err == nil || !strings.Contains(err.Error(), "002_tasks.sql") {
		t.Fatalf("expected error naming 002_tasks.sql, got %v", err)
	}
	if len(ex.stmts) != 1 {
		t.Fatalf("expected only the first migration to run, ran %d", len(ex.stmts))
	}
}
