// Package migrations embeds the SQL schema. Files are applied in lexical order and
// are written to be idempotent, so re-applying them is safe.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed *.sql
var files embed.FS

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Names returns the migration file names in apply order.
func Names() ([]string, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Read returns the SQL of one migration.
func Read(name string) (string, error) {
	b, err := files.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Apply executes every migration against db. onApplied, if not nil, is called after each file.
func Apply(ctx context.Context, db Execer, onApplied func(name string)) error {
	names, err := Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		sql, err := Read(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := db.Exec(ctx, sql); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		if onApplied != nil {
			onApplied(name)
		}
	}
	return nil
}
