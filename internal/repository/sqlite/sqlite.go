// Package sqlite stores everything in a single SQLite file through the
// pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/vedran77/lawnpool/internal/repository"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Open opens the database at path, enables WAL mode and foreign keys and
// applies the schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection keeps the pragmas below in effect for every query.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

func NewStore(db *sql.DB) *repository.Store {
	return &repository.Store{
		Users:    NewUserRepo(db),
		Groups:   NewGroupRepo(db),
		Offers:   NewOfferRepo(db),
		Messages: NewMessageRepo(db),
		Close:    func() { db.Close() },
	}
}

// Timestamps are stored as Unix microseconds so ORDER BY stays numeric.
func toMicros(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

func fromMicros(v int64) time.Time {
	return time.UnixMicro(v).UTC()
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
