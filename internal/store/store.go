// Package store persists the question bank, answer history, saved plans
// and the LLM request log in a single SQLite file.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	_ "modernc.org/sqlite" // registers "sqlite", no cgo
)

// Store owns the database handle. Repositories obtained from it share
// the connection and the global sequence.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
}

// pragmas are set once on the only pooled connection. WAL lets the CLI
// read while the TUI writes.
var pragmas = []string{
	"journal_mode = WAL",
	"busy_timeout = 5000",
	"foreign_keys = ON",
	"synchronous = NORMAL",
}

// Open connects to dsn, migrates the schema and seeds the sequence.
func Open(dsn string) (_ *Store, err error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()
	db.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec("PRAGMA " + p); err != nil {
			return nil, fmt.Errorf("pragma %s: %w", p, err)
		}
	}

	ctx := context.Background()
	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(ctx, drv); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	seq, err := newSequenceCounter(ctx, drv)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, drv: drv, seq: seq}, nil
}

// DB exposes the raw handle for diagnostics.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.drv.Close() }

func (s *Store) QuestionRepo() QuestionRepo { return &questionRepo{drv: s.drv} }

func (s *Store) AnswerRepo() AnswerRepo { return &answerRepo{drv: s.drv, seq: s.seq} }

func (s *Store) PlanRepo() PlanRepo { return &planRepo{drv: s.drv} }

func (s *Store) EventRepo() EventRepo { return &eventRepo{drv: s.drv, seq: s.seq} }

// DefaultDBPath is $EXAMPREP_DB when set, otherwise examprep.db under
// the XDG data directory. The parent directory is created.
func DefaultDBPath() (string, error) {
	if p := os.Getenv("EXAMPREP_DB"); p != "" {
		return p, EnsureDir(p)
	}
	base, err := dataDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(base, "examprep", "examprep.db")
	return p, EnsureDir(p)
}

func dataDir() (string, error) {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share"), nil
}

// EnsureDir makes sure the directory holding path exists.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// sqlite is the statement builder shared by the repositories.
var sqlite = entsql.Dialect(dialect.SQLite)

// query runs a select and scans all rows into dst, a pointer to a slice.
func query(ctx context.Context, ex dialect.ExecQuerier, sel *entsql.Selector, dst any) error {
	q, args := sel.Query()
	rows := &entsql.Rows{}
	if err := ex.Query(ctx, q, args, rows); err != nil {
		return err
	}
	defer rows.Close()
	return entsql.ScanSlice(rows, dst)
}

// exec runs a write statement and returns the affected row count.
func exec(ctx context.Context, ex dialect.ExecQuerier, stmt entsql.Querier) (int, error) {
	q, args := stmt.Query()
	var res sql.Result
	if err := ex.Exec(ctx, q, args, &res); err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// count runs a COUNT(*) over table filtered by where (may be nil).
func count(ctx context.Context, ex dialect.ExecQuerier, table string, where *entsql.Predicate) (int, error) {
	sel := sqlite.Select(entsql.Count("*")).From(sqlite.Table(table))
	if where != nil {
		sel.Where(where)
	}
	q, args := sel.Query()
	rows := &entsql.Rows{}
	if err := ex.Query(ctx, q, args, rows); err != nil {
		return 0, err
	}
	defer rows.Close()
	return entsql.ScanInt(rows)
}
