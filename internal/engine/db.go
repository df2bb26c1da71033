package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/afero"

	"github.com/tuannm99/flatdb/internal/catalog"
	"github.com/tuannm99/flatdb/internal/record"
	"github.com/tuannm99/flatdb/internal/sql/executor"
)

var ErrDatabaseClosed = errors.New("flatdb: database is closed")

type DatabaseOperation interface {
	Exec(query string) (*executor.Result, error)
	Tables() []TableMeta
	Flush() error
	Close() error
}

// TableMeta is a snapshot of one table's shape.
type TableMeta struct {
	Name     string        `json:"name"`
	Schema   record.Schema `json:"schema"`
	RowCount int           `json:"row_count"`
}

var _ DatabaseOperation = (*Database)(nil)

// Database is a loaded catalog plus the executor that runs queries on it.
// Queries are serialized: one runs at a time.
type Database struct {
	mu     sync.Mutex
	cat    *catalog.Catalog
	exec   *executor.Executor
	closed bool
}

// Open loads the catalog named name from dir on fsys.
func Open(fsys afero.Fs, name, dir string) (*Database, error) {
	cat, err := catalog.Load(fsys, name, dir)
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", name, err)
	}
	return &Database{cat: cat, exec: executor.NewExecutor(cat)}, nil
}

// OpenDir is Open on the OS filesystem.
func OpenDir(name, dir string) (*Database, error) {
	return Open(afero.NewOsFs(), name, dir)
}

func (db *Database) Name() string { return db.cat.Name }

func (db *Database) Dir() string { return db.cat.Dir }

// Exec compiles and runs one query. Changes stay in memory until Flush.
func (db *Database) Exec(query string) (*executor.Result, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil, ErrDatabaseClosed
	}
	return db.exec.ExecQuery(query)
}

func (db *Database) Tables() []TableMeta {
	db.mu.Lock()
	defer db.mu.Unlock()

	tables := db.cat.Tables()
	out := make([]TableMeta, 0, len(tables))
	for _, t := range tables {
		out = append(out, TableMeta{Name: t.Name(), Schema: t.Schema, RowCount: len(t.Rows)})
	}
	return out
}

// Flush writes every table back to its files.
func (db *Database) Flush() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrDatabaseClosed
	}
	return db.cat.Flush()
}

// Close flushes and rejects every later call. Closing twice returns
// ErrDatabaseClosed.
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrDatabaseClosed
	}
	if err := db.cat.Flush(); err != nil {
		return fmt.Errorf("close database %q: %w", db.cat.Name, err)
	}
	db.closed = true
	slog.Info("database closed", "name", db.cat.Name, "dir", db.cat.Dir)
	return nil
}
