// Package flatdb is the top-level facade for the flat-file table store.
package flatdb

import (
	"github.com/spf13/afero"

	"github.com/tuannm99/flatdb/internal/engine"
	"github.com/tuannm99/flatdb/internal/sql/executor"
)

type (
	Database  = engine.Database
	TableMeta = engine.TableMeta
	Result    = executor.Result
)

// Open loads the database stored in dir on the OS filesystem.
func Open(name, dir string) (*Database, error) {
	return engine.OpenDir(name, dir)
}

// OpenFs is Open on any afero filesystem, e.g. afero.NewMemMapFs() in tests.
func OpenFs(fsys afero.Fs, name, dir string) (*Database, error) {
	return engine.Open(fsys, name, dir)
}
