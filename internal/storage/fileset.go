package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/tuannm99/flatdb/internal/record"
)

const (
	SchemaExt = ".tbls"
	DataExt   = ".tbl"

	FileMode0644 = 0o644
	FileMode0755 = 0o755
)

var (
	ErrOpenFailed  = errors.New("storage: open failed")
	ErrReadFailed  = errors.New("storage: read failed")
	ErrWriteFailed = errors.New("storage: write failed")
)

// FileSet is a directory holding one schema file and one data file per table:
// <Dir>/<table>.tbls and <Dir>/<table>.tbl.
type FileSet struct {
	FS  afero.Fs
	Dir string
}

func NewFileSet(fsys afero.Fs, dir string) FileSet {
	return FileSet{FS: fsys, Dir: dir}
}

func (fs FileSet) SchemaPath(table string) string {
	return filepath.Join(fs.Dir, table+SchemaExt)
}

func (fs FileSet) DataPath(table string) string {
	return filepath.Join(fs.Dir, table+DataExt)
}

// Init creates the directory if it does not exist yet.
func (fs FileSet) Init() error {
	if err := fs.FS.MkdirAll(fs.Dir, FileMode0755); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOpenFailed, fs.Dir, err)
	}
	return nil
}

// SchemaFiles lists every schema file in the directory, sorted by path.
func (fs FileSet) SchemaFiles() ([]string, error) {
	infos, err := afero.ReadDir(fs.FS, fs.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenFailed, fs.Dir, err)
	}

	var paths []string
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), SchemaExt) {
			continue
		}
		paths = append(paths, filepath.Join(fs.Dir, info.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadSchema loads and parses one schema file.
func (fs FileSet) ReadSchema(path string) (record.Schema, error) {
	data, err := afero.ReadFile(fs.FS, path)
	if err != nil {
		return record.Schema{}, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}
	s, err := ParseSchema(string(data))
	if err != nil {
		return record.Schema{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ReadRows loads the data file of s. A missing data file is created empty.
func (fs FileSet) ReadRows(s record.Schema) ([]record.Row, error) {
	path := fs.DataPath(s.Name)
	data, err := afero.ReadFile(fs.FS, path)
	if errors.Is(err, os.ErrNotExist) {
		if err := afero.WriteFile(fs.FS, path, nil, FileMode0644); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFailed, path, err)
	}

	rows, err := DecodeRows(s, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// WriteTable overwrites the schema file and then the data file of t.
func (fs FileSet) WriteTable(t *record.Table) error {
	data, err := EncodeRows(t.Schema, t.Rows)
	if err != nil {
		return fmt.Errorf("table %q: %w", t.Name(), err)
	}

	schemaPath := fs.SchemaPath(t.Name())
	if err := afero.WriteFile(fs.FS, schemaPath, []byte(WriteSchema(t.Schema)), FileMode0644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, schemaPath, err)
	}

	dataPath := fs.DataPath(t.Name())
	if err := afero.WriteFile(fs.FS, dataPath, data, FileMode0644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, dataPath, err)
	}
	return nil
}

// RemoveTable deletes both files of a table. Files that were never written
// are ignored.
func (fs FileSet) RemoveTable(table string) error {
	for _, path := range []string{fs.SchemaPath(table), fs.DataPath(table)} {
		if err := fs.FS.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: remove %s: %w", ErrWriteFailed, path, err)
		}
	}
	return nil
}
