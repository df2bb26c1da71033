package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/tuannm99/flatdb/internal/record"
	"github.com/tuannm99/flatdb/internal/storage"
)

var (
	ErrTableExists = errors.New("catalog: table already exists")
	ErrNoSuchTable = errors.New("catalog: no such table")
	// The schema file of table t must be named t.tbls.
	ErrFileNameMismatch = errors.New("catalog: schema file name differs from its table name")
)

// loadConcurrency bounds how many tables are read at once during Load.
const loadConcurrency = 8

// Catalog owns every table of one database directory. It is not safe for
// concurrent use; callers serialize access (see engine.Database).
type Catalog struct {
	Name string
	Dir  string

	files  storage.FileSet
	tables []*record.Table
}

// New returns an empty catalog backed by dir. Nothing is read or written.
func New(fsys afero.Fs, name, dir string) *Catalog {
	return &Catalog{
		Name:  name,
		Dir:   dir,
		files: storage.NewFileSet(fsys, dir),
	}
}

// Open loads the catalog stored in dir on the OS filesystem.
func Open(name, dir string) (*Catalog, error) {
	return Load(afero.NewOsFs(), name, dir)
}

// Load scans dir for schema files and reads every table with its rows. A
// table whose data file does not exist yet starts with zero rows.
func Load(fsys afero.Fs, name, dir string) (*Catalog, error) {
	c := New(fsys, name, dir)
	if err := c.files.Init(); err != nil {
		return nil, err
	}

	paths, err := c.files.SchemaFiles()
	if err != nil {
		return nil, err
	}

	tables := make([]*record.Table, len(paths))
	var g errgroup.Group
	g.SetLimit(loadConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			s, err := c.files.ReadSchema(path)
			if err != nil {
				return err
			}
			if base := strings.TrimSuffix(filepath.Base(path), storage.SchemaExt); base != s.Name {
				return fmt.Errorf("%w: %s declares table %q", ErrFileNameMismatch, path, s.Name)
			}
			rows, err := c.files.ReadRows(s)
			if err != nil {
				return err
			}
			tables[i] = &record.Table{Schema: s, Rows: rows}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// file names are unique, so table names are too
	sort.Slice(tables, func(i, j int) bool { return tables[i].Name() < tables[j].Name() })
	c.tables = tables

	slog.Info("catalog: loaded", "name", name, "dir", dir, "tables", len(tables))
	return c, nil
}

// Tables returns the tables in name order.
func (c *Catalog) Tables() []*record.Table {
	return c.tables
}

// Lookup returns the named table or nil.
func (c *Catalog) Lookup(name string) *record.Table {
	for _, t := range c.tables {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

// Only returns the single table of a one-table catalog, nil otherwise.
func (c *Catalog) Only() *record.Table {
	if len(c.tables) != 1 {
		return nil
	}
	return c.tables[0]
}

// Create registers a new empty table. It is written to disk by the next Flush.
func (c *Catalog) Create(schema record.Schema) (*record.Table, error) {
	if err := storage.ValidateSchema(schema); err != nil {
		return nil, err
	}
	if _, err := storage.RowWidth(schema); err != nil {
		return nil, err
	}
	if c.Lookup(schema.Name) != nil {
		return nil, fmt.Errorf("%w: %q", ErrTableExists, schema.Name)
	}

	t := record.NewTable(schema)
	idx := sort.Search(len(c.tables), func(i int) bool { return c.tables[i].Name() >= schema.Name })
	c.tables = append(c.tables, nil)
	copy(c.tables[idx+1:], c.tables[idx:])
	c.tables[idx] = t
	return t, nil
}

// Drop removes the table and deletes its files right away.
func (c *Catalog) Drop(name string) error {
	idx := -1
	for i, t := range c.tables {
		if t.Name() == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrNoSuchTable, name)
	}

	c.tables = append(c.tables[:idx], c.tables[idx+1:]...)
	return c.files.RemoveTable(name)
}

// Flush overwrites the schema file and then the data file of every table.
func (c *Catalog) Flush() error {
	for _, t := range c.tables {
		if err := c.files.WriteTable(t); err != nil {
			return err
		}
	}
	slog.Debug("catalog: flushed", "name", c.Name, "tables", len(c.tables))
	return nil
}

// Files exposes the on-disk layout, mainly for tests and tooling.
func (c *Catalog) Files() storage.FileSet {
	return c.files
}
