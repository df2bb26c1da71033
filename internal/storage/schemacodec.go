package storage

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/tuannm99/flatdb/internal/record"
)

var (
	ErrEmptyName       = errors.New("schema: empty table or column name")
	ErrDuplicateColumn = errors.New("schema: duplicate column")
	ErrMalformedLine   = errors.New("schema: expected <column>:<type>")
	ErrUnknownType     = errors.New("schema: unknown column type")
	ErrInvalidName     = errors.New("schema: name can't be stored")
)

// checkName rejects names the text format can't hold. Table names must also
// stay inside the table directory.
func checkName(name string, table bool) error {
	switch {
	case strings.TrimSpace(name) == "":
		return ErrEmptyName
	case strings.TrimSpace(name) != name:
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidName, name)
	case strings.ContainsAny(name, ":\n\r\x00"):
		return fmt.Errorf("%w: %q contains ':', a line break or NUL", ErrInvalidName, name)
	}
	if table && (strings.ContainsAny(name, `/\`) || strings.Contains(name, "..")) {
		return fmt.Errorf("%w: %q is not a plain file name", ErrInvalidName, name)
	}
	return nil
}

// ParseSchema reads the text form of a table schema:
//
//	users
//	id:Int
//	name:Str
//
// Line 1 is the table name, every following line is one column.
func ParseSchema(text string) (record.Schema, error) {
	sc := bufio.NewScanner(strings.NewReader(text))

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return record.Schema{}, err
		}
		return record.Schema{}, fmt.Errorf("%w: table name not provided", ErrEmptyName)
	}
	name := strings.TrimSpace(sc.Text())
	if name == "" {
		return record.Schema{}, fmt.Errorf("%w: table name can't be empty", ErrEmptyName)
	}
	if err := checkName(name, true); err != nil {
		return record.Schema{}, fmt.Errorf("table name: %w", err)
	}

	s := record.Schema{Name: name}
	for lineNo := 1; sc.Scan(); lineNo++ {
		colName, typeName, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			return record.Schema{}, fmt.Errorf("%w: line %d", ErrMalformedLine, lineNo)
		}
		colName = strings.TrimSpace(colName)
		typeName = strings.TrimSpace(typeName)

		if colName == "" {
			return record.Schema{}, fmt.Errorf("%w: empty column name at line %d", ErrEmptyName, lineNo)
		}
		if s.ColIndex(colName) >= 0 {
			return record.Schema{}, fmt.Errorf("%w: %q at line %d", ErrDuplicateColumn, colName, lineNo)
		}
		ct, ok := record.ParseTypeName(typeName)
		if !ok {
			return record.Schema{}, fmt.Errorf("%w: %q at line %d", ErrUnknownType, typeName, lineNo)
		}
		s.Cols = append(s.Cols, record.Column{Name: colName, Type: ct})
	}
	if err := sc.Err(); err != nil {
		return record.Schema{}, err
	}
	return s, nil
}

// WriteSchema is the inverse of ParseSchema.
func WriteSchema(s record.Schema) string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('\n')
	for _, col := range s.Cols {
		b.WriteString(col.Name)
		b.WriteByte(':')
		b.WriteString(record.TypeName(col.Type))
		b.WriteByte('\n')
	}
	return b.String()
}

// ValidateSchema accepts exactly the schemas that survive a
// WriteSchema/ParseSchema round trip and map to files inside the table
// directory.
func ValidateSchema(s record.Schema) error {
	if err := checkName(s.Name, true); err != nil {
		return fmt.Errorf("table name: %w", err)
	}
	for i, col := range s.Cols {
		if err := checkName(col.Name, false); err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
		if s.ColIndex(col.Name) != i {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Name)
		}
		if _, ok := record.ParseTypeName(record.TypeName(col.Type)); !ok {
			return fmt.Errorf("%w: %d", ErrUnknownType, uint8(col.Type))
		}
	}
	return nil
}
