package record

import "fmt"

// ColumnType is both the type of a column and the variant of a Value.
type ColumnType uint8

const (
	ColInt  ColumnType = iota + 1 // 32-bit signed integer
	ColText                       // text, at most TextWidth bytes on disk
	ColType                       // type tag; query-time literal only
)

// Type names used by schema files and query literals.
const (
	IntTypeName  = "Int"
	TextTypeName = "Str"
	TypeTypeName = "Type"
)

// TypeName returns the literal spelling of t.
func TypeName(t ColumnType) string {
	switch t {
	case ColInt:
		return IntTypeName
	case ColText:
		return TextTypeName
	case ColType:
		return TypeTypeName
	default:
		return fmt.Sprintf("ColumnType(%d)", uint8(t))
	}
}

// ParseTypeName is the inverse of TypeName.
func ParseTypeName(s string) (ColumnType, bool) {
	switch s {
	case IntTypeName:
		return ColInt, true
	case TextTypeName:
		return ColText, true
	case TypeTypeName:
		return ColType, true
	default:
		return 0, false
	}
}

func (t ColumnType) String() string { return TypeName(t) }

func (t ColumnType) MarshalText() ([]byte, error) {
	switch t {
	case ColInt, ColText, ColType:
		return []byte(TypeName(t)), nil
	default:
		return nil, fmt.Errorf("record: invalid column type %d", uint8(t))
	}
}

func (t *ColumnType) UnmarshalText(b []byte) error {
	ct, ok := ParseTypeName(string(b))
	if !ok {
		return fmt.Errorf("record: unknown column type %q", string(b))
	}
	*t = ct
	return nil
}

type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Schema is a table name plus its ordered columns.
// Once a table exists its schema never changes.
type Schema struct {
	Name string   `json:"name"`
	Cols []Column `json:"columns"`
}

func (s Schema) NumCols() int { return len(s.Cols) }

// ColIndex returns the position of the named column or -1.
func (s Schema) ColIndex(name string) int {
	for i := range s.Cols {
		if s.Cols[i].Name == name {
			return i
		}
	}
	return -1
}

// Row holds one value per column, aligned with the schema.
type Row []Value

// Clone returns a copy that shares nothing with r.
func (r Row) Clone() Row {
	cp := make(Row, len(r))
	copy(cp, r)
	return cp
}

// Table is a schema and its rows in insertion order.
type Table struct {
	Schema Schema `json:"schema"`
	Rows   []Row  `json:"rows"`
}

func NewTable(schema Schema) *Table {
	return &Table{Schema: schema}
}

func (t *Table) Name() string { return t.Schema.Name }
