package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/flatdb/internal/record"
)

func TestParseSchema_Valid(t *testing.T) {
	s, err := ParseSchema("TestTable\nid:Int\nname:Str\nage:Int\n")
	require.NoError(t, err)

	assert.Equal(t, "TestTable", s.Name)
	require.Len(t, s.Cols, 3)
	assert.Equal(t, record.Column{Name: "id", Type: record.ColInt}, s.Cols[0])
	assert.Equal(t, record.Column{Name: "name", Type: record.ColText}, s.Cols[1])
	assert.Equal(t, record.Column{Name: "age", Type: record.ColInt}, s.Cols[2])
}

func TestParseSchema_TrimsWhitespace(t *testing.T) {
	s, err := ParseSchema("  users \r\n id : Int \r\nkind:Type")
	require.NoError(t, err)
	assert.Equal(t, "users", s.Name)
	assert.Equal(t, []record.Column{{Name: "id", Type: record.ColInt}, {Name: "kind", Type: record.ColType}}, s.Cols)
}

func TestParseSchema_Errors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want error
	}{
		{"empty file", "", ErrEmptyName},
		{"empty table name", "   \nid:Int\n", ErrEmptyName},
		{"duplicate column", "t\nid:Int\nid:Str\n", ErrDuplicateColumn},
		{"missing colon", "t\nid Int\n", ErrMalformedLine},
		{"unknown type", "t\nid:Float\n", ErrUnknownType},
		{"empty column name", "t\n:Int\n", ErrEmptyName},
		{"lowercase type", "t\nid:int\n", ErrUnknownType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSchema(tc.text)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestWriteSchema_RoundTrip(t *testing.T) {
	schemas := []record.Schema{
		{Name: "t"},
		{Name: "users", Cols: []record.Column{{Name: "id", Type: record.ColInt}, {Name: "name", Type: record.ColText}}},
		{Name: "tags", Cols: []record.Column{{Name: "k", Type: record.ColType}}},
	}
	for _, s := range schemas {
		text := WriteSchema(s)
		got, err := ParseSchema(text)
		require.NoError(t, err, text)
		require.Equal(t, s.Name, got.Name)
		require.Equal(t, len(s.Cols), len(got.Cols))
		for i := range s.Cols {
			require.Equal(t, s.Cols[i], got.Cols[i])
		}
	}

	assert.Equal(t, "users\nid:Int\nname:Str\n", WriteSchema(schemas[1]))
}

func TestValidateSchema(t *testing.T) {
	require.NoError(t, ValidateSchema(makeTestSchema()))

	err := ValidateSchema(record.Schema{Name: "t", Cols: []record.Column{{Name: "a", Type: record.ColInt}, {Name: "a", Type: record.ColText}}})
	require.ErrorIs(t, err, ErrDuplicateColumn)

	require.ErrorIs(t, ValidateSchema(record.Schema{}), ErrEmptyName)
}

func TestValidateSchema_UnstorableNames(t *testing.T) {
	cols := func(name string) []record.Column { return []record.Column{{Name: name, Type: record.ColInt}} }

	cases := []struct {
		name   string
		schema record.Schema
	}{
		{"colon in column", record.Schema{Name: "t", Cols: cols("a:b")}},
		{"newline in column", record.Schema{Name: "t", Cols: cols("a\nb")}},
		{"padded column", record.Schema{Name: "t", Cols: cols(" id")}},
		{"newline in table", record.Schema{Name: "x\ny", Cols: cols("id")}},
		{"carriage return in table", record.Schema{Name: "x\r", Cols: cols("id")}},
		{"padded table", record.Schema{Name: "t ", Cols: cols("id")}},
		{"parent dir", record.Schema{Name: "../outside", Cols: cols("id")}},
		{"dot dot", record.Schema{Name: "..", Cols: cols("id")}},
		{"slash", record.Schema{Name: "a/b", Cols: cols("id")}},
		{"backslash", record.Schema{Name: `a\b`, Cols: cols("id")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, ValidateSchema(tc.schema), ErrInvalidName)
		})
	}

	// a column may contain '/' since it never becomes a path
	require.NoError(t, ValidateSchema(record.Schema{Name: "t", Cols: cols("km/h")}))
}

func TestValidateSchema_AcceptedSchemasRoundTrip(t *testing.T) {
	schemas := []record.Schema{
		makeTestSchema(),
		{Name: "t.v2", Cols: []record.Column{{Name: "first name", Type: record.ColText}, {Name: "km/h", Type: record.ColInt}}},
	}
	for _, s := range schemas {
		require.NoError(t, ValidateSchema(s))
		got, err := ParseSchema(WriteSchema(s))
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

func TestParseSchema_RejectsPathTableName(t *testing.T) {
	_, err := ParseSchema("../escape\nid:Int\n")
	require.ErrorIs(t, err, ErrInvalidName)
}
