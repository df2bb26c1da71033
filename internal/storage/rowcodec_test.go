package storage

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/flatdb/internal/record"
)

// makeTestSchema builds a simple schema used across tests.
func makeTestSchema() record.Schema {
	return record.Schema{
		Name: "stuff",
		Cols: []record.Column{
			{Name: "id", Type: record.ColInt},
			{Name: "name", Type: record.ColText},
			{Name: "age", Type: record.ColInt},
		},
	}
}

func TestRowWidth(t *testing.T) {
	w, err := RowWidth(makeTestSchema())
	require.NoError(t, err)
	require.Equal(t, 4+50+4, w)

	_, err = RowWidth(record.Schema{Name: "t", Cols: []record.Column{{Name: "k", Type: record.ColType}}})
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestEncodeDecodeRow_RoundTrip(t *testing.T) {
	schema := makeTestSchema()

	rows := []record.Row{
		{record.IntValue(0), record.TextValue("John"), record.IntValue(42)},
		{record.IntValue(math.MinInt32), record.TextValue(""), record.IntValue(math.MaxInt32)},
		{record.IntValue(-1), record.TextValue(strings.Repeat("x", TextWidth)), record.IntValue(7)},
	}

	for _, row := range rows {
		buf, err := EncodeRow(schema, row)
		require.NoError(t, err)
		require.Len(t, buf, 58)

		got, err := DecodeRows(schema, buf)
		require.NoError(t, err)
		require.Equal(t, []record.Row{row}, got)
	}
}

func TestEncodeRow_Layout(t *testing.T) {
	schema := makeTestSchema()
	buf, err := EncodeRow(schema, record.Row{record.IntValue(1), record.TextValue("Ann"), record.IntValue(2)})
	require.NoError(t, err)

	want := make([]byte, 58)
	binary.NativeEndian.PutUint32(want[0:], 1)
	copy(want[4:], "Ann")
	binary.NativeEndian.PutUint32(want[54:], 2)
	require.Equal(t, want, buf)
}

func TestEncodeRow_TruncatesLongText(t *testing.T) {
	schema := record.Schema{Name: "t", Cols: []record.Column{{Name: "s", Type: record.ColText}}}
	long := strings.Repeat("a", TextWidth) + "tail"

	buf, err := EncodeRow(schema, record.Row{record.TextValue(long)})
	require.NoError(t, err)
	require.Len(t, buf, TextWidth)

	got, err := DecodeRows(schema, buf)
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("a", TextWidth), got[0][0].Text)
}

func TestEncodeRow_SchemaMismatch(t *testing.T) {
	schema := makeTestSchema()

	t.Run("wrong number of values", func(t *testing.T) {
		_, err := EncodeRow(schema, record.Row{record.IntValue(1)})
		require.ErrorIs(t, err, ErrSchemaMismatch)
	})

	t.Run("wrong type for column", func(t *testing.T) {
		_, err := EncodeRow(schema, record.Row{record.TextValue("1"), record.TextValue("x"), record.IntValue(1)})
		require.ErrorIs(t, err, ErrSchemaMismatch)
	})
}

func TestDecodeRows_Truncated(t *testing.T) {
	schema := makeTestSchema()
	buf, err := EncodeRows(schema, []record.Row{
		{record.IntValue(1), record.TextValue("a"), record.IntValue(2)},
		{record.IntValue(3), record.TextValue("b"), record.IntValue(4)},
	})
	require.NoError(t, err)

	_, err = DecodeRows(schema, buf[:len(buf)-3])
	require.ErrorIs(t, err, ErrTruncatedFile)

	rows, err := DecodeRows(schema, nil)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestDecodeRows_TextStopsAtZeroByte(t *testing.T) {
	schema := record.Schema{Name: "t", Cols: []record.Column{{Name: "s", Type: record.ColText}}}

	buf := make([]byte, TextWidth)
	copy(buf, "ab\x00cd")
	rows, err := DecodeRows(schema, buf)
	require.NoError(t, err)
	require.Equal(t, "ab", rows[0][0].Text)

	// no terminator: the whole field is the value
	full := bytes.Repeat([]byte{'z'}, TextWidth)
	rows, err = DecodeRows(schema, full)
	require.NoError(t, err)
	require.Equal(t, string(full), rows[0][0].Text)
}

func TestEncodeDecode_Stable(t *testing.T) {
	schema := makeTestSchema()
	in, err := EncodeRows(schema, []record.Row{
		{record.IntValue(0), record.TextValue("John"), record.IntValue(30)},
		{record.IntValue(1), record.TextValue("Dmitriy"), record.IntValue(25)},
	})
	require.NoError(t, err)

	rows, err := DecodeRows(schema, in)
	require.NoError(t, err)
	out, err := EncodeRows(schema, rows)
	require.NoError(t, err)
	require.Equal(t, in, out)
}
