package record

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeName_RoundTrip(t *testing.T) {
	for _, ct := range []ColumnType{ColInt, ColText, ColType} {
		got, ok := ParseTypeName(TypeName(ct))
		require.True(t, ok, "type %d", ct)
		require.Equal(t, ct, got)
	}

	assert.Equal(t, "Int", TypeName(ColInt))
	assert.Equal(t, "Str", TypeName(ColText))
	assert.Equal(t, "Type", TypeName(ColType))

	_, ok := ParseTypeName("int")
	require.False(t, ok)
	_, ok = ParseTypeName("")
	require.False(t, ok)
}

func TestValueMatchesType(t *testing.T) {
	require.True(t, ValueMatchesType(IntValue(1), ColInt))
	require.True(t, ValueMatchesType(TextValue("a"), ColText))
	require.True(t, ValueMatchesType(TypeValue(ColInt), ColType))

	require.False(t, ValueMatchesType(IntValue(1), ColText))
	require.False(t, ValueMatchesType(TextValue("1"), ColInt))
	require.False(t, ValueMatchesType(TypeValue(ColText), ColText))
}

func TestCompare(t *testing.T) {
	c, err := Compare(IntValue(-3), IntValue(7))
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = Compare(TextValue("b"), TextValue("a"))
	require.NoError(t, err)
	require.Equal(t, 1, c)

	c, err = Compare(TextValue("same"), TextValue("same"))
	require.NoError(t, err)
	require.Equal(t, 0, c)

	_, err = Compare(IntValue(1), TextValue("1"))
	require.ErrorIs(t, err, ErrKindMismatch)
}

func TestValue_JSON(t *testing.T) {
	row := Row{IntValue(42), TextValue("John Watson"), TypeValue(ColText)}

	b, err := json.Marshal(row)
	require.NoError(t, err)
	require.JSONEq(t, `[{"int":42},{"text":"John Watson"},{"type":"Str"}]`, string(b))

	var back Row
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, row, back)

	var v Value
	require.Error(t, json.Unmarshal([]byte(`{}`), &v))
}

func TestSchema_ColIndex(t *testing.T) {
	s := Schema{Name: "users", Cols: []Column{{Name: "id", Type: ColInt}, {Name: "name", Type: ColText}}}
	require.Equal(t, 0, s.ColIndex("id"))
	require.Equal(t, 1, s.ColIndex("name"))
	require.Equal(t, -1, s.ColIndex("age"))
	require.Equal(t, 2, s.NumCols())
}
