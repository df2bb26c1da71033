package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/flatdb/internal/record"
)

func text(s string) Op { return Push(record.TextValue(s)) }
func num(n int32) Op   { return Push(record.IntValue(n)) }

func TestCompile_SelectFilter(t *testing.T) {
	ops, err := Compile("id name select id 10 > filter")
	require.NoError(t, err)

	want := []Op{
		text("id"),
		text("name"),
		Operator(OpSelect),
		text("id"),
		num(10),
		Operator(OpMore),
		Operator(OpFilter),
	}
	require.Equal(t, want, ops)
}

func TestCompile_QuotedLiteral(t *testing.T) {
	ops, err := Compile(`id 5 != name "John Watson" == and delete`)
	require.NoError(t, err)

	want := []Op{
		text("id"),
		num(5),
		Operator(OpNotEqual),
		text("name"),
		text("John Watson"),
		Operator(OpEqual),
		Operator(OpAnd),
		Operator(OpDelete),
	}
	require.Equal(t, want, ops)
}

func TestCompile_UnclosedString(t *testing.T) {
	_, err := Compile(`3 "unterminated`)
	require.ErrorIs(t, err, ErrUnclosedString)

	_, err = Compile(`3 "John Watson 20 insert`)
	require.ErrorIs(t, err, ErrUnclosedString)
}

func TestCompile_CreateWithParens(t *testing.T) {
	ops, err := Compile("t (id Int) (name Str) create")
	require.NoError(t, err)

	want := []Op{
		text("t"),
		text("id"),
		Push(record.TypeValue(record.ColInt)),
		text("name"),
		Push(record.TypeValue(record.ColText)),
		Operator(OpCreate),
	}
	require.Equal(t, want, ops)
}

func TestCompile_ParensAcrossLines(t *testing.T) {
	ops, err := Compile("t (\nid Int\nname Str\n) create\n")
	require.NoError(t, err)
	require.Len(t, ops, 6)
	assert.Equal(t, Operator(OpCreate), ops[5])
}

func TestCompile_AllOperators(t *testing.T) {
	ops, err := Compile("select insert delete filter create drop and or == != < >")
	require.NoError(t, err)

	want := []OpKind{OpSelect, OpInsert, OpDelete, OpFilter, OpCreate, OpDrop, OpAnd, OpOr, OpEqual, OpNotEqual, OpLess, OpMore}
	require.Len(t, ops, len(want))
	for i, k := range want {
		assert.Equal(t, k, ops[i].Kind, "op %d", i)
	}
}

func TestCompile_Literals(t *testing.T) {
	ops, err := Compile(`-7 +3 2147483648 Type x1 "" "select" *`)
	require.NoError(t, err)

	want := []Op{
		num(-7),
		num(3),
		text("2147483648"), // out of int32 range
		Push(record.TypeValue(record.ColType)),
		text("x1"),
		text(""),
		text("select"), // quoted words never become operators
		text("*"),
	}
	require.Equal(t, want, ops)
}

func TestCompile_Empty(t *testing.T) {
	ops, err := Compile("  \n\t ( ) ")
	require.NoError(t, err)
	require.Empty(t, ops)
}

func TestLookupOperator(t *testing.T) {
	for k, w := range operatorSpelling {
		got, ok := LookupOperator(w)
		require.True(t, ok, w)
		require.Equal(t, k, got)
		require.Equal(t, w, k.String())
	}
	_, ok := LookupOperator("filter-and")
	require.False(t, ok)
}
