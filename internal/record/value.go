package record

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

var ErrKindMismatch = errors.New("record: values of different kinds are not comparable")

// Value is a tagged union of Int, Text and Type. Only the field selected by
// Kind is meaningful.
type Value struct {
	Kind ColumnType
	Int  int32
	Text string
	Type ColumnType
}

func IntValue(v int32) Value       { return Value{Kind: ColInt, Int: v} }
func TextValue(s string) Value     { return Value{Kind: ColText, Text: s} }
func TypeValue(t ColumnType) Value { return Value{Kind: ColType, Type: t} }

// AsText returns the text payload when v is a Text value.
func (v Value) AsText() (string, bool) {
	if v.Kind != ColText {
		return "", false
	}
	return v.Text, true
}

// AsType returns the type payload when v is a Type value.
func (v Value) AsType() (ColumnType, bool) {
	if v.Kind != ColType {
		return 0, false
	}
	return v.Type, true
}

// ValueMatchesType reports whether v may be stored in a column of type t.
func ValueMatchesType(v Value, t ColumnType) bool {
	return v.Kind == t
}

// Compare orders two values of the same kind. Values of different kinds
// are never coerced.
func Compare(a, b Value) (int, error) {
	if a.Kind != b.Kind {
		return 0, fmt.Errorf("%w: %s vs %s", ErrKindMismatch, a.Kind, b.Kind)
	}
	switch a.Kind {
	case ColInt:
		return cmp.Compare(a.Int, b.Int), nil
	case ColText:
		return cmp.Compare(a.Text, b.Text), nil
	case ColType:
		return cmp.Compare(a.Type, b.Type), nil
	default:
		return 0, fmt.Errorf("record: invalid value kind %d", uint8(a.Kind))
	}
}

func (v Value) String() string {
	switch v.Kind {
	case ColInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case ColText:
		return v.Text
	case ColType:
		return TypeName(v.Type)
	default:
		return "<invalid>"
	}
}

func (v Value) GoString() string {
	switch v.Kind {
	case ColInt:
		return fmt.Sprintf("Int(%d)", v.Int)
	case ColText:
		return fmt.Sprintf("Str(%q)", v.Text)
	case ColType:
		return fmt.Sprintf("Type(%s)", TypeName(v.Type))
	default:
		return "Invalid"
	}
}

// wire form: exactly one field set
type valueJSON struct {
	Int  *int32      `json:"int,omitempty"`
	Text *string     `json:"text,omitempty"`
	Type *ColumnType `json:"type,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	var out valueJSON
	switch v.Kind {
	case ColInt:
		out.Int = &v.Int
	case ColText:
		out.Text = &v.Text
	case ColType:
		out.Type = &v.Type
	default:
		return nil, fmt.Errorf("record: invalid value kind %d", uint8(v.Kind))
	}
	return json.Marshal(out)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	var in valueJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	switch {
	case in.Int != nil:
		*v = IntValue(*in.Int)
	case in.Text != nil:
		*v = TextValue(*in.Text)
	case in.Type != nil:
		*v = TypeValue(*in.Type)
	default:
		return fmt.Errorf("record: empty value %s", string(b))
	}
	return nil
}
