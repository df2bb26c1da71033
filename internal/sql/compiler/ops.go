package compiler

import (
	"fmt"

	"github.com/tuannm99/flatdb/internal/record"
)

// OpKind identifies one compiled operation. OpPush carries a value, every
// other kind is a named operator.
type OpKind uint8

const (
	OpPush OpKind = iota
	OpSelect
	OpInsert
	OpDelete
	OpFilter
	OpCreate
	OpDrop
	OpAnd
	OpOr
	OpEqual
	OpNotEqual
	OpLess
	OpMore
)

var operatorSpelling = map[OpKind]string{
	OpSelect:   "select",
	OpInsert:   "insert",
	OpDelete:   "delete",
	OpFilter:   "filter",
	OpCreate:   "create",
	OpDrop:     "drop",
	OpAnd:      "and",
	OpOr:       "or",
	OpEqual:    "==",
	OpNotEqual: "!=",
	OpLess:     "<",
	OpMore:     ">",
}

var operatorByWord = func() map[string]OpKind {
	m := make(map[string]OpKind, len(operatorSpelling))
	for k, w := range operatorSpelling {
		m[w] = k
	}
	return m
}()

// LookupOperator resolves a reserved word.
func LookupOperator(word string) (OpKind, bool) {
	k, ok := operatorByWord[word]
	return k, ok
}

func (k OpKind) String() string {
	if k == OpPush {
		return "push"
	}
	if w, ok := operatorSpelling[k]; ok {
		return w
	}
	return fmt.Sprintf("OpKind(%d)", uint8(k))
}

// IsComparison reports whether k is ==, !=, < or >.
func (k OpKind) IsComparison() bool {
	switch k {
	case OpEqual, OpNotEqual, OpLess, OpMore:
		return true
	default:
		return false
	}
}

// Op is one compiled unit of a query.
type Op struct {
	Kind  OpKind
	Value record.Value // only for OpPush
}

func Push(v record.Value) Op { return Op{Kind: OpPush, Value: v} }
func Operator(k OpKind) Op   { return Op{Kind: k} }

func (o Op) String() string {
	if o.Kind == OpPush {
		return fmt.Sprintf("push %#v", o.Value)
	}
	return o.Kind.String()
}
