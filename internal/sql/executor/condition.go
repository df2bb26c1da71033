package executor

import (
	"fmt"

	"github.com/tuannm99/flatdb/internal/record"
	"github.com/tuannm99/flatdb/internal/sql/compiler"
)

// pendingCond is a deferred entry of the condition chain: either a
// comparison on a column that is not resolved yet, or an and/or marker.
type pendingCond struct {
	op    compiler.OpKind
	col   string
	value record.Value
}

func (p pendingCond) isCombinator() bool {
	return p.op == compiler.OpAnd || p.op == compiler.OpOr
}

// Condition is a comparison resolved against a concrete schema, or an and/or
// marker (Idx is -1 then).
type Condition struct {
	Idx   int
	Value record.Value
	Op    compiler.OpKind
}

// resolveConditions binds every pending comparison to a column of schema and
// checks the literal against the column type.
func resolveConditions(pending []pendingCond, schema record.Schema) ([]Condition, error) {
	conds := make([]Condition, 0, len(pending))
	for _, p := range pending {
		if p.isCombinator() {
			conds = append(conds, Condition{Idx: -1, Op: p.op})
			continue
		}

		idx := schema.ColIndex(p.col)
		if idx < 0 {
			return nil, fmt.Errorf("%w: no column %q in table %q", ErrUnknownColumn, p.col, schema.Name)
		}
		col := schema.Cols[idx]
		if !record.ValueMatchesType(p.value, col.Type) {
			return nil, fmt.Errorf("%w: `%s` on column %q expects %s, got %#v",
				ErrTypeMismatch, p.op, col.Name, col.Type, p.value)
		}
		conds = append(conds, Condition{Idx: idx, Value: p.value, Op: p.op})
	}
	return conds, nil
}

// evalChain evaluates the chain for one row in postfix order: comparisons
// push a boolean, and/or pop two and push the combination. Exactly one
// boolean must be left at the end.
func evalChain(conds []Condition, row record.Row) (bool, error) {
	stack := make([]bool, 0, len(conds))
	for _, c := range conds {
		switch c.Op {
		case compiler.OpAnd, compiler.OpOr:
			if len(stack) < 2 {
				return false, fmt.Errorf("%w: `%s` needs two conditions, have %d", ErrMalformedConditionChain, c.Op, len(stack))
			}
			a, b := stack[len(stack)-2], stack[len(stack)-1]
			stack = stack[:len(stack)-2]
			if c.Op == compiler.OpAnd {
				stack = append(stack, a && b)
			} else {
				stack = append(stack, a || b)
			}

		case compiler.OpEqual, compiler.OpNotEqual, compiler.OpLess, compiler.OpMore:
			ok, err := compareOp(c.Op, row[c.Idx], c.Value)
			if err != nil {
				return false, err
			}
			stack = append(stack, ok)

		default:
			return false, fmt.Errorf("executor: `%s` is not a condition", c.Op)
		}
	}

	if len(stack) != 1 {
		return false, fmt.Errorf("%w: %d results left, want 1 (missing `and`/`or`?)", ErrMalformedConditionChain, len(stack))
	}
	return stack[0], nil
}

// compareOp applies op to the row value a and the literal b.
//
//	==  a == b
//	!=  a != b
//	<   a <= b
//	>   a >= b
func compareOp(op compiler.OpKind, a, b record.Value) (bool, error) {
	c, err := record.Compare(a, b)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
	}
	switch op {
	case compiler.OpEqual:
		return c == 0, nil
	case compiler.OpNotEqual:
		return c != 0, nil
	case compiler.OpLess:
		return c <= 0, nil
	case compiler.OpMore:
		return c >= 0, nil
	default:
		return false, fmt.Errorf("executor: `%s` is not a comparison", op)
	}
}

// matchRows evaluates the chain for every row before anything is changed, so
// a failure leaves the rows untouched.
func matchRows(conds []Condition, rows []record.Row) ([]bool, error) {
	out := make([]bool, len(rows))
	for i, row := range rows {
		ok, err := evalChain(conds, row)
		if err != nil {
			return nil, err
		}
		out[i] = ok
	}
	return out, nil
}
