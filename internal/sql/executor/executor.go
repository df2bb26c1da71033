package executor

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/tuannm99/flatdb/internal/record"
	"github.com/tuannm99/flatdb/internal/sql/compiler"
)

// Catalog is the table store a query runs against.
type Catalog interface {
	Lookup(name string) *record.Table
	Only() *record.Table
	Create(schema record.Schema) (*record.Table, error)
	Drop(name string) error
}

// Executor runs compiled queries against a Catalog. It keeps no state
// between queries.
type Executor struct {
	DB Catalog
}

func NewExecutor(db Catalog) *Executor {
	return &Executor{DB: db}
}

// ExecQuery is the top-level entry: query text -> Result.
func (e *Executor) ExecQuery(query string) (*Result, error) {
	ops, err := compiler.Compile(query)
	if err != nil {
		return nil, err
	}
	return e.Execute(ops)
}

// Execute runs ops left to right on one operand stack and one pending
// condition chain. The first failing operation aborts the query.
func (e *Executor) Execute(ops []compiler.Op) (*Result, error) {
	r := &run{db: e.DB}
	for i, op := range ops {
		if err := r.step(op); err != nil {
			slog.Debug("executor: query aborted", "op", op.String(), "pos", i, "err", err)
			return nil, err
		}
	}

	if len(r.words) > 0 {
		r.warn(fmt.Sprintf("%d unused words in the stack", len(r.words)))
	}
	if len(r.pending) > 0 {
		r.warn(fmt.Sprintf("%d unused conditions in the stack", len(r.pending)))
	}

	return &Result{Table: r.temp, Affected: r.affected, Warnings: r.warnings}, nil
}

// run is the state of a single query.
type run struct {
	db       Catalog
	words    []record.Value
	pending  []pendingCond
	temp     *record.Table
	affected int
	warnings []string
}

func (r *run) warn(msg string) {
	slog.Warn("executor: " + msg)
	r.warnings = append(r.warnings, msg)
}

func (r *run) step(op compiler.Op) error {
	switch op.Kind {
	case compiler.OpPush:
		r.words = append(r.words, op.Value)
		return nil
	case compiler.OpSelect:
		return r.execSelect()
	case compiler.OpInsert:
		return r.execInsert()
	case compiler.OpDelete:
		return r.execDelete()
	case compiler.OpFilter:
		return r.execFilter()
	case compiler.OpCreate:
		return r.execCreate()
	case compiler.OpDrop:
		return r.execDrop()
	case compiler.OpAnd, compiler.OpOr:
		r.pending = append(r.pending, pendingCond{op: op.Kind})
		return nil
	case compiler.OpEqual, compiler.OpNotEqual, compiler.OpLess, compiler.OpMore:
		return r.execCompare(op.Kind)
	default:
		return fmt.Errorf("executor: unsupported operation %s", op.Kind)
	}
}

func (r *run) top() (record.Value, bool) {
	if len(r.words) == 0 {
		return record.Value{}, false
	}
	return r.words[len(r.words)-1], true
}

func (r *run) pop() {
	r.words = r.words[:len(r.words)-1]
}

// popTable resolves the table an operator works on. The top operand names it;
// when it does not and the catalog has exactly one table, that table is used
// and the operand stays on the stack.
func (r *run) popTable(op compiler.OpKind) (*record.Table, error) {
	if v, ok := r.top(); ok {
		if name, ok := v.AsText(); ok {
			if t := r.db.Lookup(name); t != nil {
				r.pop()
				return t, nil
			}
			if t := r.db.Only(); t != nil {
				return t, nil
			}
			return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
		}
	}
	if t := r.db.Only(); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("%w: `%s` needs a table name", ErrMissingArguments, op)
}

// takeConditions resolves and clears the pending chain.
func (r *run) takeConditions(schema record.Schema) ([]Condition, error) {
	conds, err := resolveConditions(r.pending, schema)
	if err != nil {
		return nil, err
	}
	r.pending = r.pending[:0]
	return conds, nil
}

func (r *run) execSelect() error {
	tbl, err := r.popTable(compiler.OpSelect)
	if err != nil {
		return err
	}

	var names []string
	for {
		v, ok := r.top()
		if !ok {
			break
		}
		name, ok := v.AsText()
		if !ok {
			break
		}
		names = append(names, name)
		r.pop()
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: `select` needs at least one column", ErrMissingArguments)
	}
	slices.Reverse(names)

	var idxs []int
	for _, name := range names {
		if name == "*" {
			for i := range tbl.Schema.Cols {
				idxs = append(idxs, i)
			}
			continue
		}
		i := tbl.Schema.ColIndex(name)
		if i < 0 {
			return fmt.Errorf("%w: no column %q in table %q", ErrUnknownColumn, name, tbl.Name())
		}
		idxs = append(idxs, i)
	}

	keep := func(int) bool { return true }
	if len(r.pending) > 0 {
		conds, err := r.takeConditions(tbl.Schema)
		if err != nil {
			return err
		}
		matches, err := matchRows(conds, tbl.Rows)
		if err != nil {
			return err
		}
		keep = func(i int) bool { return matches[i] }
	}

	schema := record.Schema{Name: tbl.Name(), Cols: make([]record.Column, 0, len(idxs))}
	for _, i := range idxs {
		schema.Cols = append(schema.Cols, tbl.Schema.Cols[i])
	}
	temp := record.NewTable(schema)
	for i, row := range tbl.Rows {
		if !keep(i) {
			continue
		}
		out := make(record.Row, len(idxs))
		for j, idx := range idxs {
			out[j] = row[idx]
		}
		temp.Rows = append(temp.Rows, out)
	}

	r.temp = temp
	r.words = r.words[:0]
	return nil
}

func (r *run) execInsert() error {
	tbl, err := r.popTable(compiler.OpInsert)
	if err != nil {
		return err
	}

	n := tbl.Schema.NumCols()
	if len(r.words) < n {
		return fmt.Errorf("%w: `insert` into %q needs %d values, have %d",
			ErrStackUnderflow, tbl.Name(), n, len(r.words))
	}

	values := r.words[len(r.words)-n:]
	for i, v := range values {
		col := tbl.Schema.Cols[i]
		if !record.ValueMatchesType(v, col.Type) {
			return fmt.Errorf("%w: column %q expects %s, got %#v", ErrTypeMismatch, col.Name, col.Type, v)
		}
	}

	tbl.Rows = append(tbl.Rows, record.Row(values).Clone())
	r.affected++
	r.words = r.words[:0]
	return nil
}

func (r *run) execDelete() error {
	tbl, err := r.popTable(compiler.OpDelete)
	if err != nil {
		return err
	}
	if len(r.pending) == 0 {
		r.warn(fmt.Sprintf("delete on %q without conditions removes nothing", tbl.Name()))
		return nil
	}

	conds, err := r.takeConditions(tbl.Schema)
	if err != nil {
		return err
	}
	matches, err := matchRows(conds, tbl.Rows)
	if err != nil {
		return err
	}

	kept := tbl.Rows[:0]
	for i, row := range tbl.Rows {
		if matches[i] {
			r.affected++
			continue
		}
		kept = append(kept, row)
	}
	clear(tbl.Rows[len(kept):])
	tbl.Rows = kept
	return nil
}

func (r *run) execFilter() error {
	if r.temp == nil {
		return ErrNoSelection
	}
	if len(r.pending) == 0 {
		return nil
	}

	conds, err := r.takeConditions(r.temp.Schema)
	if err != nil {
		return err
	}
	matches, err := matchRows(conds, r.temp.Rows)
	if err != nil {
		return err
	}

	var kept []record.Row
	for i, row := range r.temp.Rows {
		if matches[i] {
			kept = append(kept, row)
		}
	}
	r.temp.Rows = kept
	return nil
}

// execCompare pops (column, literal) and defers the comparison until the
// chain is applied to a table.
func (r *run) execCompare(op compiler.OpKind) error {
	if len(r.words) < 2 {
		return fmt.Errorf("%w: `%s` needs 2 operands, have %d", ErrStackUnderflow, op, len(r.words))
	}
	value := r.words[len(r.words)-1]
	colVal := r.words[len(r.words)-2]
	col, ok := colVal.AsText()
	if !ok {
		return fmt.Errorf("%w: `%s` expects a column name, got %#v", ErrTypeMismatch, op, colVal)
	}
	r.words = r.words[:len(r.words)-2]
	r.pending = append(r.pending, pendingCond{op: op, col: col, value: value})
	return nil
}

// execCreate expects `name col Type col Type ... create`.
func (r *run) execCreate() error {
	var cols []record.Column
	for {
		v, ok := r.top()
		if !ok {
			break
		}
		t, ok := v.AsType()
		if !ok {
			break
		}
		if len(r.words) < 2 {
			return fmt.Errorf("%w: column type %s without a column name", ErrMissingArguments, t)
		}
		nameVal := r.words[len(r.words)-2]
		name, ok := nameVal.AsText()
		if !ok {
			return fmt.Errorf("%w: column name must be %s, got %#v", ErrTypeMismatch, record.ColText, nameVal)
		}
		if t == record.ColType {
			return fmt.Errorf("%w: column %q cannot be of type %s", ErrTypeMismatch, name, t)
		}
		r.words = r.words[:len(r.words)-2]
		cols = append(cols, record.Column{Name: name, Type: t})
	}
	if len(cols) == 0 {
		return fmt.Errorf("%w: `create` needs at least one (column Type) pair", ErrMissingArguments)
	}
	slices.Reverse(cols)

	v, ok := r.top()
	if !ok {
		return fmt.Errorf("%w: `create` needs a table name", ErrMissingArguments)
	}
	name, ok := v.AsText()
	if !ok {
		return fmt.Errorf("%w: table name must be %s, got %#v", ErrTypeMismatch, record.ColText, v)
	}
	if r.db.Lookup(name) != nil {
		return fmt.Errorf("%w: %q", ErrTableExists, name)
	}
	r.pop()

	if _, err := r.db.Create(record.Schema{Name: name, Cols: cols}); err != nil {
		return fmt.Errorf("executor: create %q: %w", name, err)
	}
	slog.Info("executor: table created", "table", name, "columns", len(cols))
	return nil
}

func (r *run) execDrop() error {
	v, ok := r.top()
	if !ok {
		return fmt.Errorf("%w: `drop` needs a table name", ErrMissingArguments)
	}
	name, ok := v.AsText()
	if !ok {
		return fmt.Errorf("%w: table name must be %s, got %#v", ErrTypeMismatch, record.ColText, v)
	}
	if r.db.Lookup(name) == nil {
		return fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	r.pop()

	if err := r.db.Drop(name); err != nil {
		return fmt.Errorf("executor: drop %q: %w", name, err)
	}
	slog.Info("executor: table dropped", "table", name)
	return nil
}
