package executor

import "errors"

// Every error below aborts the current query only. Mutations applied before
// the failing operation are kept.
var (
	ErrMissingArguments        = errors.New("executor: missing arguments")
	ErrUnknownTable            = errors.New("executor: unknown table")
	ErrUnknownColumn           = errors.New("executor: unknown column")
	ErrTypeMismatch            = errors.New("executor: type mismatch")
	ErrMalformedConditionChain = errors.New("executor: malformed condition chain")
	ErrStackUnderflow          = errors.New("executor: not enough operands on the stack")
	ErrNoSelection             = errors.New("executor: filter needs a select earlier in the query")
	ErrTableExists             = errors.New("executor: table already exists")
)
