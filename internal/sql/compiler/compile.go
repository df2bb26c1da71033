package compiler

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/tuannm99/flatdb/internal/record"
)

var ErrUnclosedString = errors.New("compiler: unclosed string literal in a query")

// Compile turns query text into the operations it denotes, left to right.
//
// Tokens are separated by whitespace. A "..." run is one Text literal and
// may contain whitespace. Parentheses are dropped everywhere; they only tell
// the line reader that a query continues on the next line.
//
// An unquoted token is, in order of priority: an operator, a type name
// (Int, Str, Type), a 32-bit signed integer, or else Text. Quoted literals
// are always Text, even when they spell an operator.
func Compile(query string) ([]Op, error) {
	rest := stripParens(query)

	var ops []Op
	for {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		if rest == "" {
			return ops, nil
		}

		if rest[0] == '"' {
			end := strings.IndexByte(rest[1:], '"')
			if end < 0 {
				return nil, ErrUnclosedString
			}
			ops = append(ops, Push(record.TextValue(rest[1:1+end])))
			rest = rest[end+2:]
			continue
		}

		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			end = len(rest)
		}
		ops = append(ops, compileWord(rest[:end]))
		rest = rest[end:]
	}
}

func compileWord(word string) Op {
	if k, ok := LookupOperator(word); ok {
		return Operator(k)
	}
	if t, ok := record.ParseTypeName(word); ok {
		return Push(record.TypeValue(t))
	}
	if n, err := strconv.ParseInt(word, 10, 32); err == nil {
		return Push(record.IntValue(int32(n)))
	}
	return Push(record.TextValue(word))
}

func stripParens(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '(' || r == ')' {
			return -1
		}
		return r
	}, s)
}
