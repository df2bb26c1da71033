package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tuannm99/flatdb/internal/sql/executor"
)

const (
	CommandPrompt  = "flatdb> "
	QueryPrompt    = "query> "
	ContinuePrompt = "query : "
)

// Executor runs one query. Both the local database and the network client
// implement it.
type Executor interface {
	Exec(query string) (*executor.Result, error)
}

// LineReader is the part of *readline.Instance the loop needs.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

type mode int

const (
	modeCommand mode = iota
	modeQuery
)

// Repl is the two-mode loop: command mode understands `query`, `exit`,
// `help` and `history`; query mode runs every completed query until `exit`.
type Repl struct {
	Exec    Executor
	In      LineReader
	Printer *Printer
	History *History // optional

	mode  mode
	buf   strings.Builder
	depth int
}

func New(exec Executor, in LineReader, out io.Writer) *Repl {
	return &Repl{Exec: exec, In: in, Printer: &Printer{Out: out}}
}

// Run reads until `exit` in command mode, EOF, or an interrupt in command
// mode. It returns nil for all of those; the caller flushes afterwards.
func (r *Repl) Run() error {
	r.setMode(modeCommand)
	for {
		line, err := r.In.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if r.mode == modeCommand {
				return nil
			}
			if r.buf.Len() == 0 {
				r.setMode(modeCommand)
			} else {
				r.resetQuery()
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("repl: read line: %w", err)
		}

		if r.mode == modeCommand {
			if quit := r.command(strings.TrimSpace(line)); quit {
				return nil
			}
			continue
		}
		r.queryLine(line)
	}
}

func (r *Repl) setMode(m mode) {
	r.mode = m
	r.resetQuery()
}

func (r *Repl) resetQuery() {
	r.buf.Reset()
	r.depth = 0
	if r.mode == modeCommand {
		r.In.SetPrompt(CommandPrompt)
	} else {
		r.In.SetPrompt(QueryPrompt)
	}
}

func (r *Repl) command(cmd string) (quit bool) {
	switch cmd {
	case "":
	case "exit":
		return true
	case "query":
		r.setMode(modeQuery)
	case "help":
		fmt.Fprint(r.Printer.Out, helpText)
	case "history":
		if r.History != nil {
			r.History.Print(r.Printer.Out, 50)
		}
	default:
		fmt.Fprintf(r.Printer.Out, "Unknown command: %s\n", cmd)
	}
	return false
}

// queryLine adds one line to the pending query and runs it once every
// opened parenthesis is closed.
func (r *Repl) queryLine(line string) {
	if r.buf.Len() > 0 {
		r.buf.WriteByte('\n')
	}
	r.buf.WriteString(line)
	r.depth += ParenDepth(line)
	if r.depth > 0 {
		r.In.SetPrompt(ContinuePrompt)
		return
	}

	query := strings.TrimSpace(r.buf.String())
	r.resetQuery()
	switch query {
	case "":
		return
	case "exit":
		r.setMode(modeCommand)
		return
	}

	if r.History != nil {
		if err := r.History.Append(query); err != nil {
			slog.Warn("repl: history append failed", "err", err)
		}
	}

	res, err := r.Exec.Exec(query)
	if err != nil {
		r.Printer.PrintError(err)
		return
	}
	r.Printer.PrintResult(res)
}

// ParenDepth is the number of '(' minus the number of ')' in s. Quotes don't
// matter: the compiler drops every parenthesis, quoted or not.
func ParenDepth(s string) int {
	return strings.Count(s, "(") - strings.Count(s, ")")
}

const helpText = `commands:
  query     enter query mode (type exit to leave it)
  history   print recent queries
  exit      quit and save every table

queries are postfix, for example:
  users (id Int) (name Str) create
  1 "Ann Lee" users insert
  id name users select name "Ann Lee" == filter
  id 1 == users delete
a line with an open '(' continues on the next line.
`
