package repl

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/chzyer/readline"
	"github.com/spf13/afero"
)

type TerminalConfig struct {
	HistoryPath string
	HistoryMax  int
	NoColor     bool
	Banner      string
}

// RunTerminal runs the loop on the process terminal through readline.
func RunTerminal(exec Executor, tc TerminalConfig) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          CommandPrompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		HistoryLimit:    tc.HistoryMax,
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	h := NewHistory(afero.NewOsFs(), tc.HistoryPath)
	if err := h.Load(tc.HistoryMax); err != nil {
		slog.Warn("repl: history not loaded", "path", tc.HistoryPath, "err", err)
	}
	// preload so the up arrow works right away
	for _, line := range h.Lines() {
		_ = rl.SaveHistory(line)
	}

	r := New(exec, rl, rl.Stdout())
	r.History = h
	r.Printer.Color = !tc.NoColor && readline.IsTerminal(int(os.Stdout.Fd()))

	if tc.Banner != "" {
		fmt.Fprintln(r.Printer.Out, tc.Banner)
	}
	fmt.Fprintln(r.Printer.Out, "type help for help")
	return r.Run()
}
