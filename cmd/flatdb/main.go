package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/tuannm99/flatdb/internal"
	"github.com/tuannm99/flatdb/internal/engine"
	"github.com/tuannm99/flatdb/internal/logging"
	"github.com/tuannm99/flatdb/internal/repl"
)

func main() {
	fs := pflag.NewFlagSet("flatdb", pflag.ExitOnError)
	cfgPath := fs.String("config", "", "YAML config file")
	fs.String("storage.workdir", "./tables", "directory holding the table files")
	fs.String("storage.name", "main", "database name")
	fs.String("log.level", "info", "debug|info|warn|error")
	fs.String("log.seq_url", "", "Seq ingestion URL (optional)")
	fs.String("repl.history", "~/.flatdb_history", "history file path")
	fs.Int("repl.history_max", 2000, "max history lines loaded")
	noColor := fs.Bool("no-color", false, "disable colored output")
	_ = fs.Parse(os.Args[1:])

	cfg, err := internal.LoadConfig(*cfgPath, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	_, closeLog, err := logging.Setup(logging.Config{Level: cfg.Log.Level, SeqURL: cfg.Log.SeqURL})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	db, err := engine.OpenDir(cfg.Storage.Name, cfg.Storage.Workdir)
	if err != nil {
		slog.Error("failed to load database", "err", err)
		closeLog()
		os.Exit(1)
	}

	runErr := repl.RunTerminal(db, repl.TerminalConfig{
		HistoryPath: cfg.Repl.History,
		HistoryMax:  cfg.Repl.HistoryMax,
		NoColor:     *noColor,
		Banner:      fmt.Sprintf("%s: database %q in %s", cfg.AppName, db.Name(), db.Dir()),
	})
	if runErr != nil {
		slog.Error("repl stopped", "err", runErr)
	}

	if err := db.Close(); err != nil {
		slog.Error("shutdown flush failed", "err", err)
		closeLog()
		os.Exit(1)
	}
	closeLog()
	if runErr != nil {
		os.Exit(1)
	}
}
