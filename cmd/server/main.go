package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/tuannm99/flatdb/internal"
	"github.com/tuannm99/flatdb/internal/engine"
	"github.com/tuannm99/flatdb/internal/logging"
	"github.com/tuannm99/flatdb/server/flatwire"
)

func main() {
	fs := pflag.NewFlagSet("flatdb-server", pflag.ExitOnError)
	cfgPath := fs.String("config", "", "YAML config file")
	fs.String("storage.workdir", "./tables", "directory holding the table files")
	fs.String("storage.name", "main", "database name")
	fs.String("server.addr", "127.0.0.1:8866", "listen address")
	fs.Bool("server.debug", false, "log every query")
	fs.String("log.level", "info", "debug|info|warn|error")
	fs.String("log.seq_url", "", "Seq ingestion URL (optional)")
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
	defer closeLog()

	db, err := engine.OpenDir(cfg.Storage.Name, cfg.Storage.Workdir)
	if err != nil {
		slog.Error("failed to load database", "err", err)
		closeLog()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := flatwire.Run(ctx, flatwire.ServerConfig{Addr: cfg.Server.Addr, Debug: cfg.Server.Debug}, db)
	if serveErr != nil {
		slog.Error("server stopped", "err", serveErr)
	}

	slog.Info("shutting down, saving tables")
	if err := db.Close(); err != nil {
		slog.Error("shutdown flush failed", "err", err)
		closeLog()
		os.Exit(1)
	}
	if serveErr != nil {
		closeLog()
		os.Exit(1)
	}
}
