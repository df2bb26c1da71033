package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/tuannm99/flatdb/internal"
	"github.com/tuannm99/flatdb/internal/repl"
	"github.com/tuannm99/flatdb/sqlclient"
)

func main() {
	fs := pflag.NewFlagSet("flatdb-client", pflag.ExitOnError)
	cfgPath := fs.String("config", "", "YAML config file")
	fs.String("server.addr", "127.0.0.1:8866", "server address")
	fs.String("repl.history", "~/.flatdb_history", "history file path")
	fs.Int("repl.history_max", 2000, "max history lines loaded")
	timeout := fs.Duration("timeout", 3*time.Second, "dial timeout")
	rwTimeout := fs.Duration("rw-timeout", 30*time.Second, "per-query timeout (0 = none)")
	oneShot := fs.StringP("exec", "e", "", "run one query and exit")
	noColor := fs.Bool("no-color", false, "disable colored output")
	_ = fs.Parse(os.Args[1:])

	cfg, err := internal.LoadConfig(*cfgPath, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	cli, err := sqlclient.Dial(cfg.Server.Addr, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = cli.Close() }()
	cli.SetRWTimeout(*rwTimeout)

	if strings.TrimSpace(*oneShot) != "" {
		p := &repl.Printer{Out: os.Stdout}
		res, err := cli.Exec(*oneShot)
		if err != nil {
			p.PrintError(err)
			_ = cli.Close()
			os.Exit(1)
		}
		p.PrintResult(res)
		return
	}

	err = repl.RunTerminal(cli, repl.TerminalConfig{
		HistoryPath: cfg.Repl.History,
		HistoryMax:  cfg.Repl.HistoryMax,
		NoColor:     *noColor,
		Banner:      "connected to " + cfg.Server.Addr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "repl: %v\n", err)
		_ = cli.Close()
		os.Exit(1)
	}
}
