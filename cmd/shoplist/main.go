package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/shoplist/internal/cli"
	"github.com/idilsaglam/shoplist/internal/config"
	"github.com/idilsaglam/shoplist/internal/logging"
	"github.com/idilsaglam/shoplist/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	groupPending := flag.Bool("group", false, "group output by pending/done")
	theme := flag.String("theme", "classic", "color theme: classic, neon or mono")
	noColor := flag.Bool("no-color", false, "disable colors")
	forceColor := flag.Bool("color", false, "force colors even when not on a terminal")
	flag.Parse()

	ui.SetTheme(*theme)
	ui.SetColorForcing(*forceColor, *noColor || os.Getenv("NO_COLOR") != "")

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		os.Exit(2)
	}

	if err := config.LoadDotEnv(); err != nil {
		ui.Fail(os.Stderr, err.Error())
		os.Exit(1)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		ui.Fail(os.Stderr, "config: "+err.Error())
		os.Exit(2)
	}

	closeLog, err := setupLogging(cfg, args[0])
	if err != nil {
		ui.Fail(os.Stderr, "log file: "+err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, args, cli.Options{
		Group:  *groupPending,
		Config: cfg,
	})
	stop()
	closeLog()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}

// setupLogging sends logs to SHOPLIST_LOG_FILE when set. Without a file the
// TUI runs silent, since stderr shares the screen with it.
func setupLogging(cfg config.Config, cmd string) (func(), error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		logging.SetupWriter(f, logging.LevelFromEnv())
		slog.Debug("logging to file", "path", cfg.LogFile)
		return func() { f.Close() }, nil
	}
	if cmd == "tui" {
		logging.Discard()
	} else {
		logging.Setup()
	}
	return func() {}, nil
}
