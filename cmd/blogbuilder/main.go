package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogbuilder/internal/build"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	bberrors "git.home.luguber.info/inful/blogbuilder/internal/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/history"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Output      string `short:"o" help:"Override the output directory"`
		Strict      bool   `help:"Abort on the first malformed document"`
		FailFast    bool   `help:"Abort on the first render failure"`
		MetricsFile string `help:"Write Prometheus textfile metrics to this path"`
	} `cmd:"" help:"Build the site from configured content roots"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	History struct {
		Limit int `short:"n" help:"Number of builds to show" default:"10"`
	} `cmd:"" help:"Show recent builds from the history ledger"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	adapter := bberrors.NewCLIErrorAdapter(CLI.Verbose, logger)

	switch ctx.Command() {
	case "build":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			adapter.HandleError(err)
		}
		if CLI.Build.Output != "" {
			cfg.Output.Directory = CLI.Build.Output
		}
		if CLI.Build.Strict {
			cfg.Build.StrictFrontMatter = true
		}
		if CLI.Build.FailFast {
			cfg.Build.FailFast = true
		}
		if CLI.Build.MetricsFile != "" {
			cfg.Build.MetricsFile = CLI.Build.MetricsFile
		}
		runBuild(cfg, adapter)
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			adapter.HandleError(err)
		}
		fmt.Printf("Configuration written to %s\n", CLI.Config)
	case "history":
		if err := runHistory(CLI.History.Limit); err != nil {
			adapter.HandleError(err)
		}
	case "version":
		fmt.Printf("blogbuilder %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	}
}

func runBuild(cfg *config.Config, adapter *bberrors.CLIErrorAdapter) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var rec metrics.Recorder
	if cfg.Build.MetricsFile != "" {
		rec = metrics.NewPrometheusRecorder(nil)
	}

	report, err := build.NewService(cfg, rec).Build(ctx)
	if report != nil {
		fmt.Println(report.Summary())
	}
	if err != nil {
		adapter.HandleError(err)
	}
	if report != nil && len(report.FailedDocuments) > 0 {
		// Partial builds exit non-zero so CI pipelines notice.
		os.Exit(1)
	}
}

func runHistory(limit int) error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	if cfg.Build.HistoryDB == "" {
		return fmt.Errorf("no history ledger configured (set build.history_db)")
	}

	store, err := history.Open(cfg.Build.HistoryDB)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No builds recorded yet")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-8s  documents=%d rendered=%d failed=%d skipped=%d  %s\n",
			e.Finished.Format("2006-01-02 15:04:05"), e.Outcome,
			e.Documents, e.Rendered, e.Failed, e.Skipped, e.BuildID)
	}
	return nil
}
