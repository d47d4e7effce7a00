package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/doclinks/internal/config"
	"github.com/nao1215/doclinks/internal/database"
	"github.com/nao1215/doclinks/internal/extract"
	applog "github.com/nao1215/doclinks/internal/log"
	"github.com/nao1215/doclinks/internal/model"
	"github.com/nao1215/doclinks/internal/pipeline"
	"github.com/nao1215/doclinks/internal/report"
	"github.com/nao1215/doclinks/internal/validate"
	"github.com/nao1215/doclinks/internal/walker"
)

// runCheckCmd executes the check on the directory given as argument.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCheck(ctx, cfg, cmd.OutOrStdout(), logger)
}

// getBoolFlag retrieves a bool flag from the command or the root's
// persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// newLogger creates the stderr logger from the persistent flags.
func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose := getBoolFlag(cmd, "verbose")
	if getBoolFlag(cmd, "log-json") {
		return applog.NewJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return applog.NewLogger(cmd.ErrOrStderr(), verbose)
}

// buildConfig creates a Config from the config file and cobra flags.
// Flags that were set explicitly override the file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly given config file must exist; a searched one is optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("status-check") {
		statusCheck, err := flags.GetBool("status-check")
		if err != nil {
			return nil, err
		}
		cfg.StatusPolicy = model.StatusTransportOnly
		if statusCheck {
			cfg.StatusPolicy = model.StatusDeadOnError
		}
	}
	if flags.Changed("fail-on-dead") {
		if cfg.FailOnDead, err = flags.GetBool("fail-on-dead"); err != nil {
			return nil, err
		}
	}

	if cfg.Record, err = flags.GetBool("record"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return nil, err
	}
	cfg.Verbose = getBoolFlag(cmd, "verbose")

	if len(args) > 0 {
		cfg.Target = args[0]
	}
	return cfg, nil
}

// runCheck walks cfg.Target and validates every link, printing progress
// lines to out.
func runCheck(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	var db *database.HistoryDB
	if cfg.Record {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
	}

	client, err := validate.NewHTTPClient(
		validate.WithTimeout(cfg.Timeout),
		validate.WithProxy(cfg.ProxyAddress),
		validate.WithUserAgent(cfg.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}
	checker := validate.NewChecker(client,
		validate.WithIgnorePatterns(cfg.IgnorePatterns...),
		validate.WithLogger(logger),
	)

	if info, err := os.Stat(cfg.Target); err != nil || !info.IsDir() {
		logger.Warn("target is not a directory, nothing to check", "path", cfg.Target)
	}

	logger.Info("starting check",
		"target", cfg.Target,
		"timeout", cfg.Timeout,
		"policy", cfg.StatusPolicy,
		"proxy", cfg.ProxyAddress != "",
	)

	console := report.NewConsole(out)
	summary := model.NewSummary()
	p := pipeline.New(checker, console,
		pipeline.WithSummary(summary),
		pipeline.WithStatusPolicy(cfg.StatusPolicy),
		pipeline.WithLogger(logger),
	)

	walkErr := walker.Walk(ctx, cfg.Target, p,
		walker.WithClassifier(extract.Classify),
		walker.WithExcludeDirs(cfg.ExcludeDirs...),
		walker.WithLogger(logger),
	)

	logger.Info("check finished",
		"documents", summary.DocumentCount(),
		"links", summary.LinkCount(),
		"dead", len(summary.DeadLinks()),
		"skipped", summary.SkippedCount(),
		"unreadable", summary.UnreadableCount(),
		"elapsed", time.Since(summary.StartedAt()).Round(time.Millisecond),
	)

	if walkErr != nil {
		return walkErr
	}
	if err := console.Err(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if db != nil {
		saveRun(ctx, db, model.NewRun(cfg.Target, cfg.StatusPolicy, summary), logger)
	}

	if cfg.FailOnDead && summary.HasDeadLinks() {
		return fmt.Errorf("%w: %d", ErrDeadLinksFound, len(summary.DeadLinks()))
	}
	return nil
}

// saveRun stores the run in the history database. Failures are logged
// and never change the outcome of the check.
func saveRun(ctx context.Context, db *database.HistoryDB, run *model.Run, logger *slog.Logger) {
	if err := db.SaveRun(ctx, run); err != nil {
		logger.Error("failed to save run", "error", err)
		return
	}
	logger.Info("run saved to history", "id", run.ID, "db", db.Path())
}
