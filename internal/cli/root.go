// Package cli defines the prdeck command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/prdeck/internal/adapter/driven/editor"
	"github.com/ericfisherdev/prdeck/internal/adapter/driven/github"
	"github.com/ericfisherdev/prdeck/internal/adapter/driven/renderer"
	"github.com/ericfisherdev/prdeck/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/prdeck/internal/adapter/driving/tui"
	"github.com/ericfisherdev/prdeck/internal/application"
	"github.com/ericfisherdev/prdeck/internal/config"
	"github.com/ericfisherdev/prdeck/internal/domain/port/driven"
	"github.com/ericfisherdev/prdeck/internal/logging"
)

const version = "0.1.0"

// Process exit codes.
const (
	ExitOK    = 0 // Clean exit, including an explicit quit.
	ExitFatal = 1 // Unrecoverable startup or session failure.
	ExitUsage = 2 // Bad flags, arguments, or pull request reference.
)

// exitError carries the process exit code a failure maps to.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// Options stores the global flags shared between commands.
type Options struct {
	Repo       string
	Cached     bool
	ConfigPath string
	LogFile    string
	LogLevel   string
}

// Execute runs the prdeck command line and returns the process exit code.
func Execute(args []string) int {
	return executeWith(args, os.Stdout, os.Stderr)
}

func executeWith(args []string, out, errOut io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &Options{}
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var xe *exitError
	if errors.As(err, &xe) {
		return xe.code
	}
	// Anything cobra itself rejected: unknown flags, wrong arg counts.
	return ExitUsage
}

// newRootCommand constructs the root cobra.Command with its flags and
// subcommands.
func newRootCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prdeck <pr>",
		Short: "Review a GitHub pull request from the terminal",
		Long: `prdeck opens an interactive review session for one GitHub pull request:
browse the changed files, read diffs, attach draft comments to lines, and
submit everything as a single review.

The pull request may be given as a bare number (repository taken from
--repo or the origin remote), as owner/repo#123, or as a full pull
request URL.`,
		Version:      version,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd, opts, args[0])
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Config file path (default: the user config dir)")
	cmd.Flags().StringVar(&opts.Repo, "repo", "", `Repository slug "owner/name" (default: detected from the origin remote)`)
	cmd.Flags().BoolVar(&opts.Cached, "cached", false, "Serve the last stored snapshot without touching the network")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "Debug log file (overrides config; empty disables)")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	cmd.AddCommand(newConfigCommand(opts))

	return cmd
}

// runReview wires the adapters together and hands the terminal to the UI.
func runReview(cmd *cobra.Command, opts *Options, ref string) error {
	// 1. Parse the pull request reference before anything heavier.
	repoSlug, number, err := ParsePRRef(ref)
	if err != nil {
		return &exitError{code: ExitUsage, err: err}
	}

	// 2. Load configuration; flags override the file.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return &exitError{code: ExitFatal, err: err}
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = opts.LogFile
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = opts.LogLevel
	}

	// 3. Route logging to the configured file. The terminal belongs to the
	//    UI, so nothing may log to stderr past this point.
	logger, closeLog, err := logging.OpenFile(cfg.Log.File, logging.ParseLevel(cfg.Log.Level))
	if err != nil {
		return &exitError{code: ExitFatal, err: err}
	}
	defer func() {
		if closeErr := closeLog(); closeErr != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "closing log file:", closeErr)
		}
	}()
	slog.SetDefault(logger)

	ctx := cmd.Context()

	// 4. Resolve the repository slug.
	if repoSlug == "" {
		repoSlug = opts.Repo
	}
	if repoSlug == "" {
		repoSlug, err = github.DetectRepo(ctx, ".")
		if err != nil {
			return &exitError{code: ExitFatal, err: fmt.Errorf("no --repo given and %w", err)}
		}
	}
	slog.Info("config loaded",
		"repo", repoSlug,
		"number", number,
		"renderer", cfg.Diff.Renderer,
		"cached", opts.Cached,
	)

	// 5. GitHub credentials. --cached must start without them; submission
	//    then fails with the auth error instead of blocking startup.
	var (
		client driven.GitHubClient
		writer driven.GitHubWriter
	)
	token, tokenErr := github.ResolveToken(ctx)
	switch {
	case tokenErr == nil:
		gh := github.NewClient(token)
		client = gh
		writer = gh
	case opts.Cached:
		slog.Info("starting without github credentials", "error", tokenErr)
		writer = offlineWriter{err: tokenErr}
	default:
		return &exitError{code: ExitFatal, err: tokenErr}
	}

	// 6. Open the snapshot cache. Losing it degrades to network-only.
	var cache driven.SnapshotStore
	if dbPath, pathErr := cfg.DBPath(); pathErr != nil {
		slog.Warn("snapshot cache disabled", "error", pathErr)
	} else if db, dbErr := sqlite.NewDB(dbPath); dbErr != nil {
		slog.Warn("snapshot cache disabled", "path", dbPath, "error", dbErr)
	} else {
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		if migErr := sqlite.RunMigrations(db.Writer); migErr != nil {
			slog.Warn("snapshot cache disabled", "path", dbPath, "error", migErr)
		} else {
			cache = sqlite.NewSnapshotRepo(db)
		}
	}

	// 7. Load the snapshot to completion. Partial data never reaches the
	//    session.
	loader := application.NewLoader(client, cache, time.Duration(cfg.Cache.MaxAge))
	snap, err := loader.Load(ctx, repoSlug, number, opts.Cached)
	if err != nil {
		return &exitError{code: ExitFatal, err: err}
	}

	// 8. Session core and its collaborators.
	sess := application.NewSession(snap, application.SessionConfig{
		RequireFeedback: cfg.Review.RequireFeedback,
	})
	rend := renderer.ForConfig(cfg.Diff.Renderer)
	ed := editor.New(cfg.Editor)

	// 9. Hand the terminal to the UI until the user quits.
	if err := tui.Run(tui.New(sess, writer, ed, rend, cfg)); err != nil {
		return &exitError{code: ExitFatal, err: fmt.Errorf("terminal session: %w", err)}
	}

	slog.Info("session closed", "pr", snap.Ref())
	return nil
}

// offlineWriter stands in for the GitHub writer when a session starts
// without credentials. Browsing a cached snapshot needs no token;
// submitting does.
type offlineWriter struct {
	err error
}

func (w offlineWriter) SubmitReview(context.Context, string, int, driven.ReviewRequest) error {
	return w.err
}

// newConfigCommand groups configuration management subcommands.
func newConfigCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage prdeck configuration",
	}
	cmd.AddCommand(newConfigInitCommand(opts))
	return cmd
}

// newConfigInitCommand creates "config init", which writes the annotated
// default config file and refuses to overwrite an existing one.
func newConfigInitCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a commented default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.WriteDefault(opts.ConfigPath)
			if err != nil {
				return &exitError{code: ExitFatal, err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}
