package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaladdle/rcopy/internal/config"
	"github.com/shaladdle/rcopy/internal/engine"
	"github.com/shaladdle/rcopy/internal/event"
	"github.com/shaladdle/rcopy/internal/stats"
	"github.com/shaladdle/rcopy/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the root command's flag values.
type options struct {
	configFile  string
	logFile     string
	maxWait     time.Duration
	chunkSize   config.Size
	bwLimit     config.Size
	verbose     bool
	quiet       bool
	dryRun      bool
	verify      bool
	syncData    bool
	showVersion bool
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{
		maxWait:   engine.DefaultMaxWait,
		chunkSize: engine.DefaultChunkSize,
	}

	rootCmd := &cobra.Command{
		Use:   "rcopy [flags] <source> <destination>",
		Short: "Resumable, checkpointed copy for large files and trees",
		Long: `rcopy mirrors a source file or directory tree into a destination.

Each file is copied in chunks. After every chunk the byte offset reached is
written to a "<destination>.progress" file, so an interrupted copy resumes
where it stopped instead of starting over. Transient I/O errors are retried
with exponential backoff. Files already present at the destination with the
source's size are skipped.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(stdout, "rcopy %s\n", version)
				return nil
			}
			return runCopy(cmd, opts, args[0], args[1], stdout, stderr)
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress all output except errors")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "show what would be copied without writing")
	flags.BoolVar(&opts.verify, "verify", false, "verify checksums after each file (BLAKE3)")
	flags.BoolVar(&opts.syncData, "sync", false, "flush data to disk before every checkpoint")
	flags.DurationVar(&opts.maxWait, "max-wait", opts.maxWait, "longest wait between retries")
	flags.Var(&opts.chunkSize, "chunk-size", "bytes copied between checkpoints (e.g. 8M)")
	flags.Var(&opts.bwLimit, "bwlimit", "bandwidth limit in bytes/sec (e.g. 100M; 0 = unlimited)")
	flags.StringVar(&opts.logFile, "log", "", "write structured JSON log to FILE")
	flags.StringVar(&opts.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/rcopy/config.toml)")

	rootCmd.AddCommand(newDaemonCmd())
	rootCmd.AddCommand(newDocsCmd())

	return rootCmd
}

//nolint:gocyclo,revive // cyclomatic: CLI entry point wires config, logging, presenter and engine
func runCopy(cmd *cobra.Command, opts *options, src, dst string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return err
	}
	if err := applyConfigDefaults(cmd, cfg.Defaults, opts); err != nil {
		return err
	}
	if opts.maxWait <= 0 {
		return fmt.Errorf("invalid --max-wait %s: must be positive", opts.maxWait)
	}
	if opts.chunkSize <= 0 {
		return errors.New("invalid --chunk-size: must be positive")
	}
	if opts.chunkSize > engine.MaxChunkSize {
		return fmt.Errorf("invalid --chunk-size %d: must be at most %d", int64(opts.chunkSize), engine.MaxChunkSize)
	}
	ui.ApplyTheme(cfg.Theme)

	// Configure logging.
	logLevel := slog.LevelWarn
	if opts.verbose {
		logLevel = slog.LevelDebug
	} else if !opts.quiet {
		logLevel = slog.LevelInfo
	}
	textHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel})
	var logHandler slog.Handler = textHandler
	if opts.logFile != "" {
		lf, lfErr := os.Create(opts.logFile)
		if lfErr != nil {
			return fmt.Errorf("open log file: %w", lfErr)
		}
		defer lf.Close()
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logHandler = ui.NewMultiHandler(textHandler, jsonHandler)
	}
	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	if opts.dryRun {
		logger.Info("dry run mode")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := stats.NewCollector()
	events := make(chan event.Event, 256)

	// When --log is set, tee events through a logging goroutine that writes
	// structured records before forwarding to the presenter.
	presenterEvents := (<-chan event.Event)(events)
	if opts.logFile != "" {
		teed := make(chan event.Event, 256)
		go func() {
			for ev := range events {
				ui.LogEvent(logger, ev)
				teed <- ev
			}
			close(teed)
		}()
		presenterEvents = teed
	}

	isTTY := false
	width := 0
	if f, ok := stderr.(*os.File); ok {
		isTTY = ui.IsTTY(f.Fd())
		if isTTY {
			width = ui.TermWidth(f.Fd())
		}
	}
	presenter := ui.NewPresenter(ui.Config{
		Writer:    stdout,
		ErrWriter: stderr,
		Stats:     collector,
		Width:     width,
		IsTTY:     isTTY,
		Quiet:     opts.quiet,
		Verbose:   opts.verbose,
		DryRun:    opts.dryRun,
	})

	engineCfg := engine.Config{
		Src:       src,
		Dst:       dst,
		Events:    events,
		Stats:     collector,
		Logger:    logger,
		MaxWait:   opts.maxWait,
		ChunkSize: int(opts.chunkSize),
		SyncData:  opts.syncData,
		Verify:    opts.verify,
		DryRun:    opts.dryRun,
	}
	if opts.bwLimit > 0 {
		engineCfg.Limiter = engine.NewBWLimiter(int64(opts.bwLimit))
	}

	logger.Debug("starting copy",
		"src", src,
		"dst", dst,
		"chunk_size", int64(opts.chunkSize),
		"max_wait", opts.maxWait,
		"bwlimit", int64(opts.bwLimit),
		"verify", opts.verify,
		"sync", opts.syncData,
	)

	// Presenter in background, engine in foreground.
	var presenterErr error
	var presenterWg sync.WaitGroup
	presenterWg.Add(1)
	go func() {
		defer presenterWg.Done()
		presenterErr = presenter.Run(presenterEvents)
	}()

	result := engine.Run(ctx, engineCfg)
	stop()
	close(events)
	presenterWg.Wait()
	if presenterErr != nil {
		fmt.Fprintf(stderr, "presenter: %v\n", presenterErr)
	}

	if !opts.quiet {
		if summary := presenter.Summary(); summary != "" {
			fmt.Fprintln(stderr, summary)
		}
	}

	if result.Err != nil {
		if errors.Is(result.Err, context.Canceled) {
			logger.Warn("interrupted; run again with the same arguments to resume")
		} else {
			logger.Error("copy failed", "error", result.Err)
		}
		if result.Stats.FilesCopied > 0 || result.Stats.FilesSkipped > 0 {
			return &exitError{code: 1} // partial failure
		}
		return &exitError{code: 2} // total failure
	}
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return config.Config{}, fmt.Errorf("config file: %w", err)
		}
		return config.LoadFile(path)
	}
	return config.Load()
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(cmd *cobra.Command, defaults config.DefaultsConfig, opts *options) error {
	values, err := defaults.Resolve()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if !flags.Changed("verify") && defaults.Verify != nil {
		opts.verify = *defaults.Verify
	}
	if !flags.Changed("sync") && defaults.Sync != nil {
		opts.syncData = *defaults.Sync
	}
	if !flags.Changed("max-wait") && values.MaxWait > 0 {
		opts.maxWait = values.MaxWait
	}
	if !flags.Changed("chunk-size") && values.ChunkSize > 0 {
		opts.chunkSize = config.Size(values.ChunkSize)
	}
	if !flags.Changed("bwlimit") && defaults.BWLimit != nil {
		opts.bwLimit = config.Size(values.BWLimit)
	}
	return nil
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
