// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/banikojp/remove-unuse-assets/internal/apperr"
	"github.com/banikojp/remove-unuse-assets/internal/discover"
	"github.com/banikojp/remove-unuse-assets/internal/journal"
	"github.com/banikojp/remove-unuse-assets/internal/reconcile"
	"github.com/banikojp/remove-unuse-assets/internal/watch"
)

// Run executes a full reconciliation pass with the given options.
//
// It returns apperr.ErrNoDocuments when discovery finds nothing to process;
// per-document failures are reported and never abort the run.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if app.out == nil {
		app.out = os.Stdout
	}

	cfg := app.config

	// Structured JSON diagnostics go to stderr; stdout is the report stream.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	if app.watch && !app.dryRun && !app.assumeYes {
		return fmt.Errorf("watch mode cannot prompt interactively: use --dry-run or --yes")
	}

	docs := discover.Markdown(app.paths, cfg.Scan.MarkdownExtension, logger)
	if len(docs) == 0 {
		fmt.Fprintln(app.out, "No markdown files found to process.")
		return apperr.ErrNoDocuments
	}

	var recorder reconcile.Recorder
	var store journal.Store
	var runID int64
	if cfg.Journal.Enabled() {
		db, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer db.Close()

		runID, err = db.BeginRun(app.dryRun)
		if err != nil {
			return fmt.Errorf("begin journal run: %w", err)
		}
		store = db
		recorder = &journal.RunRecorder{Store: db, RunID: runID}
	}

	rec := reconcile.New(reconcile.Options{
		AssetSuffix: cfg.Scan.AssetSuffix,
		DryRun:      app.dryRun,
		AssumeYes:   app.assumeYes,
		Confirm:     app.confirm,
		Out:         app.out,
		Logger:      logger,
		Recorder:    recorder,
	})

	process := func(doc string) int {
		n, err := rec.Process(doc)
		if err != nil {
			fmt.Fprintf(app.out, "Error processing %s: %v\n", doc, err)
			logger.Warn("document processing failed",
				slog.String("document", doc),
				slog.String("error", err.Error()))
			return 0
		}
		return n
	}

	total := 0
	for _, doc := range docs {
		total += process(doc)
	}
	fmt.Fprintf(app.out, "Finished. Total files deleted: %d\n", total)

	if store != nil {
		if err := store.FinishRun(runID, len(docs), total); err != nil {
			logger.Warn("journal finish failed", slog.String("error", err.Error()))
		}
	}

	if !app.watch {
		return nil
	}
	return runWatch(ctx, docs, cfg.Scan.MarkdownExtension, process, app.out, logger)
}

// runWatch re-reconciles documents as they change, until a signal or
// context cancellation stops it.
func runWatch(ctx context.Context, docs []string, ext string, process func(string) int, out io.Writer, logger *slog.Logger) error {
	dirs := parentDirs(docs)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(watchCtx)

	g.Go(func() error {
		return watch.Run(gCtx, dirs, ext, func(doc string) {
			n := process(doc)
			fmt.Fprintf(out, "Re-checked %s: %d file(s) deleted\n", doc, n)
		}, logger)
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
		}
		cancel()
		return nil
	})

	return g.Wait()
}

// parentDirs returns the sorted, deduplicated parent directories of docs.
func parentDirs(docs []string) []string {
	seen := make(map[string]struct{}, len(docs))
	var dirs []string
	for _, d := range docs {
		dir := filepath.Dir(d)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
