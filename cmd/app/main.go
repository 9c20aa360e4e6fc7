package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/banikojp/remove-unuse-assets/internal"
	"github.com/banikojp/remove-unuse-assets/internal/apperr"
	"github.com/banikojp/remove-unuse-assets/internal/journal"
	"github.com/banikojp/remove-unuse-assets/internal/mcpserver"
	pkgconfig "github.com/banikojp/remove-unuse-assets/pkg/config"
)

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "rmassets.yaml",
		Value:       "rmassets.yaml",
		Sources:     cli.EnvVars("RMASSETS_CONFIG_FILE"),
	}
}

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func runClean(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("at least one markdown file or directory is required")
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithPaths(paths),
		internal.WithDryRun(cmd.Bool("dry-run")),
		internal.WithAssumeYes(cmd.Bool("yes")),
		internal.WithWatch(cmd.Bool("watch")),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runHistory(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.Journal.Enabled() {
		return fmt.Errorf("no journal configured: set journal.path in the config file")
	}

	db, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	limit := int(cmd.Int("limit"))

	runs, err := db.RecentRuns(limit)
	if err != nil {
		return err
	}
	for _, r := range runs {
		mode := "delete"
		if r.DryRun {
			mode = "dry-run"
		}
		fmt.Printf("run %d  %s  %s  documents=%d deleted=%d\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), mode, r.Documents, r.Deleted)
	}

	dels, err := db.RecentDeletions(limit)
	if err != nil {
		return err
	}
	for _, d := range dels {
		fmt.Printf("  run %d  %s  %s/%s\n", d.RunID, d.Document, d.AssetDir, d.File)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	srv := mcpserver.New(cfg.Scan.MarkdownExtension, cfg.Scan.AssetSuffix, logger)
	return srv.ServeStdio()
}

func main() {
	cmd := &cli.Command{
		Name:      "rmassets",
		Usage:     "Remove unused files from the .assets directories paired with Markdown documents",
		ArgsUsage: "paths...",
		Action:    runClean,
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show what would be deleted without removing files",
			},
			&cli.BoolFlag{
				Name:  "yes",
				Usage: "Do not prompt; delete files",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Keep running and re-check documents when they change (requires --dry-run or --yes)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "history",
				Usage:  "Show journaled runs and deletions",
				Action: runHistory,
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum entries to show",
						Value: 20,
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve scan/clean tools over the Model Context Protocol (stdio)",
				Action: runMCP,
				Flags:  []cli.Flag{configFlag()},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		if !errors.Is(err, apperr.ErrNoDocuments) {
			slog.Error("application error", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}
}
