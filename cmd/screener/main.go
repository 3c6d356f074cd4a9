package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/mohamedkhairy/momentum-screener/internal/config"
	"github.com/mohamedkhairy/momentum-screener/internal/ingest"
	"github.com/mohamedkhairy/momentum-screener/internal/render"
	"github.com/mohamedkhairy/momentum-screener/internal/screener"
	"github.com/mohamedkhairy/momentum-screener/internal/toplist"
	"github.com/mohamedkhairy/momentum-screener/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cmd := &cli.Command{
		Name:  "screener",
		Usage: "Compute RSI, MACD and Bollinger Bands over daily prices and shortlist momentum candidates",
		Flags: globalFlags(cfg),
		Commands: []*cli.Command{
			screenCommand(cfg),
			serveCommand(cfg),
			indicatorsCommand(cfg),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		logger.Error("Command failed", logger.ErrorField(err))
		fmt.Fprintln(os.Stderr, err)
		stop()
		logger.Sync()
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand and default to the loaded config
func globalFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "Directory of per-instrument CSV files",
			Value:   cfg.Data.Dir,
		},
		&cli.StringFlag{
			Name:  "pattern",
			Usage: "Glob pattern for CSV files inside --dir",
			Value: cfg.Data.Pattern,
		},
		&cli.StringFlag{
			Name:    "rules",
			Aliases: []string{"r"},
			Usage:   "YAML rule file replacing the default momentum rule",
			Value:   cfg.Screen.RulesFile,
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Number of instruments annotated in parallel",
			Value: int64(cfg.Screen.Workers),
		},
	}
}

// applyFlags copies the global flag values into cfg
func applyFlags(cfg *config.Config, cmd *cli.Command) {
	cfg.Data.Dir = cmd.String("dir")
	cfg.Data.Pattern = cmd.String("pattern")
	cfg.Screen.RulesFile = cmd.String("rules")
	if w := int(cmd.Int("workers")); w > 0 {
		cfg.Screen.Workers = w
	}
}

func newScreener(cfg *config.Config) (*screener.Screener, error) {
	rule, err := cfg.Screen.Rule()
	if err != nil {
		return nil, err
	}
	return screener.New(rule)
}

func newLoader(cfg *config.Config) *ingest.CSVLoader {
	return ingest.NewCSVLoader(cfg.Data.Dir, cfg.Data.Pattern)
}

func newRenderer(cfg *config.Config, kind string) (render.Renderer, error) {
	return render.FromKind(kind, render.TerminalOptions{
		Out:    os.Stdout,
		Width:  cfg.Render.Width,
		Height: cfg.Render.Height,
	})
}

// redisPublisher connects to Redis when it is enabled. The returned close
// function is always safe to call.
func redisPublisher(ctx context.Context, cfg *config.Config) (toplist.Publisher, func(), error) {
	if !cfg.Redis.Enabled {
		return nil, func() {}, nil
	}
	client, err := toplist.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		return nil, func() {}, err
	}
	return toplist.NewRedisPublisher(client, cfg.Redis.Channel), func() { client.Close() }, nil
}
