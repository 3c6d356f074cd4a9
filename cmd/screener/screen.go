package main

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/mohamedkhairy/momentum-screener/internal/config"
	"github.com/mohamedkhairy/momentum-screener/internal/pipeline"
	"github.com/mohamedkhairy/momentum-screener/internal/report"
	"github.com/mohamedkhairy/momentum-screener/internal/toplist"
)

func screenCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "screen",
		Usage: "Run one screening pass and print the shortlist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "render",
				Usage: "Chart renderer (terminal or none)",
				Value: cfg.Render.Kind,
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Also print the latest indicator values of every instrument",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Show a progress bar on stderr",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyFlags(cfg, cmd.Root())
			return screenAction(ctx, cfg, cmd)
		},
	}
}

func screenAction(ctx context.Context, cfg *config.Config, cmd *cli.Command) error {
	scr, err := newScreener(cfg)
	if err != nil {
		return fmt.Errorf("failed to build screening rule: %w", err)
	}

	renderer, err := newRenderer(cfg, cmd.String("render"))
	if err != nil {
		return err
	}

	redisPub, closeRedis, err := redisPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRedis()

	var publisher toplist.Publisher
	if redisPub != nil {
		publisher = redisPub
	}

	loader := newLoader(cfg)
	pl, err := pipeline.New(pipeline.Config{
		Params:  cfg.Indicators,
		Workers: cfg.Screen.Workers,
	}, loader, scr, renderer, publisher)
	if err != nil {
		return err
	}

	if cmd.Bool("progress") {
		files, err := loader.Files()
		if err != nil {
			return err
		}
		bar := progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Annotating"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		pl.OnAnnotated = func(string) {
			bar.Add(1)
		}
		defer bar.Finish()
	}

	result, err := pl.Run(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("all") {
		if err := report.WriteSummary(os.Stdout, result.Annotated); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout)
	}
	return report.WriteShortlist(os.Stdout, result.Shortlist)
}
