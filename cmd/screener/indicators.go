package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/mohamedkhairy/momentum-screener/internal/config"
	"github.com/mohamedkhairy/momentum-screener/internal/ingest"
	"github.com/mohamedkhairy/momentum-screener/pkg/indicator"
)

func indicatorsCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "indicators",
		Usage: "List the registered indicator calculators, optionally streaming a CSV file through them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "CSV file to stream bar by bar through every calculator",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return indicatorsAction(ctx, cfg, cmd.String("file"))
		},
	}
}

func indicatorsAction(ctx context.Context, cfg *config.Config, file string) error {
	registry, err := indicator.NewDefaultRegistry(cfg.Indicators)
	if err != nil {
		return err
	}

	if file == "" {
		for _, name := range registry.List() {
			fmt.Fprintln(os.Stdout, name)
		}
		return nil
	}

	series, err := ingest.LoadFile(file)
	if err != nil {
		return err
	}

	calcs, err := registry.NewAll()
	if err != nil {
		return err
	}

	for i := range series.Bars {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, calc := range calcs {
			if _, err := calc.Update(&series.Bars[i]); err != nil {
				return fmt.Errorf("%s bar %d: %w", calc.Name(), i, err)
			}
		}
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s (%d bars)\n", series.Symbol, series.Len())
	fmt.Fprintln(tw, "INDICATOR\tREADY\tVALUE")
	for _, calc := range calcs {
		value := "-"
		if v := calc.Value(); v.IsSome() {
			value = strconv.FormatFloat(v.Unwrap(), 'f', 4, 64)
		}
		fmt.Fprintf(tw, "%s\t%t\t%s\n", calc.Name(), calc.IsReady(), value)
	}
	return tw.Flush()
}
