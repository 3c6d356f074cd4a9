package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mohamedkhairy/momentum-screener/internal/api"
	"github.com/mohamedkhairy/momentum-screener/internal/config"
	"github.com/mohamedkhairy/momentum-screener/internal/pipeline"
	"github.com/mohamedkhairy/momentum-screener/internal/render"
	"github.com/mohamedkhairy/momentum-screener/internal/scheduler"
	"github.com/mohamedkhairy/momentum-screener/internal/toplist"
	"github.com/mohamedkhairy/momentum-screener/pkg/logger"
)

func serveCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the latest shortlist over HTTP and websocket, rerunning on a schedule",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "HTTP listen address",
				Value: cfg.API.Addr,
			},
			&cli.StringFlag{
				Name:  "schedule",
				Usage: "Cron schedule for reruns (e.g. \"0 18 * * 1-5\"), empty for on-demand only",
				Value: cfg.Scheduler.Spec,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyFlags(cfg, cmd.Root())
			cfg.API.Addr = cmd.String("addr")
			cfg.Scheduler.Spec = cmd.String("schedule")
			return serveAction(ctx, cfg)
		},
	}
}

func serveAction(ctx context.Context, cfg *config.Config) error {
	logger.Info("Starting screener API",
		logger.String("addr", cfg.API.Addr),
		logger.String("schedule", cfg.Scheduler.Spec),
		logger.String("data_dir", cfg.Data.Dir),
	)

	scr, err := newScreener(cfg)
	if err != nil {
		return fmt.Errorf("failed to build screening rule: %w", err)
	}

	store := toplist.NewMemoryStore()
	hub := api.NewHub(api.HubConfig{
		ReadTimeout:  cfg.API.PingInterval * 2,
		WriteTimeout: cfg.API.WriteTimeout,
		PingInterval: cfg.API.PingInterval,
	})
	defer hub.Stop()

	publishers := toplist.MultiPublisher{store, hub}
	redisPub, closeRedis, err := redisPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRedis()
	if redisPub != nil {
		publishers = append(publishers, redisPub)
	}

	// charts go nowhere in server mode
	pl, err := pipeline.New(pipeline.Config{
		Params:  cfg.Indicators,
		Workers: cfg.Screen.Workers,
	}, newLoader(cfg), scr, render.NopRenderer{}, publishers)
	if err != nil {
		return err
	}

	sched, err := scheduler.New(cfg.Scheduler.Spec, func(ctx context.Context) error {
		_, err := pl.Run(ctx)
		return err
	})
	if err != nil {
		return err
	}

	handler := api.NewHandler(store, sched.RunNow)
	server := api.NewServer(cfg.API.Addr, api.NewRouter(handler, hub), cfg.API.ReadTimeout, cfg.API.WriteTimeout)

	if cfg.Scheduler.RunOnStart {
		go func() {
			if err := sched.RunNow(ctx); err != nil {
				logger.Error("Initial screening run failed", logger.ErrorField(err))
			}
		}()
	}
	sched.Start()
	defer sched.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down screener API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
