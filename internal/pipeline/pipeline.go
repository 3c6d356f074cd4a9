package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mohamedkhairy/momentum-screener/internal/ingest"
	"github.com/mohamedkhairy/momentum-screener/internal/models"
	"github.com/mohamedkhairy/momentum-screener/internal/render"
	"github.com/mohamedkhairy/momentum-screener/internal/screener"
	"github.com/mohamedkhairy/momentum-screener/internal/toplist"
	"github.com/mohamedkhairy/momentum-screener/pkg/indicator"
	"github.com/mohamedkhairy/momentum-screener/pkg/logger"
)

// Config holds configuration for the pipeline
type Config struct {
	Params  indicator.Params
	Workers int // annotate workers (default: 1)
}

// Result is the outcome of one run
type Result struct {
	RunID        string
	Annotated    []models.AnnotatedSeries // ingest order
	Shortlist    []models.ScreeningResult
	RenderErrors map[string]error
	StartedAt    time.Time
	Duration     time.Duration
}

// Snapshot returns the shortlist as a toplist snapshot
func (r *Result) Snapshot() models.ToplistSnapshot {
	return models.ToplistSnapshot{
		RunID:       r.RunID,
		Rankings:    r.Shortlist,
		Instruments: len(r.Annotated),
		Timestamp:   r.StartedAt,
	}
}

// Pipeline runs ingest, annotate, screen, render and publish for every instrument
type Pipeline struct {
	config    Config
	loader    ingest.Loader
	screener  *screener.Screener
	renderer  render.Renderer
	publisher toplist.Publisher

	// OnAnnotated is called after each instrument is annotated, from worker goroutines
	OnAnnotated func(symbol string)

	mu sync.Mutex // one run at a time
}

// New creates a pipeline. renderer and publisher may be nil.
func New(cfg Config, loader ingest.Loader, scr *screener.Screener, renderer render.Renderer, publisher toplist.Publisher) (*Pipeline, error) {
	if loader == nil {
		return nil, errors.New("loader cannot be nil")
	}
	if scr == nil {
		return nil, errors.New("screener cannot be nil")
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if renderer == nil {
		renderer = render.NopRenderer{}
	}
	return &Pipeline{
		config:    cfg,
		loader:    loader,
		screener:  scr,
		renderer:  renderer,
		publisher: publisher,
	}, nil
}

// Run performs one full screening run.
// Every instrument is annotated before screening starts. Render and publish
// failures are logged and counted but do not fail the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := &Result{
		RunID:        uuid.New().String(),
		RenderErrors: make(map[string]error),
		StartedAt:    time.Now().UTC(),
	}
	ctx = logger.WithRunID(ctx, result.RunID)
	log := logger.WithContext(ctx)

	status := "error"
	defer func() {
		result.Duration = time.Since(result.StartedAt)
		logger.RunsTotal.WithLabelValues(status).Inc()
		logger.RunDuration.Observe(result.Duration.Seconds())
	}()

	series, err := p.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load instruments: %w", err)
	}
	logger.InstrumentsLoaded.Set(float64(len(series)))
	log.Info("Loaded instruments", logger.Int("count", len(series)))

	annotated, err := p.annotateAll(ctx, series)
	if err != nil {
		return nil, err
	}
	result.Annotated = annotated

	result.Shortlist = p.screener.Select(annotated)
	logger.InstrumentsQualified.Set(float64(len(result.Shortlist)))

	p.renderAll(ctx, result)

	if p.publisher != nil {
		update := toplist.Update{Snapshot: result.Snapshot(), Annotated: annotated}
		if err := p.publisher.Publish(ctx, update); err != nil {
			log.Warn("Failed to publish run result", logger.ErrorField(err))
		}
	}

	status = "success"
	log.Info("Screening run completed",
		logger.Int("instruments", len(annotated)),
		logger.Int("qualified", len(result.Shortlist)),
		logger.Int("render_errors", len(result.RenderErrors)),
		logger.Duration("duration", time.Since(result.StartedAt)),
	)
	return result, nil
}

// annotateAll computes indicators for every series on a worker pool.
// Output order matches input order.
func (p *Pipeline) annotateAll(ctx context.Context, series []models.Series) ([]models.AnnotatedSeries, error) {
	annotated := make([]models.AnnotatedSeries, len(series))
	errs := make([]error, len(series))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(p.config.Workers, len(series)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				a, err := indicator.Annotate(series[i], p.config.Params)
				if err != nil {
					errs[i] = fmt.Errorf("%s: %w", series[i].Symbol, err)
					continue
				}
				annotated[i] = a
				if p.OnAnnotated != nil {
					p.OnAnnotated(series[i].Symbol)
				}
			}
		}()
	}

feed:
	for i := range series {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to annotate instruments: %w", err)
	}
	return annotated, nil
}

// renderAll hands every instrument to the renderer in ingest order,
// whether or not it made the shortlist
func (p *Pipeline) renderAll(ctx context.Context, result *Result) {
	log := logger.WithContext(ctx)
	for _, a := range result.Annotated {
		if err := p.renderer.Render(ctx, a); err != nil {
			result.RenderErrors[a.Symbol] = err
			logger.RenderErrorsTotal.Inc()
			log.Warn("Failed to render instrument",
				logger.String("symbol", a.Symbol),
				logger.ErrorField(err),
			)
		}
	}
}
