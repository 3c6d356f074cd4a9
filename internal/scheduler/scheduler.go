package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mohamedkhairy/momentum-screener/pkg/logger"
)

// Job is one unit of scheduled work, typically a screening run
type Job func(ctx context.Context) error

// Scheduler reruns a job on a cron schedule. Runs never overlap: a tick that
// fires while the previous run is still going is skipped.
type Scheduler struct {
	cron *cron.Cron
	job  Job
	spec string

	ctx    context.Context
	cancel context.CancelFunc

	running sync.Mutex // held for the duration of a run
	mu      sync.Mutex
	started bool
}

// cronLogger adapts the zap logger to cron.Logger
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, append(keysAndValues, "error", err)...)
}

// New creates a scheduler. An empty spec creates a scheduler that only runs on demand.
func New(spec string, job Job) (*Scheduler, error) {
	if job == nil {
		return nil, fmt.Errorf("job cannot be nil")
	}

	clog := cronLogger{sugar: logger.Get().Sugar()}
	c := cron.New(
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:   c,
		job:    job,
		spec:   spec,
		ctx:    ctx,
		cancel: cancel,
	}

	if spec != "" {
		if _, err := c.AddFunc(spec, s.tick); err != nil {
			cancel()
			return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
		}
	}

	return s, nil
}

// Start starts the cron loop
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()

	logger.Info("Scheduler started", logger.String("schedule", s.spec))
}

// Stop stops the cron loop, cancels an in-flight run and waits for it to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		<-s.cron.Stop().Done()
		s.started = false
	}
	s.cancel()
	s.running.Lock()
	s.running.Unlock()

	logger.Info("Scheduler stopped")
}

// RunNow runs the job immediately, waiting for any in-flight run first
func (s *Scheduler) RunNow(ctx context.Context) error {
	s.running.Lock()
	defer s.running.Unlock()
	return s.job(ctx)
}

func (s *Scheduler) tick() {
	if !s.running.TryLock() {
		logger.Warn("Skipping scheduled run, previous run still in progress")
		return
	}
	defer s.running.Unlock()

	if err := s.job(s.ctx); err != nil {
		logger.Error("Scheduled run failed", logger.ErrorField(err))
	}
}
