package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"strength-scanner/internal/logger"
)

// Job is one scheduled scan.
type Job func(ctx context.Context) error

// Scheduler runs a job on a cron spec with seconds. A firing that arrives
// while the previous run is still going is skipped.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
	job  Job
}

func New(ctx context.Context, job Job) *Scheduler {
	cl := cronLogger{ctx: ctx}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		ctx: ctx,
		job: job,
	}
}

// Register adds the daily scan at spec, e.g. "0 30 16 * * 1-5".
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return fmt.Errorf("register scan %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info(s.ctx, "Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops new firings and waits for a running scan to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info(s.ctx, "Scheduler stopped")
}

// RunNow executes the job immediately, for run_on_start.
func (s *Scheduler) RunNow() {
	s.run()
}

func (s *Scheduler) run() {
	op := logger.StartOperation(s.ctx, "scheduled_scan")
	if err := s.job(op.Context()); err != nil {
		op.EndWithError(err)
		return
	}
	op.End()
}

// cronLogger routes cron's own logging through the structured logger.
type cronLogger struct {
	ctx context.Context
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug(l.ctx, "cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.ErrorWithErr(l.ctx, "cron: "+msg, err, keysAndValues...)
}
