package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"hotelline/internal/repo"
)

// Sweeper is the part of the engine the delay sweep needs.
type Sweeper interface {
	MarkOverdue(ctx context.Context) ([]string, error)
}

// Saver persists the current state.
type Saver interface {
	Save(ctx context.Context) (repo.SnapshotMark, error)
}

// Scheduler runs the background housekeeping jobs on cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{cron: cron.New(), logger: logger}
}

// DelaySweep schedules MarkOverdue. An empty spec disables the job.
func (s *Scheduler) DelaySweep(ctx context.Context, spec string, sw Sweeper) error {
	return s.add(spec, "delay_sweep", func() { SweepOnce(ctx, sw, s.logger) })
}

// Autosave schedules snapshot writes. An empty spec disables the job.
func (s *Scheduler) Autosave(ctx context.Context, spec string, sv Saver) error {
	return s.add(spec, "autosave", func() {
		if _, err := sv.Save(ctx); err != nil {
			s.logger.Error("autosave failed", zap.Error(err))
		}
	})
}

func (s *Scheduler) add(spec, name string, fn func()) error {
	if spec == "" {
		return nil
	}
	if _, err := s.cron.AddFunc(spec, fn); err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}
	s.logger.Info("job scheduled", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// Jobs reports how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// SweepOnce runs a single delay sweep and logs the outcome.
func SweepOnce(ctx context.Context, sw Sweeper, logger *zap.Logger) []string {
	ids, err := sw.MarkOverdue(ctx)
	if err != nil {
		logger.Error("delay sweep failed", zap.Error(err))
		return nil
	}
	if len(ids) > 0 {
		logger.Info("tasks delayed", zap.Strings("ids", ids))
	}
	return ids
}
