package jobs

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"hotelline/internal/repo"
)

type fakeSweeper struct {
	ids []string
	err error
}

func (f fakeSweeper) MarkOverdue(context.Context) ([]string, error) { return f.ids, f.err }

type fakeSaver struct{}

func (fakeSaver) Save(context.Context) (repo.SnapshotMark, error) { return repo.SnapshotMark{}, nil }

func TestSchedulerRegistersJobs(t *testing.T) {
	ctx := context.Background()
	s := New(nil)
	if err := s.DelaySweep(ctx, "*/5 * * * *", fakeSweeper{}); err != nil {
		t.Fatalf("delay sweep: %v", err)
	}
	if err := s.Autosave(ctx, "", fakeSaver{}); err != nil {
		t.Fatalf("disabled autosave: %v", err)
	}
	if s.Jobs() != 1 {
		t.Fatalf("expected 1 job, got %d", s.Jobs())
	}
	if err := s.Autosave(ctx, "every minute", fakeSaver{}); err == nil {
		t.Fatalf("expected bad spec error")
	}
	s.Start()
	s.Stop(ctx)
}

func TestSweepOnceLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	ids := SweepOnce(context.Background(), fakeSweeper{ids: []string{"HK-1"}}, logger)
	if len(ids) != 1 || logs.FilterMessage("tasks delayed").Len() != 1 {
		t.Fatalf("expected delayed log, got %v", logs.All())
	}
	if got := SweepOnce(context.Background(), fakeSweeper{err: errors.New("boom")}, logger); got != nil {
		t.Fatalf("expected nil ids on error")
	}
	if logs.FilterMessage("delay sweep failed").Len() != 1 {
		t.Fatalf("expected failure log")
	}
}
