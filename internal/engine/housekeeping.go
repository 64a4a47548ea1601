package engine

import (
	"context"
	"time"

	"hotelline/internal/domain"
	"hotelline/internal/events"
)

// TaskInput are parameters for creating a housekeeping task. RoomNumber is
// not checked against the room collection.
type TaskInput struct {
	RoomNumber    string              `validate:"required"`
	Type          domain.TaskType     `validate:"required,oneof=checkout-cleaning maintenance-cleaning deep-cleaning inspection"`
	AssignedTo    string              `validate:"required"`
	Priority      domain.TaskPriority `validate:"required,oneof=low medium high urgent"`
	EstimatedTime int                 `validate:"gte=1"`
	Notes         string
}

type TaskFilter struct {
	Status     domain.TaskStatus
	RoomNumber string
}

func (e *Engine) taskIndex(id string) int {
	for i, t := range e.state.HousekeepingTasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) CreateTask(ctx context.Context, in TaskInput) (domain.HousekeepingTask, error) {
	if err := e.check(in); err != nil {
		return domain.HousekeepingTask{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.insertTask(ctx, in)
}

func (e *Engine) insertTask(ctx context.Context, in TaskInput) (domain.HousekeepingTask, error) {
	t := domain.HousekeepingTask{
		ID:            newToken("HK", func(c string) bool { return e.taskIndex(c) >= 0 }),
		RoomNumber:    in.RoomNumber,
		Type:          in.Type,
		AssignedTo:    in.AssignedTo,
		Priority:      in.Priority,
		EstimatedTime: in.EstimatedTime,
		Status:        domain.TaskPending,
		Notes:         in.Notes,
	}
	if err := e.record(ctx, "task.created", "task", t.ID, events.EventPayload{
		"room":     t.RoomNumber,
		"type":     t.Type,
		"priority": t.Priority,
	}); err != nil {
		return domain.HousekeepingTask{}, err
	}
	e.state.HousekeepingTasks = append(e.state.HousekeepingTasks, t)
	return t, nil
}

// Advance moves a task pending -> in-progress -> completed. A delayed task
// may still be completed. Nothing else is accepted.
func (e *Engine) Advance(ctx context.Context, id string, to domain.TaskStatus) (domain.HousekeepingTask, error) {
	if !to.Valid() {
		return domain.HousekeepingTask{}, invalid("status", "is not a task status")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.taskIndex(id)
	if i < 0 {
		return domain.HousekeepingTask{}, notFound("task", id)
	}
	t := e.state.HousekeepingTasks[i]
	if err := ensureTaskTransition(t.ID, t.Status, to); err != nil {
		return t, e.rejected(err)
	}
	from := t.Status
	t.Status = to
	now := e.timestamp()
	switch to {
	case domain.TaskInProgress:
		t.StartTime = &now
	case domain.TaskCompleted:
		t.CompletedAt = &now
	}
	if err := e.record(ctx, "task.advanced", "task", t.ID, events.EventPayload{"from": from, "to": to}); err != nil {
		return e.state.HousekeepingTasks[i], err
	}
	e.state.HousekeepingTasks[i] = t
	return t, nil
}

// MarkOverdue flags in-progress tasks that have run past their estimated
// time as delayed and returns their ids.
func (e *Engine) MarkOverdue(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	var idx []int
	ids := []string{}
	for i, t := range e.state.HousekeepingTasks {
		if t.Status != domain.TaskInProgress || t.StartTime == nil {
			continue
		}
		started, err := time.Parse(time.RFC3339, *t.StartTime)
		if err != nil {
			continue
		}
		if now.Sub(started) > time.Duration(t.EstimatedTime)*time.Minute {
			idx = append(idx, i)
			ids = append(ids, t.ID)
		}
	}
	if len(idx) == 0 {
		return ids, nil
	}
	if err := e.record(ctx, "task.delayed", "task", "", events.EventPayload{"ids": ids}); err != nil {
		return nil, err
	}
	for _, i := range idx {
		e.state.HousekeepingTasks[i].Status = domain.TaskDelayed
	}
	return ids, nil
}

func (e *Engine) GetTask(id string) (domain.HousekeepingTask, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.taskIndex(id)
	if i < 0 {
		return domain.HousekeepingTask{}, notFound("task", id)
	}
	return e.state.HousekeepingTasks[i], nil
}

func (e *Engine) ListTasks(f TaskFilter) []domain.HousekeepingTask {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := []domain.HousekeepingTask{}
	for _, t := range e.state.HousekeepingTasks {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.RoomNumber != "" && t.RoomNumber != f.RoomNumber {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CompletionRate is completed / all, and 0 for no tasks.
func CompletionRate(tasks []domain.HousekeepingTask) float64 {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == domain.TaskCompleted {
			done++
		}
	}
	return float64(done) / float64(len(tasks))
}
