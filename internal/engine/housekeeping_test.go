package engine_test

import (
	"testing"
	"time"

	"hotelline/internal/domain"
	"hotelline/internal/engine"
)

func (env testEnv) task(t *testing.T, room string, minutes int) domain.HousekeepingTask {
	t.Helper()
	task, err := env.Engine.CreateTask(env.Ctx, engine.TaskInput{
		RoomNumber: room, Type: domain.TaskCheckoutCleaning, AssignedTo: "Rosa", Priority: domain.PriorityMedium, EstimatedTime: minutes,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func TestTaskAdvanceSequence(t *testing.T) {
	env := newTestEnv(t)
	task := env.task(t, "305", 30)
	if _, err := env.Engine.Advance(env.Ctx, task.ID, domain.TaskCompleted); !isInvalidTransition(err) {
		t.Fatalf("expected pending -> completed to fail, got %v", err)
	}
	started, err := env.Engine.Advance(env.Ctx, task.ID, domain.TaskInProgress)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.StartTime == nil || *started.StartTime != "2025-09-23T12:00:00Z" {
		t.Fatalf("expected start time, got %v", started.StartTime)
	}
	done, err := env.Engine.Advance(env.Ctx, task.ID, domain.TaskCompleted)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != domain.TaskCompleted || done.CompletedAt == nil {
		t.Fatalf("unexpected completed task %+v", done)
	}
	if _, err := env.Engine.Advance(env.Ctx, task.ID, domain.TaskInProgress); !isInvalidTransition(err) {
		t.Fatalf("expected completed to be terminal, got %v", err)
	}
	if env.countEvents(t, "task.advanced") != 2 {
		t.Fatalf("expected two advance events")
	}
}

func TestTaskAdvanceRejectsDelayedAndUnknown(t *testing.T) {
	env := newTestEnv(t)
	task := env.task(t, "101", 30)
	if _, err := env.Engine.Advance(env.Ctx, task.ID, domain.TaskDelayed); !isInvalidTransition(err) {
		t.Fatalf("expected manual delayed to fail, got %v", err)
	}
	if _, err := env.Engine.Advance(env.Ctx, task.ID, domain.TaskStatus("paused")); !isValidation(err) {
		t.Fatalf("expected unknown status rejection, got %v", err)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Engine.CreateTask(env.Ctx, engine.TaskInput{
		RoomNumber: "101", Type: domain.TaskType("laundry"), AssignedTo: "Rosa", Priority: domain.PriorityLow, EstimatedTime: 10,
	})
	if !isValidation(err) {
		t.Fatalf("expected type rejection, got %v", err)
	}
	_, err = env.Engine.CreateTask(env.Ctx, engine.TaskInput{
		RoomNumber: "101", Type: domain.TaskInspection, AssignedTo: "Rosa", Priority: domain.PriorityLow, EstimatedTime: 0,
	})
	if !isValidation(err) {
		t.Fatalf("expected estimate rejection, got %v", err)
	}
	// tasks may reference rooms that are not registered
	env.task(t, "999", 10)
}

func TestMarkOverdue(t *testing.T) {
	env := newTestEnv(t)
	slow := env.task(t, "101", 30)
	fast := env.task(t, "102", 120)
	idle := env.task(t, "103", 1)
	env.Engine.Advance(env.Ctx, slow.ID, domain.TaskInProgress)
	env.Engine.Advance(env.Ctx, fast.ID, domain.TaskInProgress)

	env.Engine.Now = func() time.Time { return fixedNow.Add(45 * time.Minute) }
	ids, err := env.Engine.MarkOverdue(env.Ctx)
	if err != nil {
		t.Fatalf("mark overdue: %v", err)
	}
	if len(ids) != 1 || ids[0] != slow.ID {
		t.Fatalf("expected only %s delayed, got %v", slow.ID, ids)
	}
	for id, want := range map[string]domain.TaskStatus{slow.ID: domain.TaskDelayed, fast.ID: domain.TaskInProgress, idle.ID: domain.TaskPending} {
		got, _ := env.Engine.GetTask(id)
		if got.Status != want {
			t.Fatalf("%s: expected %s, got %s", id, want, got.Status)
		}
	}
	done, err := env.Engine.Advance(env.Ctx, slow.ID, domain.TaskCompleted)
	if err != nil || done.Status != domain.TaskCompleted {
		t.Fatalf("expected delayed task to complete, got %v %+v", err, done)
	}
	again, _ := env.Engine.MarkOverdue(env.Ctx)
	if len(again) != 0 {
		t.Fatalf("expected nothing newly delayed, got %v", again)
	}
}

func TestCompletionRate(t *testing.T) {
	if got := engine.CompletionRate(nil); got != 0 {
		t.Fatalf("expected 0 for no tasks, got %v", got)
	}
	all := []domain.HousekeepingTask{{Status: domain.TaskCompleted}, {Status: domain.TaskCompleted}}
	if got := engine.CompletionRate(all); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
	mixed := append(all, domain.HousekeepingTask{Status: domain.TaskPending}, domain.HousekeepingTask{Status: domain.TaskDelayed})
	if got := engine.CompletionRate(mixed); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}
