package engine_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"hotelline/internal/domain"
	"hotelline/internal/engine"
)

func assertGuestInvariant(t *testing.T, r domain.Room) {
	t.Helper()
	occupied := r.Status == domain.RoomOccupied
	if occupied != (r.Guest != nil) || occupied != (r.CheckOut != nil) {
		t.Fatalf("guest fields out of sync with status %s: guest=%v checkOut=%v", r.Status, r.Guest, r.CheckOut)
	}
	if (r.Status == domain.RoomMaintenance) != (r.MaintenanceNotes != nil) {
		t.Fatalf("maintenance notes out of sync with status %s", r.Status)
	}
}

func TestAddRoom(t *testing.T) {
	env := newTestEnv(t)
	r, err := env.Engine.AddRoom(env.Ctx, engine.RoomInput{Number: "301", Floor: 3, Type: "Suite", Capacity: 2, Amenities: []string{"wifi"}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if r.ID != "room-301" || r.Status != domain.RoomAvailable {
		t.Fatalf("unexpected room %+v", r)
	}
	if !r.Price.Equal(decimal.NewFromInt(4200)) {
		t.Fatalf("expected rate table price, got %s", r.Price)
	}
	if _, err := env.Engine.AddRoom(env.Ctx, engine.RoomInput{Number: "301", Floor: 3, Type: "Suite", Capacity: 2}); !isValidation(err) {
		t.Fatalf("expected duplicate number rejection, got %v", err)
	}
	custom := decimal.NewFromInt(3900)
	c, err := env.Engine.AddRoom(env.Ctx, engine.RoomInput{ID: "r-302", Number: "302", Floor: 3, Type: "Suite", Capacity: 2, Price: &custom})
	if err != nil {
		t.Fatalf("add custom: %v", err)
	}
	if !c.Price.Equal(custom) {
		t.Fatalf("expected custom price, got %s", c.Price)
	}
	if _, err := env.Engine.GetRoom("302"); err != nil {
		t.Fatalf("lookup by number: %v", err)
	}
	if _, err := env.Engine.GetRoom("999"); !errors.Is(err, engine.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAssignGuestTwiceFails(t *testing.T) {
	env := newTestEnv(t)
	room := env.room(t, "101")
	r, err := env.Engine.AssignGuest(env.Ctx, room.ID, "María López", "2025-09-26")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if r.Status != domain.RoomOccupied || *r.Guest != "María López" || *r.CheckOut != "2025-09-26" {
		t.Fatalf("unexpected room %+v", r)
	}
	if _, err := env.Engine.AssignGuest(env.Ctx, room.ID, "John Smith", "2025-09-27"); !isInvalidTransition(err) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	got, _ := env.Engine.GetRoom(room.ID)
	if *got.Guest != "María López" {
		t.Fatalf("second assign changed guest to %s", *got.Guest)
	}
	if _, err := env.Engine.AssignGuest(env.Ctx, room.ID, "", "2025-09-27"); !isValidation(err) {
		t.Fatalf("expected missing guest rejection, got %v", err)
	}
}

func TestRoomLifecycleKeepsGuestInvariant(t *testing.T) {
	env := newTestEnv(t)
	room := env.room(t, "101")
	steps := []struct {
		name string
		run  func() (domain.Room, error)
		want domain.RoomStatus
	}{
		{"assign", func() (domain.Room, error) {
			return env.Engine.AssignGuest(env.Ctx, room.ID, "Ana", "2025-09-25")
		}, domain.RoomOccupied},
		{"begin cleaning", func() (domain.Room, error) { return env.Engine.BeginCleaning(env.Ctx, room.ID) }, domain.RoomCleaning},
		{"complete cleaning", func() (domain.Room, error) { return env.Engine.CompleteCleaning(env.Ctx, room.ID) }, domain.RoomAvailable},
		{"reassign", func() (domain.Room, error) {
			return env.Engine.AssignGuest(env.Ctx, room.ID, "Luis", "2025-09-27")
		}, domain.RoomOccupied},
		{"report maintenance", func() (domain.Room, error) {
			r, _, err := env.Engine.ReportMaintenance(env.Ctx, room.ID, engine.MaintenanceInput{Issue: "AC", Priority: domain.PriorityHigh, Description: "no cooling"})
			return r, err
		}, domain.RoomMaintenance},
		{"out of order", func() (domain.Room, error) { return env.Engine.SetOutOfOrder(env.Ctx, room.ID, "flooded") }, domain.RoomOutOfOrder},
		{"return to service", func() (domain.Room, error) { return env.Engine.ReturnToService(env.Ctx, room.ID) }, domain.RoomAvailable},
	}
	for _, step := range steps {
		r, err := step.run()
		if err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if r.Status != step.want {
			t.Fatalf("%s: expected %s, got %s", step.name, step.want, r.Status)
		}
		assertGuestInvariant(t, r)
	}
	got, _ := env.Engine.GetRoom(room.ID)
	if got.LastCleaned != "2025-09-23T12:00:00Z" {
		t.Fatalf("expected lastCleaned stamp, got %q", got.LastCleaned)
	}
}

func TestScheduleCleaningLeavesStatus(t *testing.T) {
	env := newTestEnv(t)
	room := env.room(t, "101")
	env.Engine.AssignGuest(env.Ctx, room.ID, "Ana", "2025-09-25")
	task, err := env.Engine.ScheduleCleaning(env.Ctx, room.ID, engine.CleaningInput{
		Type: domain.TaskCheckoutCleaning, AssignedTo: "Rosa", Priority: domain.PriorityMedium, EstimatedTime: 45,
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if task.RoomNumber != "101" || task.Status != domain.TaskPending {
		t.Fatalf("unexpected task %+v", task)
	}
	got, _ := env.Engine.GetRoom(room.ID)
	if got.Status != domain.RoomOccupied || got.Guest == nil {
		t.Fatalf("schedule changed room: %+v", got)
	}
	if len(env.Engine.ListTasks(engine.TaskFilter{RoomNumber: "101"})) != 1 {
		t.Fatalf("expected task listed for room")
	}
}

func TestScheduleCleaningRejectedUnderMaintenance(t *testing.T) {
	env := newTestEnv(t)
	room := env.room(t, "101")
	if _, _, err := env.Engine.ReportMaintenance(env.Ctx, room.ID, engine.MaintenanceInput{Issue: "Leak", Priority: domain.PriorityUrgent, Description: "bathroom sink"}); err != nil {
		t.Fatalf("report: %v", err)
	}
	_, err := env.Engine.ScheduleCleaning(env.Ctx, room.ID, engine.CleaningInput{
		Type: domain.TaskDeepCleaning, AssignedTo: "Rosa", Priority: domain.PriorityLow, EstimatedTime: 90,
	})
	if !isInvalidTransition(err) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if len(env.Engine.ListTasks(engine.TaskFilter{})) != 0 {
		t.Fatalf("rejected schedule created a task")
	}
	if _, err := env.Engine.CompleteCleaning(env.Ctx, room.ID); !isInvalidTransition(err) {
		t.Fatalf("expected complete cleaning to fail under maintenance, got %v", err)
	}
}

func TestMaintenanceWorkOrders(t *testing.T) {
	env := newTestEnv(t)
	room := env.room(t, "101")
	env.Engine.AssignGuest(env.Ctx, room.ID, "Ana", "2025-09-25")
	r, wo, err := env.Engine.ReportMaintenance(env.Ctx, room.ID, engine.MaintenanceInput{Issue: "AC", Priority: domain.PriorityHigh, Description: "no cooling"})
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if r.Guest != nil || *r.MaintenanceNotes != "no cooling" {
		t.Fatalf("unexpected room after report %+v", r)
	}
	if wo.Issue != "AC" || wo.Priority != domain.PriorityHigh || wo.Status != domain.WorkOrderOpen || wo.RoomNumber != "101" {
		t.Fatalf("unexpected work order %+v", wo)
	}
	if len(env.Engine.ListWorkOrders(domain.WorkOrderOpen)) != 1 {
		t.Fatalf("expected one open work order")
	}
	if _, _, err := env.Engine.ReportMaintenance(env.Ctx, room.ID, engine.MaintenanceInput{Issue: "", Priority: domain.PriorityHigh, Description: "x"}); !isValidation(err) {
		t.Fatalf("expected missing issue rejection, got %v", err)
	}

	resolved, err := env.Engine.ResolveMaintenance(env.Ctx, room.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != domain.RoomAvailable || resolved.MaintenanceNotes != nil {
		t.Fatalf("unexpected resolved room %+v", resolved)
	}
	closed := env.Engine.ListWorkOrders(domain.WorkOrderResolved)
	if len(closed) != 1 || closed[0].ResolvedAt == nil {
		t.Fatalf("expected resolved work order, got %+v", closed)
	}
	if _, err := env.Engine.ResolveMaintenance(env.Ctx, room.ID); !isInvalidTransition(err) {
		t.Fatalf("expected resolve from available to fail, got %v", err)
	}
}

func TestReturnToServiceResolvesCarriedWorkOrders(t *testing.T) {
	env := newTestEnv(t)
	room := env.room(t, "101")
	if _, _, err := env.Engine.ReportMaintenance(env.Ctx, room.ID, engine.MaintenanceInput{Issue: "Plumbing", Priority: domain.PriorityUrgent, Description: "leak"}); err != nil {
		t.Fatalf("report: %v", err)
	}
	if _, err := env.Engine.SetOutOfOrder(env.Ctx, room.ID, "ceiling repair"); err != nil {
		t.Fatalf("out of order: %v", err)
	}
	if got := env.Engine.Summary("").OpenWorkOrders; got != 1 {
		t.Fatalf("expected work order to stay open while out of order, got %d", got)
	}
	back, err := env.Engine.ReturnToService(env.Ctx, room.ID)
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if back.Status != domain.RoomAvailable || back.OutOfOrderReason != nil {
		t.Fatalf("unexpected room %+v", back)
	}
	if got := env.Engine.Summary("").OpenWorkOrders; got != 0 {
		t.Fatalf("expected no open work orders, got %d", got)
	}
	resolved := env.Engine.ListWorkOrders(domain.WorkOrderResolved)
	if len(resolved) != 1 || resolved[0].ResolvedAt == nil {
		t.Fatalf("expected resolved work order, got %+v", resolved)
	}
}

func TestSetOutOfOrderRejectsOccupied(t *testing.T) {
	env := newTestEnv(t)
	room := env.room(t, "101")
	env.Engine.AssignGuest(env.Ctx, room.ID, "Ana", "2025-09-25")
	if _, err := env.Engine.SetOutOfOrder(env.Ctx, room.ID, "broken window"); !isInvalidTransition(err) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if _, err := env.Engine.ReturnToService(env.Ctx, room.ID); !isInvalidTransition(err) {
		t.Fatalf("expected return from occupied to fail, got %v", err)
	}
}

func TestFilterRooms(t *testing.T) {
	guest := "María López"
	rooms := []domain.Room{
		{Number: "101", Status: domain.RoomOccupied, Guest: &guest},
		{Number: "102", Status: domain.RoomAvailable},
		{Number: "201", Status: domain.RoomAvailable},
	}
	if got := engine.FilterRooms(rooms, engine.RoomFilter{Search: "10"}); len(got) != 2 {
		t.Fatalf("expected 2 by number, got %d", len(got))
	}
	if got := engine.FilterRooms(rooms, engine.RoomFilter{Search: "lópez"}); len(got) != 1 {
		t.Fatalf("expected 1 by guest, got %d", len(got))
	}
	if got := engine.FilterRooms(rooms, engine.RoomFilter{Search: "10", Status: domain.RoomAvailable}); len(got) != 1 || got[0].Number != "102" {
		t.Fatalf("expected 102, got %+v", got)
	}
	if got := engine.FilterRooms(rooms, engine.RoomFilter{}); len(got) != 3 {
		t.Fatalf("expected all rooms, got %d", len(got))
	}
}
