package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotelline/internal/config"
	"hotelline/internal/db"
	"hotelline/internal/domain"
	"hotelline/internal/engine"
	"hotelline/internal/events"
	"hotelline/internal/migrate"
)

type testEnv struct {
	Engine *engine.Engine
	Ctx    context.Context
	Events events.Writer
}

var fixedNow = time.Date(2025, 9, 23, 12, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	ctx := engine.WithActor(context.Background(), "tester")
	if _, err := migrate.Migrate(ctx, conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	w := events.Writer{DB: conn}
	eng := engine.New(config.Default(), w, nil)
	eng.Now = func() time.Time { return fixedNow }
	return testEnv{Engine: eng, Ctx: ctx, Events: w}
}

func (env testEnv) countEvents(t *testing.T, evtType string) int {
	t.Helper()
	var n int
	if err := env.Events.DB.QueryRowContext(env.Ctx, `SELECT count(*) FROM events WHERE type=?`, evtType).Scan(&n); err != nil {
		t.Fatalf("count events: %v", err)
	}
	return n
}

func (env testEnv) reservation(t *testing.T, checkIn, checkOut string) domain.Reservation {
	t.Helper()
	r, err := env.Engine.CreateReservation(env.Ctx, engine.ReservationInput{
		GuestName: "María López",
		Email:     "maria@example.com",
		Phone:     "+52 55 1234 5678",
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		RoomType:  "Suite",
		Guests:    2,
	})
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	return r
}

func (env testEnv) confirmed(t *testing.T, checkIn, checkOut string) domain.Reservation {
	t.Helper()
	r := env.reservation(t, checkIn, checkOut)
	r, err := env.Engine.ConfirmReservation(env.Ctx, r.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	return r
}

func (env testEnv) room(t *testing.T, number string) domain.Room {
	t.Helper()
	r, err := env.Engine.AddRoom(env.Ctx, engine.RoomInput{Number: number, Floor: 1, Type: "Standard", Capacity: 2})
	if err != nil {
		t.Fatalf("add room: %v", err)
	}
	return r
}

func isInvalidTransition(err error) bool {
	var te *engine.InvalidTransitionError
	return errors.As(err, &te)
}

func isValidation(err error) bool {
	var ve *engine.ValidationError
	return errors.As(err, &ve)
}

type failingJournal struct{}

func (failingJournal) Append(context.Context, string, string, string, string, events.EventPayload) error {
	return errors.New("disk full")
}

func TestJournalFailureLeavesStateUnchanged(t *testing.T) {
	env := newTestEnv(t)
	r := env.confirmed(t, "2025-09-23", "2025-09-25")
	env.Engine.Journal = failingJournal{}
	if _, err := env.Engine.CheckIn(env.Ctx, r.ID); err == nil {
		t.Fatalf("expected journal error")
	}
	got, _ := env.Engine.GetReservation(r.ID)
	if got.Status != domain.ReservationConfirmed {
		t.Fatalf("status changed despite failed append: %s", got.Status)
	}
	if _, err := env.Engine.AddRoom(env.Ctx, engine.RoomInput{Number: "101", Floor: 1, Type: "Suite", Capacity: 2}); err == nil {
		t.Fatalf("expected journal error on add room")
	}
	if len(env.Engine.ListRooms(engine.RoomFilter{})) != 0 {
		t.Fatalf("room added despite failed append")
	}
}

func TestExportRestoreRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.reservation(t, "2025-09-23", "2025-09-26")
	room := env.room(t, "101")
	snap := env.Engine.Export()
	snap.Rooms[0].Amenities = append(snap.Rooms[0].Amenities, "jacuzzi")

	other := engine.New(config.Default(), nil, nil)
	other.Restore(snap)
	if len(other.ListReservations(engine.ReservationFilter{})) != 1 {
		t.Fatalf("expected restored reservation")
	}
	got, err := other.GetRoom(room.Number)
	if err != nil {
		t.Fatalf("get restored room: %v", err)
	}
	if len(got.Amenities) != 1 {
		t.Fatalf("expected restored amenities, got %v", got.Amenities)
	}
	orig, _ := env.Engine.GetRoom(room.ID)
	if len(orig.Amenities) != 0 {
		t.Fatalf("export shares slices with engine state")
	}
}

func TestSummary(t *testing.T) {
	env := newTestEnv(t)
	arriving := env.confirmed(t, "2025-09-23", "2025-09-26")
	staying := env.confirmed(t, "2025-09-20", "2025-09-23")
	if _, err := env.Engine.CheckIn(env.Ctx, staying.ID); err != nil {
		t.Fatalf("check in: %v", err)
	}
	cancelled := env.reservation(t, "2025-10-01", "2025-10-02")
	if _, err := env.Engine.CancelReservation(env.Ctx, cancelled.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	a := env.room(t, "101")
	env.room(t, "102")
	if _, err := env.Engine.AssignGuest(env.Ctx, a.ID, "María López", "2025-09-26"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	s := env.Engine.Summary("")
	if s.Today != "2025-09-23" {
		t.Fatalf("unexpected today %s", s.Today)
	}
	if s.ArrivalsToday != 1 || s.DeparturesToday != 1 {
		t.Fatalf("arrivals=%d departures=%d", s.ArrivalsToday, s.DeparturesToday)
	}
	if s.OccupancyRate != 0.5 {
		t.Fatalf("expected occupancy 0.5, got %v", s.OccupancyRate)
	}
	if s.Reservations[domain.ReservationCancelled] != 1 || s.Rooms[domain.RoomAvailable] != 1 {
		t.Fatalf("unexpected counts %+v %+v", s.Reservations, s.Rooms)
	}
	want := arriving.TotalAmount.Add(staying.TotalAmount)
	if !s.Revenue.Equal(want) {
		t.Fatalf("expected revenue %s, got %s", want, s.Revenue)
	}
	if s.CompletionRate != 0 {
		t.Fatalf("expected no completion with no tasks, got %v", s.CompletionRate)
	}
}
