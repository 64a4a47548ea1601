package hotelsdk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotelline/internal/config"
	"hotelline/internal/db"
	"hotelline/internal/engine"
	"hotelline/internal/events"
	"hotelline/internal/migrate"
	"hotelline/internal/repo"
	"hotelline/internal/server"
)

func newClient(t *testing.T) *Client {
	t.Helper()
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if _, err := migrate.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	e := engine.New(config.Default(), events.Writer{DB: conn}, nil)
	e.Now = func() time.Time { return time.Date(2025, 9, 23, 9, 0, 0, 0, time.UTC) }
	handler, err := server.New(server.Config{Engine: e, Repo: repo.Repo{DB: conn}})
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "front-desk")
}

func TestClientReservationFlow(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()
	r, err := c.CreateReservation(ctx, NewReservation{
		GuestName: "María López", Email: "maria@example.com", Phone: "555",
		CheckIn: "2025-09-23", CheckOut: "2025-09-26", RoomType: "Suite", Guests: 2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.TotalAmount != 12600 || r.Status != "pending" {
		t.Fatalf("unexpected reservation %+v", r)
	}
	if _, err := c.Transition(ctx, r.ID, "confirm"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	res, err := c.BulkCheckIn(ctx, nil)
	if err != nil || res.Count != 1 {
		t.Fatalf("bulk check in: %v %+v", err, res)
	}
	_, err = c.Transition(ctx, r.ID, "confirm")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusConflict || apiErr.Code != "invalid_transition" {
		t.Fatalf("expected invalid_transition, got %v", err)
	}
	page, err := c.EventsPage(ctx, 1, "")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ActorID != "front-desk" || page.NextCursor == "" {
		t.Fatalf("unexpected events page %+v", page)
	}
}

func TestClientRooms(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()
	if _, err := c.AddRoom(ctx, "101", 1, "Standard", 2); err != nil {
		t.Fatalf("add room: %v", err)
	}
	room, err := c.AssignGuest(ctx, "101", "Ana", "2025-09-25")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if room.Status != "occupied" || room.Guest != "Ana" || room.Price != 1800 {
		t.Fatalf("unexpected room %+v", room)
	}
	if _, err := c.AssignGuest(ctx, "101", "Luis", "2025-09-26"); err == nil {
		t.Fatalf("expected second assignment to fail")
	}
}
