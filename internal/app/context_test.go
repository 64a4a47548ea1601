package app

import (
	"context"
	"testing"

	"hotelline/internal/engine"
	"hotelline/internal/logging"
)

func TestSaveAndReopen(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	ws, err := Open(ctx, root, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := ws.Engine.AddRoom(ctx, engine.RoomInput{Number: "101", Floor: 1, Type: "Suite", Capacity: 2}); err != nil {
		t.Fatalf("add room: %v", err)
	}
	mark, err := ws.Save(ctx)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if mark.Rooms != 1 || mark.LastEventID == 0 {
		t.Fatalf("unexpected mark %+v", mark)
	}
	ws.Close()

	again, err := Open(ctx, root, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer again.Close()
	if _, err := again.Engine.GetRoom("101"); err != nil {
		t.Fatalf("room not restored: %v", err)
	}
	latest, err := again.Repo.LatestSnapshot(ctx)
	if err != nil || latest.ID != mark.ID {
		t.Fatalf("expected latest mark %d, got %+v %v", mark.ID, latest, err)
	}
}

func TestOpenRejectsBadLogLevel(t *testing.T) {
	if _, err := Open(context.Background(), t.TempDir(), Options{LogFormat: logging.Console, LogLevel: "loud"}); err == nil {
		t.Fatalf("expected log level error")
	}
}
