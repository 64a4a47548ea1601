package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"hotelline/internal/domain"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Reservations == nil || s.Rooms == nil || s.HousekeepingTasks == nil || s.WorkOrders == nil {
		t.Fatalf("expected empty collections, got %+v", s)
	}
}

func TestSaveLoad(t *testing.T) {
	path := Path(t.TempDir())
	guest := "María López"
	out := "2025-09-26"
	in := domain.State{
		Reservations: []domain.Reservation{{
			ID: "RSV-1", GuestName: guest, CheckIn: "2025-09-23", CheckOut: out,
			RoomType: "Suite", Status: domain.ReservationPending, TotalAmount: decimal.NewFromInt(12600), Guests: 2,
		}},
		Rooms: []domain.Room{{
			ID: "room-101", Number: "101", Floor: 1, Type: "Suite", Status: domain.RoomOccupied,
			Guest: &guest, CheckOut: &out, Capacity: 2, Price: decimal.NewFromInt(4200),
		}},
	}
	if err := Save(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, key := range []string{`"reservations"`, `"housekeepingTasks"`, `"guestName"`, `"totalAmount": 12600`, `"price": 4200`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("expected %s in snapshot:\n%s", key, data)
		}
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Reservations) != 1 || !got.Reservations[0].TotalAmount.Equal(decimal.NewFromInt(12600)) {
		t.Fatalf("unexpected reservations %+v", got.Reservations)
	}
	if got.Rooms[0].Guest == nil || *got.Rooms[0].Guest != guest {
		t.Fatalf("guest not restored: %+v", got.Rooms[0])
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "state.json.*"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected decode error")
	}
}
