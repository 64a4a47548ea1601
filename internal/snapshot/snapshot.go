package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"hotelline/internal/db"
	"hotelline/internal/domain"
)

const fileName = "state.json"

// Path returns the snapshot file of a workspace.
func Path(workspace string) string {
	return filepath.Join(db.Dir(workspace), fileName)
}

// Load reads the state file. A missing file yields empty collections.
func Load(path string) (domain.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty(), nil
		}
		return domain.State{}, err
	}
	var s domain.State
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.State{}, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return normalize(s), nil
}

// Save writes the state through a temp file and rename so readers never see
// a partial snapshot.
func Save(path string, s domain.State) error {
	data, err := json.MarshalIndent(normalize(s), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), fileName+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func empty() domain.State {
	return normalize(domain.State{})
}

// normalize replaces nil collections so the file always carries arrays.
func normalize(s domain.State) domain.State {
	if s.Reservations == nil {
		s.Reservations = []domain.Reservation{}
	}
	if s.Rooms == nil {
		s.Rooms = []domain.Room{}
	}
	if s.HousekeepingTasks == nil {
		s.HousekeepingTasks = []domain.HousekeepingTask{}
	}
	if s.WorkOrders == nil {
		s.WorkOrders = []domain.WorkOrder{}
	}
	return s
}
