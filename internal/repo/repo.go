package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"hotelline/internal/domain"
)

// Repo reads the journal database.
type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

type EventFilters struct {
	Type       string
	EntityKind string
	EntityID   string
	Limit      int
	AfterID    int64
	BeforeID   int64
}

// LatestEvents returns events newest first.
func (r Repo) LatestEvents(ctx context.Context, f EventFilters) ([]domain.Event, error) {
	var clauses []string
	var args []any
	if f.Type != "" {
		clauses = append(clauses, "type=?")
		args = append(args, f.Type)
	}
	if f.EntityKind != "" {
		clauses = append(clauses, "entity_kind=?")
		args = append(args, f.EntityKind)
	}
	if f.EntityID != "" {
		clauses = append(clauses, "entity_id=?")
		args = append(args, f.EntityID)
	}
	if f.AfterID > 0 {
		clauses = append(clauses, "id>?")
		args = append(args, f.AfterID)
	}
	if f.BeforeID > 0 {
		clauses = append(clauses, "id<?")
		args = append(args, f.BeforeID)
	}
	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}
	query := `SELECT id,ts,type,entity_kind,COALESCE(entity_id,''),actor_id,payload_json FROM events ` + where + ` ORDER BY id DESC`
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.EntityKind, &e.EntityID, &e.ActorID, &e.Payload); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// EventsAfter returns up to limit events with ids greater than cursor, oldest
// first.
func (r Repo) EventsAfter(ctx context.Context, limit int, cursor int64) ([]domain.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT id,ts,type,entity_kind,COALESCE(entity_id,''),actor_id,payload_json FROM events WHERE id>? ORDER BY id ASC LIMIT ?`, cursor, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.EntityKind, &e.EntityID, &e.ActorID, &e.Payload); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func (r Repo) LatestEventID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COALESCE(MAX(id),0) FROM events`).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// CountEventsByType groups the journal by event type.
func (r Repo) CountEventsByType(ctx context.Context) (map[string]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT type, count(*) FROM events GROUP BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := map[string]int{}
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		res[typ] = n
	}
	return res, rows.Err()
}

type SnapshotMark struct {
	ID           int64  `json:"id"`
	TS           string `json:"ts" format:"date-time"`
	Path         string `json:"path"`
	LastEventID  int64  `json:"last_event_id"`
	Reservations int    `json:"reservations"`
	Rooms        int    `json:"rooms"`
	Tasks        int    `json:"tasks"`
}

// RecordSnapshot notes that the state file was written, tied to the newest event.
func (r Repo) RecordSnapshot(ctx context.Context, m SnapshotMark) (SnapshotMark, error) {
	if m.TS == "" {
		m.TS = time.Now().UTC().Format(time.RFC3339)
	}
	if err := r.DB.QueryRowContext(ctx, `SELECT COALESCE(MAX(id),0) FROM events`).Scan(&m.LastEventID); err != nil {
		return m, err
	}
	res, err := r.DB.ExecContext(ctx, `INSERT INTO snapshot_marks(ts,path,last_event_id,reservations,rooms,tasks) VALUES (?,?,?,?,?,?)`,
		m.TS, m.Path, m.LastEventID, m.Reservations, m.Rooms, m.Tasks)
	if err != nil {
		return m, err
	}
	m.ID, _ = res.LastInsertId()
	return m, nil
}

func (r Repo) LatestSnapshot(ctx context.Context) (SnapshotMark, error) {
	var m SnapshotMark
	err := r.DB.QueryRowContext(ctx, `SELECT id,ts,path,last_event_id,reservations,rooms,tasks FROM snapshot_marks ORDER BY id DESC LIMIT 1`).
		Scan(&m.ID, &m.TS, &m.Path, &m.LastEventID, &m.Reservations, &m.Rooms, &m.Tasks)
	if err == sql.ErrNoRows {
		return m, ErrNotFound
	}
	return m, err
}
