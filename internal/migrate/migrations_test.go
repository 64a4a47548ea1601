package migrate_test

import (
	"context"
	"testing"

	"hotelline/internal/db"
	"hotelline/internal/migrate"
)

func TestMigrateIsIdempotent(t *testing.T) {
	conn, err := db.Open(db.Config{Workspace: t.TempDir()})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()
	ctx := context.Background()
	migrations, err := migrate.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	latest := migrations[len(migrations)-1].Version
	v, err := migrate.Migrate(ctx, conn)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if v != latest {
		t.Fatalf("expected version %d, got %d", latest, v)
	}
	v, err = migrate.Migrate(ctx, conn)
	if err != nil || v != latest {
		t.Fatalf("second migrate: v=%d err=%v", v, err)
	}
	if _, err := conn.ExecContext(ctx, `INSERT INTO events(ts,type,entity_kind,actor_id) VALUES ('2025-01-01T00:00:00Z','x','room','tester')`); err != nil {
		t.Fatalf("events table missing: %v", err)
	}
}
