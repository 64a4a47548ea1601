package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"hotelline/internal/config"
	"hotelline/internal/db"
	"hotelline/internal/engine"
	"hotelline/internal/events"
	"hotelline/internal/logging"
	"hotelline/internal/migrate"
	"hotelline/internal/repo"
	"hotelline/internal/snapshot"
)

// Workspace bundles everything an operation on a hotel directory needs.
type Workspace struct {
	Root   string
	Config *config.Config
	DB     *sql.DB
	Repo   repo.Repo
	Engine *engine.Engine
	Logger *zap.Logger
}

// Options tune how a workspace is opened.
type Options struct {
	// LogFormat selects the encoder; empty disables logging.
	LogFormat logging.Format
	// LogLevel overrides log.level from hotel.yml when set.
	LogLevel string
}

// Open loads hotel.yml (defaults when absent), migrates the journal and
// restores the engine from the last snapshot.
func Open(ctx context.Context, root string, opts Options) (*Workspace, error) {
	cfg, err := config.LoadOptional(root)
	if err != nil {
		return nil, err
	}
	logger := zap.NewNop()
	if opts.LogFormat != "" {
		logCfg := cfg.Log
		if opts.LogLevel != "" {
			logCfg.Level = opts.LogLevel
		}
		if logger, err = logging.New(logCfg, opts.LogFormat); err != nil {
			return nil, err
		}
	}
	conn, err := db.Open(db.Config{Workspace: root})
	if err != nil {
		return nil, err
	}
	if _, err := migrate.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	state, err := snapshot.Load(snapshot.Path(root))
	if err != nil {
		conn.Close()
		return nil, err
	}
	eng := engine.New(cfg, events.Writer{DB: conn}, logger)
	eng.Restore(state)
	return &Workspace{
		Root:   root,
		Config: cfg,
		DB:     conn,
		Repo:   repo.Repo{DB: conn},
		Engine: eng,
		Logger: logger,
	}, nil
}

// Save writes the engine state to the snapshot file and marks it in the
// journal.
func (w *Workspace) Save(ctx context.Context) (repo.SnapshotMark, error) {
	state := w.Engine.Export()
	path := snapshot.Path(w.Root)
	if err := snapshot.Save(path, state); err != nil {
		return repo.SnapshotMark{}, fmt.Errorf("save snapshot: %w", err)
	}
	mark, err := w.Repo.RecordSnapshot(ctx, repo.SnapshotMark{
		Path:         path,
		Reservations: len(state.Reservations),
		Rooms:        len(state.Rooms),
		Tasks:        len(state.HousekeepingTasks),
	})
	if err != nil {
		return mark, fmt.Errorf("record snapshot: %w", err)
	}
	w.Logger.Debug("snapshot saved", zap.String("path", path), zap.Int64("last_event_id", mark.LastEventID))
	return mark, nil
}

func (w *Workspace) Close() error {
	_ = w.Logger.Sync()
	return w.DB.Close()
}
