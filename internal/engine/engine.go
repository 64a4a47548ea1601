package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hotelline/internal/config"
	"hotelline/internal/domain"
	"hotelline/internal/events"
)

// Journal records applied transitions. events.Writer satisfies it.
type Journal interface {
	Append(ctx context.Context, evtType, entityKind, entityID, actorID string, payload events.EventPayload) error
}

// Engine owns the reservation, room and housekeeping collections. Each
// operation runs under one lock and either applies fully or not at all.
type Engine struct {
	Config  *config.Config
	Journal Journal
	Logger  *zap.Logger
	Now     func() time.Time

	mu       sync.Mutex
	state    domain.State
	validate *validator.Validate
}

func New(cfg *config.Config, journal Journal, logger *zap.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if journal == nil {
		journal = events.Discard{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		Config:   cfg,
		Journal:  journal,
		Logger:   logger,
		Now:      time.Now,
		validate: validator.New(),
	}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Today is the current calendar date in the hotel timezone.
func (e *Engine) Today() string {
	return e.now().In(e.Config.Location()).Format(domain.DateLayout)
}

func (e *Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339)
}

// Restore replaces all collections, e.g. from a snapshot.
func (e *Engine) Restore(s domain.State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = s.Clone()
}

// Export returns a copy of all collections.
func (e *Engine) Export() domain.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

func (e *Engine) check(v any) error {
	if err := e.validate.Struct(v); err != nil {
		return fromValidator(err)
	}
	return nil
}

// record appends to the journal before the caller commits in memory, so a
// journal failure leaves the collections untouched.
func (e *Engine) record(ctx context.Context, evtType, kind, id string, payload events.EventPayload) error {
	if err := e.Journal.Append(ctx, evtType, kind, id, ActorFrom(ctx), payload); err != nil {
		return err
	}
	e.Logger.Info(evtType, zap.String("entity", kind), zap.String("id", id), zap.String("actor", ActorFrom(ctx)))
	return nil
}

func (e *Engine) rejected(err error) error {
	e.Logger.Debug("transition rejected", zap.Error(err))
	return err
}

type actorKey struct{}

// WithActor tags ctx with the staff member performing operations.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

func ActorFrom(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok && v != "" {
		return v
	}
	return "system"
}

// newToken returns a short id such as RSV-4F1A2C. Collisions are retried
// against taken but not cryptographically excluded.
func newToken(prefix string, taken func(string) bool) string {
	for i := 0; i < 8; i++ {
		id := prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
		if !taken(id) {
			return id
		}
	}
	return prefix + "-" + strings.ToUpper(uuid.NewString())
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
