// Package tracker owns the persisted application collection and keeps the
// derived gamification document in step with it.
package tracker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/applytrack/applytrack/models"
	"github.com/applytrack/applytrack/storage"
)

// Tracker serializes every read-recompute-write cycle against one Store.
type Tracker struct {
	store        storage.Store
	clock        func() time.Time
	loc          *time.Location
	log          *zap.Logger
	celebrator   Celebrator
	sanitizer    Sanitizer
	defaultTheme models.ThemeMode

	mu sync.Mutex
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(t *Tracker) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// WithLocation sets the zone used to decide calendar days.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(t *Tracker) {
		if log != nil {
			t.log = log
		}
	}
}

// WithCelebrator sets who gets told about unlocked badges and milestones.
func WithCelebrator(c Celebrator) Option {
	return func(t *Tracker) {
		if c != nil {
			t.celebrator = c
		}
	}
}

// WithSanitizer sets the cleaner applied to every stored text field.
func WithSanitizer(s Sanitizer) Option {
	return func(t *Tracker) {
		if s != nil {
			t.sanitizer = s
		}
	}
}

// WithDefaultTheme sets the theme reported before anything was stored.
func WithDefaultTheme(mode models.ThemeMode) Option {
	return func(t *Tracker) {
		if mode.Valid() {
			t.defaultTheme = mode
		}
	}
}

// New builds a Tracker on top of store.
func New(store storage.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:        store,
		clock:        time.Now,
		loc:          time.UTC,
		log:          zap.NewNop(),
		sanitizer:    plainText{},
		defaultTheme: models.ThemeLight,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.celebrator == nil {
		t.celebrator = NewLogCelebrator(t.log)
	}
	return t
}

func (t *Tracker) now() time.Time {
	return t.clock().In(t.loc)
}

// Today is the current calendar day in the tracker's zone, as YYYY-MM-DD.
func (t *Tracker) Today() string {
	return t.now().Format("2006-01-02")
}

// Location reports the zone used for calendar-day decisions.
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Close releases the underlying store.
func (t *Tracker) Close() error {
	return t.store.Close()
}

// readDocument fetches key and logs, rather than returns, read failures.
func (t *Tracker) readDocument(ctx context.Context, key string) (string, bool) {
	raw, found, err := t.store.Get(ctx, key)
	if err != nil {
		t.log.Warn("storage read failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return raw, found
}
