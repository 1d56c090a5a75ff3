package tracker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/applytrack/applytrack/models"
)

// Theme returns the stored theme, or the configured default.
func (t *Tracker) Theme(ctx context.Context) models.ThemeMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.themeLocked(ctx)
}

func (t *Tracker) themeLocked(ctx context.Context) models.ThemeMode {
	raw, found := t.readDocument(ctx, models.KeyThemeMode)
	if !found {
		return t.defaultTheme
	}
	mode := models.ThemeMode(raw)
	if !mode.Valid() {
		t.log.Warn("ignoring unknown stored theme", zap.String("theme", raw))
		return t.defaultTheme
	}
	return mode
}

// SetTheme stores mode.
func (t *Tracker) SetTheme(ctx context.Context, mode models.ThemeMode) error {
	if !mode.Valid() {
		return fmt.Errorf("unknown theme %q", mode)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.setThemeLocked(ctx, mode)
}

func (t *Tracker) setThemeLocked(ctx context.Context, mode models.ThemeMode) error {
	if err := t.store.Set(ctx, models.KeyThemeMode, string(mode)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// ToggleTheme flips between dark and light and returns the new mode.
func (t *Tracker) ToggleTheme(ctx context.Context) (models.ThemeMode, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := t.themeLocked(ctx).Toggled()
	if err := t.setThemeLocked(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
