package tracker

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/applytrack/applytrack/metrics"
	"github.com/applytrack/applytrack/models"
)

// Gamification returns the persisted state; missing or malformed documents
// read as the zero state.
func (t *Tracker) Gamification(ctx context.Context) models.Gamification {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadGamificationLocked(ctx)
}

func (t *Tracker) loadGamificationLocked(ctx context.Context) models.Gamification {
	zero := models.Gamification{Badges: []string{}}
	raw, found := t.readDocument(ctx, models.KeyGamification)
	if !found || raw == "" {
		return zero
	}
	var g models.Gamification
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		t.log.Warn("gamification document is malformed", zap.Error(err))
		return zero
	}
	if g.Badges == nil {
		g.Badges = []string{}
	}
	return g
}

// RefreshGamification recomputes the state from the stored applications.
func (t *Tracker) RefreshGamification(ctx context.Context) (metrics.GamificationResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.refreshGamificationLocked(ctx, t.loadLocked(ctx))
}

func (t *Tracker) refreshGamificationLocked(ctx context.Context, apps []models.Application) (metrics.GamificationResult, error) {
	prior := t.loadGamificationLocked(ctx)
	now := t.now()
	res := metrics.UpdateGamification(apps, prior, now)

	b, err := json.Marshal(res.State)
	if err != nil {
		return res, fmt.Errorf("encode gamification: %w", err)
	}
	if err := t.store.Set(ctx, models.KeyGamification, string(b)); err != nil {
		t.log.Error("storage write failed", zap.String("key", models.KeyGamification), zap.Error(err))
		return res, fmt.Errorf("save gamification: %w", err)
	}

	if res.Celebrate {
		reason := ReasonMilestone
		if res.BadgeUnlocked {
			reason = ReasonBadgeUnlocked
		}
		t.celebrator.Celebrate(ctx, Celebration{
			Reason: reason,
			Badges: res.NewBadges,
			Total:  len(apps),
			At:     now,
		})
	}
	return res, nil
}
