package tracker

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/applytrack/applytrack/metrics"
	"github.com/applytrack/applytrack/models"
)

// Export returns the applications document in its persisted shape.
func (t *Tracker) Export(ctx context.Context) []models.Application {
	return t.LoadApplications(ctx)
}

// Import replaces the whole collection with raw, a JSON array of records.
// Records keep their ids, which must be positive and unique; dateApplied is
// left as given. Text fields go through the same sanitizer as edits.
func (t *Tracker) Import(ctx context.Context, raw []byte) (metrics.GamificationResult, error) {
	var apps []models.Application
	if err := json.Unmarshal(raw, &apps); err != nil {
		return metrics.GamificationResult{}, fmt.Errorf("%w: %v", ErrInvalidApplication, err)
	}
	if apps == nil {
		apps = []models.Application{}
	}

	seen := make(map[int64]struct{}, len(apps))
	for i := range apps {
		a := &apps[i]
		if a.ID <= 0 {
			return metrics.GamificationResult{}, fmt.Errorf("%w: record %d needs a positive id", ErrInvalidApplication, i)
		}
		if _, dup := seen[a.ID]; dup {
			return metrics.GamificationResult{}, fmt.Errorf("%w: %d", ErrDuplicateID, a.ID)
		}
		seen[a.ID] = struct{}{}
		if a.Status == "" {
			a.Status = models.StatusApplied
		}
		if a.Interviews == nil {
			a.Interviews = []models.Interview{}
		}
		t.cleanApplication(a)
		if err := validate(*a); err != nil {
			return metrics.GamificationResult{}, fmt.Errorf("record %d: %w", a.ID, err)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	g, err := t.commitLocked(ctx, apps)
	if err != nil {
		return metrics.GamificationResult{}, err
	}
	t.log.Info("applications imported", zap.Int("count", len(apps)))
	return g, nil
}
