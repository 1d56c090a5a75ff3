package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/applytrack/applytrack/metrics"
	"github.com/applytrack/applytrack/models"
)

// StatusAll disables the status filter.
const StatusAll = "All"

// Filter narrows ListApplications.
type Filter struct {
	Query  string
	Status string
}

// ApplicationInput carries the editable fields of an application.
type ApplicationInput struct {
	Company        string             `json:"company"`
	Position       string             `json:"position"`
	Status         models.Status      `json:"status"`
	Notes          string             `json:"notes"`
	Interviews     []models.Interview `json:"interviews"`
	ExpectedSalary *float64           `json:"expectedSalary"`
	OfferedSalary  *float64           `json:"offeredSalary"`
	Currency       string             `json:"currency"`
	BenefitsNotes  string             `json:"benefitsNotes"`
	JDLink         string             `json:"jdLink"`
}

// MutationResult is returned by every operation that changes the collection.
type MutationResult struct {
	Application  *models.Application        `json:"application,omitempty"`
	Gamification metrics.GamificationResult `json:"gamification"`
}

// LoadApplications returns the persisted collection. Read failures and
// malformed documents yield an empty collection.
func (t *Tracker) LoadApplications(ctx context.Context) []models.Application {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadLocked(ctx)
}

func (t *Tracker) loadLocked(ctx context.Context) []models.Application {
	raw, found := t.readDocument(ctx, models.KeyApplications)
	if !found || raw == "" {
		return []models.Application{}
	}
	var apps []models.Application
	if err := json.Unmarshal([]byte(raw), &apps); err != nil {
		t.log.Warn("applications document is malformed", zap.Error(err))
		return []models.Application{}
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps
}

func (t *Tracker) saveLocked(ctx context.Context, apps []models.Application) error {
	b, err := json.Marshal(apps)
	if err != nil {
		return fmt.Errorf("encode applications: %w", err)
	}
	if err := t.store.Set(ctx, models.KeyApplications, string(b)); err != nil {
		t.log.Error("storage write failed", zap.String("key", models.KeyApplications), zap.Error(err))
		return fmt.Errorf("save applications: %w", err)
	}
	return nil
}

// commitLocked persists apps and then refreshes the gamification document.
// Only the applications write can fail the mutation; a failed gamification
// write is logged and recomputed on the next call.
func (t *Tracker) commitLocked(ctx context.Context, apps []models.Application) (metrics.GamificationResult, error) {
	if err := t.saveLocked(ctx, apps); err != nil {
		return metrics.GamificationResult{}, err
	}
	res, err := t.refreshGamificationLocked(ctx, apps)
	if err != nil {
		t.log.Warn("gamification not persisted", zap.Error(err))
	}
	return res, nil
}

// ListApplications returns the newest applications first, optionally
// filtered by a case-insensitive query and a status.
func (t *Tracker) ListApplications(ctx context.Context, f Filter) []models.Application {
	apps := t.LoadApplications(ctx)

	query := strings.ToLower(html.UnescapeString(strings.TrimSpace(f.Query)))
	status := strings.TrimSpace(f.Status)
	out := make([]models.Application, 0, len(apps))
	for _, a := range apps {
		if status != "" && status != StatusAll && string(a.Status) != status {
			continue
		}
		if query != "" && !matches(a, query) {
			continue
		}
		out = append(out, a)
	}
	sortNewestFirst(out)
	return out
}

func matches(a models.Application, query string) bool {
	for _, field := range []string{a.Company, a.Position, a.Notes} {
		// stored text is HTML-escaped by the sanitizer
		if strings.Contains(strings.ToLower(html.UnescapeString(field)), query) {
			return true
		}
	}
	return false
}

// sortNewestFirst orders by dateApplied descending; undated records go last.
func sortNewestFirst(apps []models.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		ti, okI := apps[i].AppliedAt()
		tj, okJ := apps[j].AppliedAt()
		switch {
		case okI && okJ:
			return ti.After(tj)
		case okI != okJ:
			return okI
		default:
			return apps[i].ID > apps[j].ID
		}
	})
}

// GetApplication returns one application by id.
func (t *Tracker) GetApplication(ctx context.Context, id int64) (models.Application, error) {
	apps := t.LoadApplications(ctx)
	i := indexOf(apps, id)
	if i < 0 {
		return models.Application{}, ErrNotFound
	}
	return apps[i], nil
}

// CreateApplication validates in, stamps id and dateApplied, appends it and
// updates gamification.
func (t *Tracker) CreateApplication(ctx context.Context, in ApplicationInput) (MutationResult, error) {
	app, err := t.normalize(in)
	if err != nil {
		return MutationResult{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	apps := t.loadLocked(ctx)
	now := t.now()
	app.ID = nextID(apps, now.UnixMilli())
	app.DateApplied = models.FormatDate(now)
	apps = append(apps, app)

	g, err := t.commitLocked(ctx, apps)
	if err != nil {
		return MutationResult{}, err
	}
	t.log.Info("application created", zap.Int64("id", app.ID), zap.String("company", app.Company))
	return MutationResult{Application: &app, Gamification: g}, nil
}

// UpdateApplication replaces the record wholesale, keeping its id and
// dateApplied.
func (t *Tracker) UpdateApplication(ctx context.Context, id int64, in ApplicationInput) (MutationResult, error) {
	app, err := t.normalize(in)
	if err != nil {
		return MutationResult{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	apps := t.loadLocked(ctx)
	i := indexOf(apps, id)
	if i < 0 {
		return MutationResult{}, ErrNotFound
	}
	app.ID = apps[i].ID
	app.DateApplied = apps[i].DateApplied
	apps[i] = app

	g, err := t.commitLocked(ctx, apps)
	if err != nil {
		return MutationResult{}, err
	}
	return MutationResult{Application: &app, Gamification: g}, nil
}

// DeleteApplication removes the record with id.
func (t *Tracker) DeleteApplication(ctx context.Context, id int64) (MutationResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	apps := t.loadLocked(ctx)
	i := indexOf(apps, id)
	if i < 0 {
		return MutationResult{}, ErrNotFound
	}
	apps = append(apps[:i], apps[i+1:]...)

	g, err := t.commitLocked(ctx, apps)
	if err != nil {
		return MutationResult{}, err
	}
	t.log.Info("application deleted", zap.Int64("id", id))
	return MutationResult{Gamification: g}, nil
}

// AddInterview appends an interview to the application's schedule.
func (t *Tracker) AddInterview(ctx context.Context, id int64, iv models.Interview) (MutationResult, error) {
	iv, err := normalizeInterview(t.cleanInterview(iv))
	if err != nil {
		return MutationResult{}, err
	}
	return t.mutateOne(ctx, id, func(a *models.Application) error {
		a.Interviews = append(a.Interviews, iv)
		return nil
	})
}

// RemoveInterview drops the interview at index.
func (t *Tracker) RemoveInterview(ctx context.Context, id int64, index int) (MutationResult, error) {
	return t.mutateOne(ctx, id, func(a *models.Application) error {
		if index < 0 || index >= len(a.Interviews) {
			return fmt.Errorf("%w: interview index %d out of range", ErrInvalidApplication, index)
		}
		a.Interviews = append(a.Interviews[:index], a.Interviews[index+1:]...)
		return nil
	})
}

func (t *Tracker) mutateOne(ctx context.Context, id int64, fn func(*models.Application) error) (MutationResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	apps := t.loadLocked(ctx)
	i := indexOf(apps, id)
	if i < 0 {
		return MutationResult{}, ErrNotFound
	}
	if err := fn(&apps[i]); err != nil {
		return MutationResult{}, err
	}
	if apps[i].Interviews == nil {
		apps[i].Interviews = []models.Interview{}
	}

	g, err := t.commitLocked(ctx, apps)
	if err != nil {
		return MutationResult{}, err
	}
	app := apps[i]
	return MutationResult{Application: &app, Gamification: g}, nil
}

func indexOf(apps []models.Application, id int64) int {
	for i := range apps {
		if apps[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID starts from the clock in milliseconds and bumps past any taken id.
func nextID(apps []models.Application, candidate int64) int64 {
	taken := make(map[int64]struct{}, len(apps))
	for _, a := range apps {
		taken[a.ID] = struct{}{}
	}
	for {
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
		candidate++
	}
}

func (t *Tracker) normalize(in ApplicationInput) (models.Application, error) {
	app := models.Application{
		Company:        in.Company,
		Position:       in.Position,
		Status:         models.Status(strings.TrimSpace(string(in.Status))),
		Notes:          in.Notes,
		ExpectedSalary: in.ExpectedSalary,
		OfferedSalary:  in.OfferedSalary,
		Currency:       in.Currency,
		BenefitsNotes:  in.BenefitsNotes,
		JDLink:         in.JDLink,
		Interviews:     make([]models.Interview, 0, len(in.Interviews)),
	}
	if app.Status == "" {
		app.Status = models.StatusApplied
	}
	for _, iv := range in.Interviews {
		iv, err := normalizeInterview(iv)
		if err != nil {
			return models.Application{}, err
		}
		app.Interviews = append(app.Interviews, iv)
	}
	t.cleanApplication(&app)
	if err := validate(app); err != nil {
		return models.Application{}, err
	}
	return app, nil
}

func validate(app models.Application) error {
	if app.Company == "" {
		return fmt.Errorf("%w: company is required", ErrInvalidApplication)
	}
	if app.Position == "" {
		return fmt.Errorf("%w: position is required", ErrInvalidApplication)
	}
	if !app.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidApplication, app.Status)
	}
	if app.ExpectedSalary != nil && *app.ExpectedSalary < 0 {
		return fmt.Errorf("%w: expected salary must not be negative", ErrInvalidApplication)
	}
	if app.OfferedSalary != nil && *app.OfferedSalary < 0 {
		return fmt.Errorf("%w: offered salary must not be negative", ErrInvalidApplication)
	}
	if app.JDLink != "" {
		u, err := url.Parse(app.JDLink)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: jdLink must be an http(s) URL", ErrInvalidApplication)
		}
	}
	return nil
}

func normalizeInterview(iv models.Interview) (models.Interview, error) {
	iv.Date = strings.TrimSpace(iv.Date)
	iv.Time = strings.TrimSpace(iv.Time)
	iv.Type = strings.TrimSpace(iv.Type)
	iv.Notes = strings.TrimSpace(iv.Notes)
	if iv.Date == "" {
		return iv, fmt.Errorf("%w: interview date is required", ErrInvalidApplication)
	}
	if _, ok := models.ParseDate(iv.Date); !ok {
		return iv, fmt.Errorf("%w: interview date %q is not ISO-8601", ErrInvalidApplication, iv.Date)
	}
	if iv.Type == "" {
		iv.Type = models.DefaultInterviewType
	}
	return iv, nil
}
