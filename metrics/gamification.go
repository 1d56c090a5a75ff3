package metrics

import (
	"sort"
	"time"

	"github.com/applytrack/applytrack/models"
)

const (
	pointsPerApplication = 10
	pointsInterviewing   = 40
	pointsSelected       = 90

	badge10AppsThreshold = 10
	weekStreakDays       = 7
	celebrateEvery       = 10
)

// GamificationResult is the outcome of one recompute.
type GamificationResult struct {
	State         models.Gamification `json:"state"`
	NewBadges     []string            `json:"new_badges"`
	BadgeUnlocked bool                `json:"badge_unlocked"`
	Celebrate     bool                `json:"celebrate"`
}

// Points scores the current snapshot from scratch.
func Points(apps []models.Application) int {
	total := 0
	for _, a := range apps {
		total += pointsPerApplication
		switch a.Status {
		case models.StatusInterviewing:
			total += pointsInterviewing
		case models.StatusSelected:
			total += pointsSelected
		}
	}
	return total
}

const dayLayout = "2006-01-02"

// Streak counts consecutive calendar days with at least one application,
// ending today. Days after the day being checked (future-dated records) are
// skipped; the walk stops at the first day before it.
func Streak(apps []models.Application, now time.Time) int {
	loc := now.Location()
	seen := map[string]struct{}{}
	var days []string
	for _, a := range apps {
		at, ok := a.AppliedAt()
		if !ok {
			continue
		}
		d := at.In(loc).Format(dayLayout)
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	check := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	streak := 0
	for _, d := range days {
		want := check.Format(dayLayout)
		if d == want {
			streak++
			check = check.AddDate(0, 0, -1)
			continue
		}
		if d < want {
			break
		}
	}
	return streak
}

// EvaluateBadges unions prior with every badge the snapshot qualifies for.
// Prior badges are never removed and keep their order; new ones follow in
// catalog order.
func EvaluateBadges(apps []models.Application, streak int, prior []string) (badges []string, unlocked []string) {
	have := make(map[string]struct{}, len(prior))
	badges = make([]string, 0, len(prior)+len(models.BadgeCatalog))
	for _, b := range prior {
		if _, dup := have[b]; dup {
			continue
		}
		have[b] = struct{}{}
		badges = append(badges, b)
	}

	selected := false
	for _, a := range apps {
		if a.Status == models.StatusSelected {
			selected = true
			break
		}
	}
	checks := []struct {
		id string
		ok bool
	}{
		{models.BadgeFirstApp, len(apps) >= 1},
		{models.Badge10Apps, len(apps) >= badge10AppsThreshold},
		{models.BadgeWeekStreak, streak >= weekStreakDays},
		{models.BadgeFirstOffer, selected},
	}
	for _, c := range checks {
		if !c.ok {
			continue
		}
		if _, ok := have[c.id]; ok {
			continue
		}
		have[c.id] = struct{}{}
		badges = append(badges, c.id)
		unlocked = append(unlocked, c.id)
	}
	return badges, unlocked
}

// UpdateGamification recomputes points, streak and badges from the full
// snapshot, carrying forward the previously earned badges. Celebrate is set
// when a badge unlocks or the record count reaches a positive multiple of ten.
func UpdateGamification(apps []models.Application, prior models.Gamification, now time.Time) GamificationResult {
	streak := Streak(apps, now)
	badges, unlocked := EvaluateBadges(apps, streak, prior.Badges)
	total := len(apps)
	if unlocked == nil {
		unlocked = []string{}
	}
	return GamificationResult{
		State: models.Gamification{
			Streak: streak,
			Points: Points(apps),
			Badges: badges,
		},
		NewBadges:     unlocked,
		BadgeUnlocked: len(unlocked) > 0,
		Celebrate:     len(unlocked) > 0 || (total > 0 && total%celebrateEvery == 0),
	}
}
