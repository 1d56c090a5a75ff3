// Package metrics derives statistics and gamification state from a snapshot
// of application records. Every function is pure: callers pass the records
// and the current time, and nothing is read from or written to storage.
package metrics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/applytrack/applytrack/models"
)

// MonthBucket is one bar of the applications-per-month histogram.
type MonthBucket struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Count int    `json:"count"`
}

// Stats bundles every aggregate shown on the statistics screen.
type Stats struct {
	Total            int                   `json:"total"`
	StatusCounts     map[models.Status]int `json:"status_counts"`
	SuccessRate      int                   `json:"success_rate"`
	ResponseRate     int                   `json:"response_rate"`
	Responded        int                   `json:"responded"`
	AvgResponseDays  *int                  `json:"avg_response_days"`
	AvgResponseLabel string                `json:"avg_response_label"`
	ThisMonth        int                   `json:"this_month"`
	Monthly          []MonthBucket         `json:"monthly"`
}

// NotApplicable is reported when no average response time can be computed.
const NotApplicable = "N/A"

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(roundHalfUp(100 * float64(part) / float64(total)))
}

// StatusCounts returns a count for each of the five statuses. Records with
// an unrecognised status are not counted under any key.
func StatusCounts(apps []models.Application) map[models.Status]int {
	counts := make(map[models.Status]int, len(models.Statuses))
	for _, s := range models.Statuses {
		counts[s] = 0
	}
	for _, a := range apps {
		if _, ok := counts[a.Status]; ok {
			counts[a.Status]++
		}
	}
	return counts
}

// SuccessRate is the rounded percentage of Selected records.
func SuccessRate(apps []models.Application) int {
	return percent(StatusCounts(apps)[models.StatusSelected], len(apps))
}

// ResponseRate is the rounded percentage of records no longer Applied.
func ResponseRate(apps []models.Application) int {
	applied := StatusCounts(apps)[models.StatusApplied]
	return percent(len(apps)-applied, len(apps))
}

// AverageResponseDays averages the days elapsed between dateApplied and now
// over every record whose status is not Applied. This is time since applying,
// not time until the status changed. ok is false when no record qualifies.
// A record with an unreadable date adds nothing to the sum but still counts.
func AverageResponseDays(apps []models.Application, now time.Time) (days int, ok bool) {
	var sum float64
	n := 0
	for _, a := range apps {
		if a.Status == models.StatusApplied {
			continue
		}
		n++
		if at, parsed := a.AppliedAt(); parsed {
			sum += now.Sub(at).Hours() / 24
		}
	}
	if n == 0 {
		return 0, false
	}
	return int(roundHalfUp(sum / float64(n))), true
}

// MonthlyHistogram groups records by the month of dateApplied in loc and
// returns the buckets in calendar order.
func MonthlyHistogram(apps []models.Application, loc *time.Location) []MonthBucket {
	if loc == nil {
		loc = time.UTC
	}
	byKey := map[string]*MonthBucket{}
	for _, a := range apps {
		at, ok := a.AppliedAt()
		if !ok {
			continue
		}
		at = at.In(loc)
		key := fmt.Sprintf("%04d-%02d", at.Year(), int(at.Month()))
		b, found := byKey[key]
		if !found {
			b = &MonthBucket{
				Key:   key,
				Label: at.Format("Jan 2006"),
				Year:  at.Year(),
				Month: int(at.Month()),
			}
			byKey[key] = b
		}
		b.Count++
	}

	buckets := make([]MonthBucket, 0, len(byKey))
	for _, b := range byKey {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year < buckets[j].Year
		}
		return buckets[i].Month < buckets[j].Month
	})
	return buckets
}

// ThisMonthCount counts records applied during now's calendar month.
func ThisMonthCount(apps []models.Application, now time.Time) int {
	n := 0
	for _, a := range apps {
		at, ok := a.AppliedAt()
		if !ok {
			continue
		}
		at = at.In(now.Location())
		if at.Year() == now.Year() && at.Month() == now.Month() {
			n++
		}
	}
	return n
}

// Compute assembles Stats for the given snapshot.
func Compute(apps []models.Application, now time.Time) Stats {
	counts := StatusCounts(apps)
	total := len(apps)
	st := Stats{
		Total:            total,
		StatusCounts:     counts,
		SuccessRate:      percent(counts[models.StatusSelected], total),
		ResponseRate:     percent(total-counts[models.StatusApplied], total),
		Responded:        total - counts[models.StatusApplied],
		AvgResponseLabel: NotApplicable,
		ThisMonth:        ThisMonthCount(apps, now),
		Monthly:          MonthlyHistogram(apps, now.Location()),
	}
	if days, ok := AverageResponseDays(apps, now); ok {
		st.AvgResponseDays = &days
		st.AvgResponseLabel = fmt.Sprintf("%d days", days)
	}
	return st
}
