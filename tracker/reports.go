package tracker

import (
	"context"

	"github.com/applytrack/applytrack/metrics"
)

// TopOffersLimit caps the offers listed by SalaryReport.
const TopOffersLimit = 10

// SalaryReport groups salary aggregates with the best offers received.
type SalaryReport struct {
	Summaries []metrics.SalarySummary `json:"summaries"`
	TopOffers []metrics.Offer         `json:"top_offers"`
}

// Stats computes the dashboard metrics over the stored applications.
func (t *Tracker) Stats(ctx context.Context) metrics.Stats {
	apps := t.LoadApplications(ctx)
	return metrics.Compute(apps, t.now())
}

// SalaryReport computes per-currency salary aggregates.
func (t *Tracker) SalaryReport(ctx context.Context) SalaryReport {
	apps := t.LoadApplications(ctx)
	return SalaryReport{
		Summaries: metrics.SalarySummaries(apps),
		TopOffers: metrics.TopOffers(apps, TopOffersLimit),
	}
}
