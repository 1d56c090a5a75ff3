package metrics

import (
	"sort"

	"github.com/applytrack/applytrack/models"
)

// SalarySummary aggregates salary figures recorded in one currency.
type SalarySummary struct {
	Currency       string  `json:"currency"`
	AvgExpected    float64 `json:"avg_expected"`
	AvgOffered     float64 `json:"avg_offered"`
	ImprovementPct int     `json:"improvement_pct"`
	TotalOffers    int     `json:"total_offers"`
	HighestOffer   float64 `json:"highest_offer"`
}

// Offer is one bar of the top-offers chart.
type Offer struct {
	ID       int64   `json:"id"`
	Label    string  `json:"label"`
	Company  string  `json:"company"`
	Position string  `json:"position"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

const offerLabelLen = 12

// SalarySummaries partitions records carrying salary data by currency, in
// order of first appearance. Averages are taken over the records holding
// the respective figure; empty subsets report 0.
func SalarySummaries(apps []models.Application) []SalarySummary {
	type acc struct {
		expSum, offSum float64
		expN, offN     int
		highest        float64
	}
	var order []string
	groups := map[string]*acc{}

	for _, a := range apps {
		if !a.HasSalary() {
			continue
		}
		cur := a.CurrencyOrDefault()
		g, ok := groups[cur]
		if !ok {
			g = &acc{}
			groups[cur] = g
			order = append(order, cur)
		}
		if e := a.Expected(); e > 0 {
			g.expSum += e
			g.expN++
		}
		if o := a.Offered(); o > 0 {
			g.offSum += o
			g.offN++
			if o > g.highest {
				g.highest = o
			}
		}
	}

	out := make([]SalarySummary, 0, len(order))
	for _, cur := range order {
		g := groups[cur]
		var avgExp, avgOff float64
		if g.expN > 0 {
			avgExp = g.expSum / float64(g.expN)
		}
		if g.offN > 0 {
			avgOff = g.offSum / float64(g.offN)
		}
		improvement := 0
		if avgExp > 0 {
			improvement = int(roundHalfUp(100 * (avgOff - avgExp) / avgExp))
		}
		out = append(out, SalarySummary{
			Currency:       cur,
			AvgExpected:    roundHalfUp(avgExp),
			AvgOffered:     roundHalfUp(avgOff),
			ImprovementPct: improvement,
			TotalOffers:    g.offN,
			HighestOffer:   g.highest,
		})
	}
	return out
}

// TopOffers returns up to n records with an offered salary, highest first.
func TopOffers(apps []models.Application, n int) []Offer {
	var offers []Offer
	for _, a := range apps {
		if a.Offered() <= 0 || a.Company == "" {
			continue
		}
		offers = append(offers, Offer{
			ID:       a.ID,
			Label:    truncate(a.Company, offerLabelLen),
			Company:  a.Company,
			Position: a.Position,
			Amount:   a.Offered(),
			Currency: a.CurrencyOrDefault(),
		})
	}
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Amount > offers[j].Amount
	})
	if n >= 0 && len(offers) > n {
		offers = offers[:n]
	}
	return offers
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
