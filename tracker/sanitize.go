package tracker

import (
	"strings"

	"github.com/applytrack/applytrack/models"
)

// Sanitizer cleans user-supplied text before it reaches storage. Text is for
// short single-value fields, Notes for free-form ones.
type Sanitizer interface {
	Text(s string) string
	Notes(s string) string
}

// plainText only trims; used when no Sanitizer is configured.
type plainText struct{}

func (plainText) Text(s string) string  { return strings.TrimSpace(s) }
func (plainText) Notes(s string) string { return strings.TrimSpace(s) }

func (t *Tracker) cleanApplication(a *models.Application) {
	a.Company = t.sanitizer.Text(a.Company)
	a.Position = t.sanitizer.Text(a.Position)
	a.Currency = strings.ToUpper(t.sanitizer.Text(a.Currency))
	a.Notes = t.sanitizer.Notes(a.Notes)
	a.BenefitsNotes = t.sanitizer.Notes(a.BenefitsNotes)
	a.JDLink = strings.TrimSpace(a.JDLink)
	for i := range a.Interviews {
		a.Interviews[i] = t.cleanInterview(a.Interviews[i])
	}
}

func (t *Tracker) cleanInterview(iv models.Interview) models.Interview {
	iv.Type = t.sanitizer.Text(iv.Type)
	iv.Notes = t.sanitizer.Notes(iv.Notes)
	return iv
}
