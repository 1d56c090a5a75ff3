package models

import (
	"strings"
	"time"
)

// Status is the single current stage of an application. The set is closed.
type Status string

const (
	StatusApplied      Status = "Applied"
	StatusInterviewing Status = "Interviewing"
	StatusRejected     Status = "Rejected"
	StatusNotSelected  Status = "Not Selected"
	StatusSelected     Status = "Selected"
)

// Statuses lists every valid status in display order.
var Statuses = []Status{
	StatusApplied,
	StatusInterviewing,
	StatusRejected,
	StatusNotSelected,
	StatusSelected,
}

// Valid reports whether s belongs to the closed status set.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// DefaultCurrency applies to salary figures recorded without a currency.
const DefaultCurrency = "INR"

// DefaultInterviewType is used when an interview is added without a type.
const DefaultInterviewType = "Phone Screen"

// Interview is a single round attached to an application.
type Interview struct {
	Date  string `json:"date"`
	Time  string `json:"time,omitempty"`
	Type  string `json:"type"`
	Notes string `json:"notes"`
}

// Application is one tracked job application. The whole collection is
// persisted as a single JSON array under the "applications" key.
type Application struct {
	ID             int64       `json:"id"`
	Company        string      `json:"company"`
	Position       string      `json:"position"`
	Status         Status      `json:"status"`
	Notes          string      `json:"notes"`
	Interviews     []Interview `json:"interviews"`
	DateApplied    string      `json:"dateApplied"`
	ExpectedSalary *float64    `json:"expectedSalary,omitempty"`
	OfferedSalary  *float64    `json:"offeredSalary,omitempty"`
	Currency       string      `json:"currency,omitempty"`
	BenefitsNotes  string      `json:"benefitsNotes,omitempty"`
	JDLink         string      `json:"jdLink,omitempty"`
}

// Expected returns the expected salary, or 0 when absent.
func (a Application) Expected() float64 {
	if a.ExpectedSalary == nil {
		return 0
	}
	return *a.ExpectedSalary
}

// Offered returns the offered salary, or 0 when absent.
func (a Application) Offered() float64 {
	if a.OfferedSalary == nil {
		return 0
	}
	return *a.OfferedSalary
}

// HasSalary reports whether either salary figure is set to a positive value.
func (a Application) HasSalary() bool {
	return a.Expected() > 0 || a.Offered() > 0
}

// CurrencyOrDefault returns the recorded currency or DefaultCurrency.
func (a Application) CurrencyOrDefault() string {
	if c := strings.TrimSpace(a.Currency); c != "" {
		return c
	}
	return DefaultCurrency
}

// AppliedAt parses DateApplied. ok is false when the value is empty or not
// a recognised ISO-8601 form.
func (a Application) AppliedAt() (time.Time, bool) {
	return ParseDate(a.DateApplied)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate accepts RFC 3339 timestamps (as produced by JavaScript's
// toISOString) and bare calendar dates.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders t the way new records are stamped.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
