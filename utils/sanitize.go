package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	notesPolicy = bluemonday.UGCPolicy()
	textPolicy  = bluemonday.StrictPolicy()
)

// Sanitize cleans free-form notes, keeping basic formatting markup.
func Sanitize(input string) string {
	return strings.TrimSpace(notesPolicy.Sanitize(input))
}

// SanitizeText strips every tag from short single-value fields such as company names.
func SanitizeText(input string) string {
	return strings.TrimSpace(textPolicy.Sanitize(input))
}

// HTMLSanitizer applies SanitizeText and Sanitize as a tracker text cleaner.
type HTMLSanitizer struct{}

func (HTMLSanitizer) Text(s string) string  { return SanitizeText(s) }
func (HTMLSanitizer) Notes(s string) string { return Sanitize(s) }
