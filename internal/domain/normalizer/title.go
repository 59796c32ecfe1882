package normalizer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// TitleCase normalizes free-text display values ("JOHN DOE", "user sign up")
// to title case. Identifier, timezone and club columns must not be passed
// through here; their casing is significant.
func TitleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return titleCaser.String(s)
}
