// Package normalizer provides identifier canonicalization, display-text
// cleanup, and referral source classification for raw CSV values.
package normalizer

import "strings"

// CleanID canonicalizes a raw identifier value. Missing values and the
// literal placeholders "nan"/"null" (case-insensitive) become the empty
// string. Trailing ".0" suffixes left over from float coercion of integer
// ids are stripped. CleanID is idempotent.
func CleanID(raw string) string {
	s := strings.TrimSpace(raw)
	// Repeated floats never occur in practice, but stripping in a loop keeps
	// the function idempotent for pathological input.
	for strings.HasSuffix(s, ".0") {
		s = strings.TrimSuffix(s, ".0")
	}
	// The placeholder check runs after suffix stripping so inputs like
	// "nan.0" cannot reintroduce a literal placeholder into the output.
	switch strings.ToLower(s) {
	case "nan", "null":
		return ""
	}
	return s
}

// IsMissing reports whether a normalized identifier is the missing marker.
func IsMissing(id string) bool {
	return id == ""
}
