// Package localtime resolves member timezones and converts UTC instants to
// naive local wall-clock timestamps.
//
// Naive timestamps are represented as time.Time values in the UTC location
// whose clock fields carry the local reading. Callers compare and format
// them without further zone conversion; a zero time means missing.
package localtime

import (
	"strings"
	"time"
)

// Resolver maps canonical user ids to IANA timezone names.
type Resolver struct {
	zones map[string]string
}

// NewResolver builds a resolver from a user-id to timezone mapping. Entries
// with an empty id or a missing zone (empty or the "nan"/"null" placeholders)
// are ignored, so placeholder cells never shadow the referee fallback.
func NewResolver(zones map[string]string) *Resolver {
	m := make(map[string]string, len(zones))
	for id, tz := range zones {
		if id == "" || MissingZone(tz) {
			continue
		}
		m[id] = tz
	}
	return &Resolver{zones: m}
}

// MissingZone reports whether a raw timezone value is the missing marker or
// one of the placeholder strings the exports use for it.
func MissingZone(tz string) bool {
	return tz == "" || strings.EqualFold(tz, "nan") || strings.EqualFold(tz, "null")
}

// Resolve returns the timezone for a referral: the referrer's zone when
// known, otherwise the referee's, otherwise "".
func (r *Resolver) Resolve(referrerID, refereeID string) string {
	if tz, ok := r.zones[referrerID]; ok {
		return tz
	}
	if tz, ok := r.zones[refereeID]; ok {
		return tz
	}
	return ""
}

// ToLocal converts a UTC instant to a naive local timestamp in the named
// zone. Missing inputs (zero time, empty or placeholder zone) yield the
// zero time. An unrecognized zone name degrades to the original instant with
// its zone annotation stripped; callers relying on exact local readings must
// treat that as best-effort.
func ToLocal(ts time.Time, tz string) time.Time {
	if ts.IsZero() || MissingZone(tz) {
		return time.Time{}
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return stripZone(ts)
	}
	return stripZone(ts.In(loc))
}

// stripZone rebuilds the wall-clock reading of ts as a naive timestamp.
func stripZone(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, ts.Hour(), ts.Minute(), ts.Second(), ts.Nanosecond(), time.UTC)
}

// Timestamp layouts seen across the raw exports.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a raw timestamp string into a UTC instant. Layouts
// without zone information are treated as UTC. Unparseable or empty input
// yields the zero time rather than an error; row-level load diagnostics are
// the caller's concern.
func ParseTimestamp(raw string) time.Time {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

// FormatNaive renders a naive timestamp for CSV output, or "" when missing.
func FormatNaive(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("2006-01-02 15:04:05")
}
