package normalizer

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// Source categories assigned by the classifier.
const (
	CategoryOnline  = "Online"
	CategoryOffline = "Offline"
	CategoryOther   = "Other"
)

var (
	onlineKeywords  = []string{"user sign up", "app", "web", "online"}
	offlineKeywords = []string{"draft transaction", "lead", "walk"}
)

// SourceClassifier buckets free-text referral sources into Online, Offline or
// Other by keyword substring matching. Matching is case-insensitive. Online
// keywords are checked first, so a source containing keywords from both sets
// classifies as Online.
type SourceClassifier struct {
	online  *ahocorasick.Matcher
	offline *ahocorasick.Matcher
}

// NewSourceClassifier builds the keyword matchers once; the classifier is
// safe for reuse across rows.
func NewSourceClassifier() *SourceClassifier {
	return &SourceClassifier{
		online:  ahocorasick.NewStringMatcher(onlineKeywords),
		offline: ahocorasick.NewStringMatcher(offlineKeywords),
	}
}

// Classify returns the category for a raw source string. Unrecognized or
// empty sources fall through to Other.
func (c *SourceClassifier) Classify(source string) string {
	s := strings.ToLower(source)
	if c.online.Contains([]byte(s)) {
		return CategoryOnline
	}
	if c.offline.Contains([]byte(s)) {
		return CategoryOffline
	}
	return CategoryOther
}
