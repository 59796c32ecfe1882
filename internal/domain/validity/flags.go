// Package validity derives the audit flags for each enriched referral and
// classifies them through a prioritized decision table.
package validity

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/referral-audit/internal/domain/referral"
)

// Status description keyword families. The raw exports mix Indonesian and
// English wording for the same states.
var (
	successPattern       = regexp.MustCompile(`(?i)berhasil|success`)
	pendingFailedPattern = regexp.MustCompile(`(?i)menunggu|tidak|fail|pending`)
)

// DeriveFlags computes the decision-table inputs for one enriched referral.
// referenceDate is "today" for the membership check; tests inject a fixed
// date, the pipeline passes the run date. Missing inputs derive to false,
// except the deleted flag where absence means the account counts as active.
func DeriveFlags(e referral.EnrichedReferral, referenceDate time.Time) referral.Flags {
	f := referral.Flags{
		HasReward:         e.RewardValue.GreaterThan(decimal.Zero),
		IsSuccess:         successPattern.MatchString(e.StatusName),
		IsPendingOrFailed: pendingFailedPattern.MatchString(e.StatusName),
		HasTransaction:    e.TransactionID != "",
		IsTransactionPaid: strings.ToUpper(strings.TrimSpace(e.TransactionStatus)) == "PAID",
		IsTransactionNew:  strings.ToUpper(strings.TrimSpace(e.TransactionType)) == "NEW",
		AccountActive:     e.ReferrerDeleted == nil || !*e.ReferrerDeleted,
		RewardGranted:     e.RewardGranted,
	}

	if !e.TransactionAtLocal.IsZero() && !e.ReferralAtLocal.IsZero() {
		f.TransactionAfterReferral = !e.TransactionAtLocal.Before(e.ReferralAtLocal)
		f.SameMonth = e.TransactionAtLocal.Year() == e.ReferralAtLocal.Year() &&
			e.TransactionAtLocal.Month() == e.ReferralAtLocal.Month()
	}

	if !e.ReferrerExpiry.IsZero() {
		f.MemberActive = !e.ReferrerExpiry.Before(truncateToDay(referenceDate))
	}

	return f
}

func truncateToDay(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
}
