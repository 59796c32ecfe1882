// Package enrich joins the normalized input tables into the single enriched
// referral table the rule engine and report formatter consume.
package enrich

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/referral-audit/internal/domain/localtime"
	"github.com/FACorreiaa/referral-audit/internal/domain/normalizer"
	"github.com/FACorreiaa/referral-audit/internal/domain/referral"
)

// Assembler performs the left joins of referrals against users,
// transactions, rewards and statuses. Each join preserves the referral row
// count: lookup tables are deduplicated by join key before joining, and a
// missing match leaves the attached fields at their missing defaults.
type Assembler struct {
	logger     *slog.Logger
	classifier *normalizer.SourceClassifier
}

// NewAssembler creates an assembler.
func NewAssembler(logger *slog.Logger) *Assembler {
	return &Assembler{
		logger:     logger,
		classifier: normalizer.NewSourceClassifier(),
	}
}

// Assemble builds one EnrichedReferral per input referral, in input order.
// Any of the lookup slices may be nil when its stage was skipped upstream;
// the affected fields then stay at their defaults.
func (a *Assembler) Assemble(
	referrals []referral.ReferralRecord,
	users []referral.UserRecord,
	transactions []referral.TransactionRecord,
	rewards []referral.RewardRecord,
	statuses []referral.StatusRecord,
) []referral.EnrichedReferral {
	userByID := indexUsers(users)
	txByID := indexTransactions(transactions)
	rewardByReferral := indexRewards(rewards)
	statusByID := indexStatuses(statuses)

	resolver := newResolverFromUsers(users)

	enriched := make([]referral.EnrichedReferral, 0, len(referrals))
	for _, ref := range referrals {
		e := referral.EnrichedReferral{
			ReferralRecord: ref,
			RewardValue:    decimal.Zero,
		}

		e.Source = normalizer.TitleCase(ref.Source)
		e.RefereeName = normalizer.TitleCase(ref.RefereeName)
		e.SourceCategory = a.classifier.Classify(ref.Source)

		if u, ok := userByID[ref.ReferrerID]; ok {
			e.ReferrerTimezone = u.Timezone
			e.ReferrerExpiry = u.MembershipExpiry
			e.ReferrerDeleted = u.IsDeleted
			e.ReferrerName = normalizer.TitleCase(u.Name)
			e.ReferrerPhone = u.PhoneNumber
			e.ReferrerHomeClub = u.HomeClub
		}
		if u, ok := userByID[ref.RefereeID]; ok {
			e.RefereeTimezone = u.Timezone
		}

		e.FinalTimezone = resolver.Resolve(ref.ReferrerID, ref.RefereeID)
		e.ReferralAtLocal = localtime.ToLocal(ref.ReferralAt, e.FinalTimezone)

		if tx, ok := txByID[ref.TransactionID]; ok {
			e.TransactionStatus = tx.Status
			e.TransactionType = tx.Type
			e.TransactionAtLocal = localtime.ToLocal(tx.TransactionAt, e.FinalTimezone)
		}

		if rw, ok := rewardByReferral[ref.ReferralID]; ok {
			e.RewardValue = rw.Value
			e.RewardGranted = rw.Granted
		}

		if st, ok := statusByID[ref.StatusID]; ok {
			e.StatusName = st.Name
		}

		enriched = append(enriched, e)
	}

	a.logger.Info("assembled enriched referrals",
		"referrals", len(referrals),
		"users", len(userByID),
		"transactions", len(txByID),
		"rewards", len(rewardByReferral),
		"statuses", len(statusByID),
	)
	return enriched
}

// indexUsers keys users by id, dropping missing ids. First occurrence wins.
func indexUsers(users []referral.UserRecord) map[string]referral.UserRecord {
	m := make(map[string]referral.UserRecord, len(users))
	for _, u := range users {
		if normalizer.IsMissing(u.UserID) {
			continue
		}
		if _, exists := m[u.UserID]; !exists {
			m[u.UserID] = u
		}
	}
	return m
}

func indexTransactions(txs []referral.TransactionRecord) map[string]referral.TransactionRecord {
	m := make(map[string]referral.TransactionRecord, len(txs))
	for _, tx := range txs {
		if normalizer.IsMissing(tx.TransactionID) {
			continue
		}
		if _, exists := m[tx.TransactionID]; !exists {
			m[tx.TransactionID] = tx
		}
	}
	return m
}

// indexRewards deduplicates reward rows by referral id so the later join can
// never multiply referral rows.
func indexRewards(rewards []referral.RewardRecord) map[string]referral.RewardRecord {
	m := make(map[string]referral.RewardRecord, len(rewards))
	for _, rw := range rewards {
		if normalizer.IsMissing(rw.ReferralID) {
			continue
		}
		if _, exists := m[rw.ReferralID]; !exists {
			m[rw.ReferralID] = rw
		}
	}
	return m
}

func indexStatuses(statuses []referral.StatusRecord) map[string]referral.StatusRecord {
	m := make(map[string]referral.StatusRecord, len(statuses))
	for _, st := range statuses {
		if normalizer.IsMissing(st.StatusID) {
			continue
		}
		if _, exists := m[st.StatusID]; !exists {
			m[st.StatusID] = st
		}
	}
	return m
}

func newResolverFromUsers(users []referral.UserRecord) *localtime.Resolver {
	zones := make(map[string]string, len(users))
	for _, u := range users {
		if normalizer.IsMissing(u.UserID) || localtime.MissingZone(u.Timezone) {
			continue
		}
		if _, exists := zones[u.UserID]; !exists {
			zones[u.UserID] = u.Timezone
		}
	}
	return localtime.NewResolver(zones)
}
