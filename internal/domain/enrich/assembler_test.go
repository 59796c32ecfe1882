package enrich

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/referral-audit/internal/domain/referral"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func boolPtr(v bool) *bool { return &v }

func TestAssembler_JoinsAndTimezoneFallback(t *testing.T) {
	users := []referral.UserRecord{
		{
			UserID:           "u-referrer",
			Timezone:         "Asia/Jakarta",
			MembershipExpiry: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			IsDeleted:        boolPtr(false),
			Name:             "JOHN DOE",
			PhoneNumber:      "555-0111",
			HomeClub:         "Club South",
		},
		{UserID: "u-referee", Timezone: "Asia/Makassar"},
	}
	transactions := []referral.TransactionRecord{
		{
			TransactionID: "tx-1",
			Status:        "PAID",
			Type:          "NEW",
			TransactionAt: time.Date(2024, 1, 16, 3, 0, 0, 0, time.UTC),
		},
	}
	rewards := []referral.RewardRecord{
		{ReferralID: "r-1", Value: decimal.NewFromInt(50), Granted: true},
	}
	statuses := []referral.StatusRecord{
		{StatusID: "1", Name: "Berhasil"},
	}
	referrals := []referral.ReferralRecord{
		{
			ReferralID:    "r-1",
			ReferrerID:    "u-referrer",
			RefereeID:     "u-referee",
			Source:        "user sign up via app",
			ReferralAt:    time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			TransactionID: "tx-1",
			StatusID:      "1",
		},
		{
			ReferralID: "r-2",
			ReferrerID: "u-missing",
			RefereeID:  "u-referee",
			ReferralAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
	}

	enriched := NewAssembler(testLogger()).Assemble(referrals, users, transactions, rewards, statuses)
	require.Len(t, enriched, 2)

	first := enriched[0]
	assert.Equal(t, "Asia/Jakarta", first.FinalTimezone, "referrer timezone wins")
	assert.Equal(t, time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC), first.ReferralAtLocal)
	assert.Equal(t, time.Date(2024, 1, 16, 10, 0, 0, 0, time.UTC), first.TransactionAtLocal)
	assert.Equal(t, "John Doe", first.ReferrerName, "display names are title-cased")
	assert.Equal(t, "Club South", first.ReferrerHomeClub, "club names keep their casing")
	assert.Equal(t, "Online", first.SourceCategory)
	assert.Equal(t, "Berhasil", first.StatusName)
	assert.True(t, first.RewardValue.Equal(decimal.NewFromInt(50)))
	assert.True(t, first.RewardGranted)

	second := enriched[1]
	assert.Equal(t, "Asia/Makassar", second.FinalTimezone, "falls back to referee timezone")
	assert.Equal(t, time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC), second.ReferralAtLocal)
	assert.Nil(t, second.ReferrerDeleted, "unmatched referrer leaves fields missing")
	assert.True(t, second.RewardValue.IsZero(), "reward defaults to zero")
	assert.Equal(t, "", second.StatusName)
}

func TestAssembler_DuplicateRewardsDoNotMultiplyRows(t *testing.T) {
	referrals := []referral.ReferralRecord{
		{ReferralID: "r-1"},
		{ReferralID: "r-2"},
	}
	rewards := []referral.RewardRecord{
		{ReferralID: "r-1", Value: decimal.NewFromInt(10)},
		{ReferralID: "r-1", Value: decimal.NewFromInt(99)},
		{ReferralID: "r-1", Value: decimal.NewFromInt(7)},
	}

	enriched := NewAssembler(testLogger()).Assemble(referrals, nil, nil, rewards, nil)
	require.Len(t, enriched, 2, "joins must preserve the referral row count")
	assert.True(t, enriched[0].RewardValue.Equal(decimal.NewFromInt(10)), "first duplicate wins")
	assert.True(t, enriched[1].RewardValue.IsZero())
}

func TestAssembler_PlaceholderReferrerTimezoneFallsBackToReferee(t *testing.T) {
	users := []referral.UserRecord{
		{UserID: "u-referrer", Timezone: "nan"},
		{UserID: "u-referee", Timezone: "Asia/Jakarta"},
	}
	referrals := []referral.ReferralRecord{
		{
			ReferralID: "r-1",
			ReferrerID: "u-referrer",
			RefereeID:  "u-referee",
			ReferralAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
	}

	enriched := NewAssembler(testLogger()).Assemble(referrals, users, nil, nil, nil)
	require.Len(t, enriched, 1)
	assert.Equal(t, "Asia/Jakarta", enriched[0].FinalTimezone,
		"placeholder referrer zone must fall through to the referee zone")
	assert.Equal(t, time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC), enriched[0].ReferralAtLocal)
}

func TestAssembler_MissingTimezoneLeavesLocalTimesMissing(t *testing.T) {
	referrals := []referral.ReferralRecord{
		{
			ReferralID:    "r-1",
			ReferrerID:    "u-unknown",
			RefereeID:     "u-unknown-too",
			ReferralAt:    time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			TransactionID: "tx-1",
		},
	}
	transactions := []referral.TransactionRecord{
		{TransactionID: "tx-1", TransactionAt: time.Date(2024, 1, 16, 3, 0, 0, 0, time.UTC)},
	}

	enriched := NewAssembler(testLogger()).Assemble(referrals, nil, transactions, nil, nil)
	require.Len(t, enriched, 1)
	assert.Equal(t, "", enriched[0].FinalTimezone)
	assert.True(t, enriched[0].ReferralAtLocal.IsZero())
	assert.True(t, enriched[0].TransactionAtLocal.IsZero())
}

func TestAssembler_NilLookupTables(t *testing.T) {
	referrals := []referral.ReferralRecord{{ReferralID: "r-1", Source: "walk in lead"}}

	enriched := NewAssembler(testLogger()).Assemble(referrals, nil, nil, nil, nil)
	require.Len(t, enriched, 1)
	assert.Equal(t, "Offline", enriched[0].SourceCategory)
	assert.True(t, enriched[0].RewardValue.IsZero())
}
