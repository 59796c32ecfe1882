// Package referral defines the canonical in-memory records shared by the
// pipeline stages: normalized input rows, the enriched join product, and the
// derived audit flags.
package referral

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserRecord is a normalized row from the user log export.
// Identifier fields are already canonicalized; an empty string means missing.
type UserRecord struct {
	UserID           string
	Timezone         string    // IANA zone name, "" when absent
	MembershipExpiry time.Time // zero when absent
	IsDeleted        *bool     // nil when the column or value is absent
	Name             string
	PhoneNumber      string
	HomeClub         string
}

// ReferralRecord is a normalized row from the referral export.
type ReferralRecord struct {
	RowID         string // export's own row id, "" when absent
	ReferralID    string
	ReferrerID    string
	RefereeID     string
	Source        string
	ReferralAt    time.Time // UTC instant, zero when absent
	TransactionID string
	StatusID      string
	RefereeName   string
	RefereePhone  string
}

// TransactionRecord is a normalized row from the paid transactions export.
type TransactionRecord struct {
	TransactionID string
	Status        string
	Type          string
	TransactionAt time.Time // UTC instant, zero when absent
}

// RewardRecord is a normalized row from the referral rewards export.
// Value defaults to zero when the source column is absent or unparseable.
type RewardRecord struct {
	ReferralID string
	Value      decimal.Decimal
	Granted    bool
}

// StatusRecord maps a referral status id to its human-readable description.
type StatusRecord struct {
	StatusID string
	Name     string
}

// EnrichedReferral is the single-table join product the rule engine and the
// report formatter consume. Local timestamps are naive wall-clock values
// carried in UTC; a zero time means the conversion input was missing.
type EnrichedReferral struct {
	ReferralRecord

	SourceCategory string

	ReferrerTimezone string
	ReferrerExpiry   time.Time
	ReferrerDeleted  *bool
	ReferrerName     string
	ReferrerPhone    string
	ReferrerHomeClub string

	RefereeTimezone string

	FinalTimezone      string
	ReferralAtLocal    time.Time
	TransactionAtLocal time.Time

	TransactionStatus string
	TransactionType   string

	StatusName    string
	RewardValue   decimal.Decimal
	RewardGranted bool

	Valid bool
}

// Flags are the derived booleans the validity decision table evaluates.
// Missing inputs derive to false unless documented otherwise.
type Flags struct {
	HasReward                bool
	IsSuccess                bool
	IsPendingOrFailed        bool
	HasTransaction           bool
	IsTransactionPaid        bool
	IsTransactionNew         bool
	TransactionAfterReferral bool
	SameMonth                bool
	MemberActive             bool
	AccountActive            bool
	RewardGranted            bool
}
