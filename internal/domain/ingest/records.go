package ingest

// Raw CSV row shapes for the five input exports. Every field is read as a
// string; parsing into typed records is a separate lenient step so a bad
// value never aborts a file load. gocsv matches columns by header name after
// normalization (trimmed, lower-cased), so padded headers in the raw exports
// still bind.

// UserRow is a raw row of user_logs.csv.
type UserRow struct {
	UserID                string `csv:"user_id"`
	UserName              string `csv:"user_name"`
	PhoneNumber           string `csv:"phone_number"`
	HomeClub              string `csv:"home_club"`
	TimezoneHomeclub      string `csv:"timezone_homeclub"`
	MembershipExpiredDate string `csv:"membership_expired_date"`
	IsDeleted             string `csv:"is_deleted"`
}

// ReferralRow is a raw row of the user referral export.
type ReferralRow struct {
	ID             string `csv:"id"`
	ReferralID     string `csv:"referral_id"`
	ReferrerID     string `csv:"referrer_id"`
	RefereeID      string `csv:"referee_id"`
	RefereeName    string `csv:"referee_name"`
	RefereePhone   string `csv:"referee_phone"`
	ReferralSource string `csv:"referral_source"`
	ReferralAt     string `csv:"referral_at"`
	TransactionID  string `csv:"transaction_id"`
	StatusID       string `csv:"user_referral_status_id"`
}

// TransactionRow is a raw row of paid_transactions.csv.
type TransactionRow struct {
	TransactionID     string `csv:"transaction_id"`
	TransactionStatus string `csv:"transaction_status"`
	TransactionType   string `csv:"transaction_type"`
	TransactionAt     string `csv:"transaction_at"`
}

// StatusRow is a raw row of user_referral_statuses.csv.
type StatusRow struct {
	ID          string `csv:"id"`
	Description string `csv:"description"`
}

// RewardRow is a raw row of referral_rewards.csv.
type RewardRow struct {
	UserReferralID  string `csv:"user_referral_id"`
	RewardValue     string `csv:"reward_value"`
	IsRewardGranted string `csv:"is_reward_granted"`
}
