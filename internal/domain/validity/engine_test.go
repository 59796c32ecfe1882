package validity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/referral-audit/internal/domain/referral"
)

// flagsFromBits expands an 11-bit mask into a Flags value, one bit per flag.
func flagsFromBits(bits int) referral.Flags {
	return referral.Flags{
		HasReward:                bits&(1<<0) != 0,
		IsSuccess:                bits&(1<<1) != 0,
		IsPendingOrFailed:        bits&(1<<2) != 0,
		HasTransaction:           bits&(1<<3) != 0,
		IsTransactionPaid:        bits&(1<<4) != 0,
		IsTransactionNew:         bits&(1<<5) != 0,
		TransactionAfterReferral: bits&(1<<6) != 0,
		SameMonth:                bits&(1<<7) != 0,
		MemberActive:             bits&(1<<8) != 0,
		AccountActive:            bits&(1<<9) != 0,
		RewardGranted:            bits&(1<<10) != 0,
	}
}

// referenceClassify is a straight-line transcription of the business rules,
// kept independent of the table representation under test.
func referenceClassify(f referral.Flags) bool {
	if f.HasReward && f.IsSuccess && f.HasTransaction && f.IsTransactionPaid &&
		f.IsTransactionNew && f.TransactionAfterReferral && f.SameMonth &&
		f.MemberActive && f.AccountActive && f.RewardGranted {
		return true
	}
	if f.IsPendingOrFailed && !f.HasReward {
		return true
	}
	if f.HasReward && !f.IsSuccess {
		return false
	}
	if f.HasReward && !f.HasTransaction {
		return false
	}
	if !f.HasReward && f.HasTransaction && f.IsTransactionPaid && f.TransactionAfterReferral {
		return false
	}
	if f.IsSuccess && !f.HasReward {
		return false
	}
	if f.HasTransaction && !f.TransactionAfterReferral {
		return false
	}
	return false
}

func TestEngine_Exhaustive(t *testing.T) {
	engine := NewEngine()

	for bits := 0; bits < 1<<11; bits++ {
		f := flagsFromBits(bits)
		want := referenceClassify(f)

		got := engine.Classify(f)
		assert.Equal(t, want, got, "flags %011b", bits)

		// Re-evaluation is stable.
		assert.Equal(t, got, engine.Classify(f), "flags %011b not deterministic", bits)
	}
}

func TestEngine_ExactlyOneRuleFires(t *testing.T) {
	engine := NewEngine()

	for bits := 0; bits < 1<<11; bits++ {
		f := flagsFromBits(bits)
		_, name := engine.ClassifyWithRule(f)
		assert.NotEmpty(t, name, "flags %011b resolved without a rule", bits)
	}
}

func TestEngine_Scenarios(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name     string
		flags    referral.Flags
		verdict  bool
		ruleName string
	}{
		{
			name: "perfect referral passes",
			flags: referral.Flags{
				HasReward: true, IsSuccess: true, HasTransaction: true,
				IsTransactionPaid: true, IsTransactionNew: true,
				TransactionAfterReferral: true, SameMonth: true,
				MemberActive: true, AccountActive: true, RewardGranted: true,
			},
			verdict:  true,
			ruleName: "perfect_referral",
		},
		{
			name:     "pending without reward is legitimate",
			flags:    referral.Flags{IsPendingOrFailed: true},
			verdict:  true,
			ruleName: "unrewarded_pending_or_failed",
		},
		{
			name:     "reward on a non-success status",
			flags:    referral.Flags{HasReward: true, IsPendingOrFailed: true},
			verdict:  false,
			ruleName: "reward_without_success",
		},
		{
			name:     "reward with no transaction",
			flags:    referral.Flags{HasReward: true, IsSuccess: true},
			verdict:  false,
			ruleName: "reward_without_transaction",
		},
		{
			name: "paid conversion but reward never granted",
			flags: referral.Flags{
				HasTransaction: true, IsTransactionPaid: true, TransactionAfterReferral: true,
			},
			verdict:  false,
			ruleName: "paid_conversion_without_reward",
		},
		{
			name:     "success without reward",
			flags:    referral.Flags{IsSuccess: true},
			verdict:  false,
			ruleName: "success_without_reward",
		},
		{
			name:     "transaction predates referral",
			flags:    referral.Flags{HasTransaction: true},
			verdict:  false,
			ruleName: "transaction_before_referral",
		},
		{
			name:     "nothing matches falls through to deny",
			flags:    referral.Flags{},
			verdict:  false,
			ruleName: "default_deny",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, rule := engine.ClassifyWithRule(tt.flags)
			assert.Equal(t, tt.verdict, verdict)
			assert.Equal(t, tt.ruleName, rule)
		})
	}
}
