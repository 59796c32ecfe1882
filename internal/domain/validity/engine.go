package validity

import "github.com/FACorreiaa/referral-audit/internal/domain/referral"

// Rule is one entry of the decision table: when Match fires, Verdict is the
// final answer for the row.
type Rule struct {
	Name    string
	Match   func(referral.Flags) bool
	Verdict bool
}

// Engine evaluates the referral validity decision table. Rules are ordered;
// the first match wins and the final rule always matches, so every row
// resolves to exactly one verdict. The engine holds no per-row state.
//
// The rule order is load-bearing: several invalid rules overlap in coverage
// and reordering them changes verdicts for edge-case flag combinations.
type Engine struct {
	rules []Rule
}

// NewEngine builds the engine with the fixed business rules.
func NewEngine() *Engine {
	return &Engine{rules: []Rule{
		{
			Name: "perfect_referral",
			Match: func(f referral.Flags) bool {
				return f.HasReward && f.IsSuccess && f.HasTransaction &&
					f.IsTransactionPaid && f.IsTransactionNew &&
					f.TransactionAfterReferral && f.SameMonth &&
					f.MemberActive && f.AccountActive && f.RewardGranted
			},
			Verdict: true,
		},
		{
			Name: "unrewarded_pending_or_failed",
			Match: func(f referral.Flags) bool {
				return f.IsPendingOrFailed && !f.HasReward
			},
			Verdict: true,
		},
		{
			Name: "reward_without_success",
			Match: func(f referral.Flags) bool {
				return f.HasReward && !f.IsSuccess
			},
			Verdict: false,
		},
		{
			Name: "reward_without_transaction",
			Match: func(f referral.Flags) bool {
				return f.HasReward && !f.HasTransaction
			},
			Verdict: false,
		},
		{
			Name: "paid_conversion_without_reward",
			Match: func(f referral.Flags) bool {
				return !f.HasReward && f.HasTransaction &&
					f.IsTransactionPaid && f.TransactionAfterReferral
			},
			Verdict: false,
		},
		{
			Name: "success_without_reward",
			Match: func(f referral.Flags) bool {
				return f.IsSuccess && !f.HasReward
			},
			Verdict: false,
		},
		{
			Name: "transaction_before_referral",
			Match: func(f referral.Flags) bool {
				return f.HasTransaction && !f.TransactionAfterReferral
			},
			Verdict: false,
		},
		{
			Name:    "default_deny",
			Match:   func(referral.Flags) bool { return true },
			Verdict: false,
		},
	}}
}

// Classify returns the verdict for one row's flags.
func (e *Engine) Classify(f referral.Flags) bool {
	verdict, _ := e.ClassifyWithRule(f)
	return verdict
}

// ClassifyWithRule returns the verdict together with the name of the rule
// that fired, for audit logging.
func (e *Engine) ClassifyWithRule(f referral.Flags) (bool, string) {
	for _, rule := range e.rules {
		if rule.Match(f) {
			return rule.Verdict, rule.Name
		}
	}
	// Unreachable: default_deny always matches.
	return false, "default_deny"
}
