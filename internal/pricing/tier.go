package pricing

import "github.com/shopspring/decimal"

// UnlimitedRequests is the MaxProductRequests value for tiers without a quota.
const UnlimitedRequests = -1

// Bracket is one commission step. A nil UpTo is the unbounded final bracket.
type Bracket struct {
	UpTo *decimal.Decimal
	Rate decimal.Decimal
}

// UpTo returns a bracket covering net profit values up to and including threshold.
func UpTo(threshold, rate decimal.Decimal) Bracket {
	return Bracket{UpTo: &threshold, Rate: rate}
}

// Above returns the unbounded final bracket.
func Above(rate decimal.Decimal) Bracket {
	return Bracket{Rate: rate}
}

// Unbounded reports whether the bracket has no upper threshold.
func (b Bracket) Unbounded() bool {
	return b.UpTo == nil
}

// Covers reports whether netProfit falls at or below the bracket threshold.
func (b Bracket) Covers(netProfit decimal.Decimal) bool {
	return b.UpTo == nil || netProfit.LessThanOrEqual(*b.UpTo)
}

func (b Bracket) clone() Bracket {
	if b.UpTo == nil {
		return Bracket{Rate: b.Rate}
	}
	upTo := *b.UpTo
	return Bracket{UpTo: &upTo, Rate: b.Rate}
}

// Tier is a named service plan with its fee schedule and entitlements.
type Tier struct {
	ID                 string
	Name               string
	FixedPayment       decimal.Decimal
	SPTCost            decimal.Decimal
	CommissionTiers    []Bracket
	MaxProductRequests int
	TrialPeriodDays    int
}

// Unlimited reports whether the tier has no product request quota.
func (t Tier) Unlimited() bool {
	return t.MaxProductRequests == UnlimitedRequests
}

// AllowsProductRequest reports whether a partner that already used `used`
// requests may submit one more.
func (t Tier) AllowsProductRequest(used int) bool {
	if t.Unlimited() {
		return true
	}
	return used < t.MaxProductRequests
}

func (t Tier) clone() Tier {
	brackets := make([]Bracket, len(t.CommissionTiers))
	for i, b := range t.CommissionTiers {
		brackets[i] = b.clone()
	}
	t.CommissionTiers = brackets
	return t
}

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// DefaultTiers returns the built-in tier table. Amounts are in UZS.
func DefaultTiers() []Tier {
	return []Tier{
		{
			ID:           "basic",
			Name:         "Basic",
			FixedPayment: d(0),
			SPTCost:      d(2_000),
			CommissionTiers: []Bracket{
				UpTo(d(5_000_000), d(45)),
				UpTo(d(15_000_000), d(40)),
				UpTo(d(30_000_000), d(35)),
				Above(d(30)),
			},
			MaxProductRequests: 5,
			TrialPeriodDays:    14,
		},
		{
			ID:           "professional",
			Name:         "Professional",
			FixedPayment: d(3_000_000),
			SPTCost:      d(1_500),
			CommissionTiers: []Bracket{
				UpTo(d(10_000_000), d(35)),
				UpTo(d(30_000_000), d(30)),
				Above(d(25)),
			},
			MaxProductRequests: 25,
			TrialPeriodDays:    14,
		},
		{
			ID:           "professional_plus",
			Name:         "Professional Plus",
			FixedPayment: d(5_000_000),
			SPTCost:      d(1_200),
			CommissionTiers: []Bracket{
				UpTo(d(20_000_000), d(30)),
				UpTo(d(50_000_000), d(25)),
				Above(d(20)),
			},
			MaxProductRequests: 100,
			TrialPeriodDays:    30,
		},
		{
			ID:           "enterprise",
			Name:         "Enterprise",
			FixedPayment: d(10_000_000),
			SPTCost:      d(1_000),
			CommissionTiers: []Bracket{
				UpTo(d(50_000_000), d(25)),
				UpTo(d(100_000_000), d(20)),
				Above(d(15)),
			},
			MaxProductRequests: UnlimitedRequests,
			TrialPeriodDays:    30,
		},
	}
}
