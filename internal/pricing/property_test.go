package pricing

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

var tierIDs = []interface{}{"basic", "professional", "professional_plus", "enterprise"}

func TestCalculateIsDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	calc := NewCalculator(DefaultCatalog())

	properties.Property("same inputs yield the same result", prop.ForAll(
		func(tierID string, sales, cost, qty int64) bool {
			in := Input{
				TierID:    tierID,
				Sales:     decimal.NewFromInt(sales),
				CostPrice: decimal.NewFromInt(cost),
				Quantity:  qty,
			}
			first, err1 := calc.Calculate(in)
			second, err2 := calc.Calculate(in)
			if err1 != nil || err2 != nil {
				return false
			}
			return first.Totals.TotalFee.Equal(second.Totals.TotalFee) &&
				first.Totals.PartnerProfit.Equal(second.Totals.PartnerProfit) &&
				first.Breakdown.NetProfit.Equal(second.Breakdown.NetProfit) &&
				first.Breakdown.CommissionRate.Equal(second.Breakdown.CommissionRate)
		},
		gen.OneConstOf(tierIDs...),
		gen.Int64Range(-1_000_000_000, 1_000_000_000),
		gen.Int64Range(0, 1_000_000_000),
		gen.Int64Range(0, 10_000),
	))

	properties.TestingRun(t)
}

func TestResolveCommissionCoversEveryValue(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)
	catalog := DefaultCatalog()

	properties.Property("exactly one bracket range holds the net profit", prop.ForAll(
		func(tierID string, netProfit int64) bool {
			tier, err := catalog.Tier(tierID)
			if err != nil {
				return false
			}
			value := decimal.NewFromInt(netProfit)

			matched := -1
			count := 0
			for j, b := range tier.CommissionTiers {
				aboveLower := j == 0 || value.GreaterThan(*tier.CommissionTiers[j-1].UpTo)
				if aboveLower && b.Covers(value) {
					matched = j
					count++
				}
			}
			return count == 1 && ResolveCommission(value, tier).BracketIndex == matched
		},
		gen.OneConstOf(tierIDs...),
		gen.Int64Range(-500_000_000, 500_000_000),
	))

	properties.TestingRun(t)
}

func TestAggregateFeeBalances(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)
	catalog := DefaultCatalog()

	properties.Property("total fee minus commission is the fixed payment", prop.ForAll(
		func(tierID string, netProfit int64) bool {
			tier, _ := catalog.Tier(tierID)
			value := decimal.NewFromInt(netProfit)
			commission := ResolveCommission(value, tier)
			fee := AggregateFee(tier, value, commission)

			return fee.TotalFee.Sub(commission.Amount).Equal(tier.FixedPayment) &&
				fee.PartnerProfit.Add(fee.TotalFee).Equal(value)
		},
		gen.OneConstOf(tierIDs...),
		gen.Int64Range(-500_000_000, 500_000_000),
	))

	properties.TestingRun(t)
}
