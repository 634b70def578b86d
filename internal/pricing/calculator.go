package pricing

import "github.com/shopspring/decimal"

// taxRate is the flat tax applied to profit before tax. It is a policy
// constant shared by every tier.
var taxRate = decimal.New(3, -2)

// TaxRate returns the flat tax rate (0.03).
func TaxRate() decimal.Decimal {
	return taxRate
}

// Input holds the commercial figures for one calculation.
type Input struct {
	TierID    string
	Sales     decimal.Decimal
	CostPrice decimal.Decimal
	Quantity  int64
}

// Profit is the output of DeriveNetProfit.
type Profit struct {
	PackagingCost decimal.Decimal
	BeforeTax     decimal.Decimal
	Tax           decimal.Decimal
	NetProfit     decimal.Decimal
}

// CommissionResult is the bracket matched for a net profit value.
type CommissionResult struct {
	BracketIndex int
	Rate         decimal.Decimal
	Amount       decimal.Decimal
}

// FeeResult combines the fixed payment and commission.
type FeeResult struct {
	FixedPayment  decimal.Decimal
	TotalFee      decimal.Decimal
	PartnerProfit decimal.Decimal
}

// Breakdown contains every intermediate value of the calculation.
type Breakdown struct {
	PackagingCost    decimal.Decimal
	BeforeTax        decimal.Decimal
	Tax              decimal.Decimal
	NetProfit        decimal.Decimal
	CommissionRate   decimal.Decimal
	CommissionAmount decimal.Decimal
	FixedPayment     decimal.Decimal
}

// Totals contains the roll-up values.
type Totals struct {
	TotalFee      decimal.Decimal
	PartnerProfit decimal.Decimal
}

// Result groups the full output of Calculator.Calculate.
type Result struct {
	TierID    string
	Breakdown Breakdown
	Totals    Totals
}

// DeriveNetProfit computes net profit after packaging cost and tax.
// Loss-making inputs produce a negative net profit; nothing is clamped.
func DeriveNetProfit(sales, costPrice decimal.Decimal, unitCount int64, tier Tier) Profit {
	packagingCost := tier.SPTCost.Mul(decimal.NewFromInt(unitCount))
	beforeTax := sales.Sub(costPrice).Sub(packagingCost)
	tax := beforeTax.Mul(taxRate)

	return Profit{
		PackagingCost: packagingCost,
		BeforeTax:     beforeTax,
		Tax:           tax,
		NetProfit:     beforeTax.Sub(tax),
	}
}

// ResolveCommission applies the rate of the first bracket whose threshold is
// at or above netProfit to the whole net profit. This is a cliff schedule, not
// a marginal one: crossing a threshold re-prices the entire amount.
//
// A validated tier always ends with an unbounded bracket. A tier that bypassed
// NewCatalog and has no covering bracket resolves to BracketIndex -1 and zero.
func ResolveCommission(netProfit decimal.Decimal, tier Tier) CommissionResult {
	for i, b := range tier.CommissionTiers {
		if b.Covers(netProfit) {
			return CommissionResult{
				BracketIndex: i,
				Rate:         b.Rate,
				Amount:       netProfit.Mul(b.Rate).Div(hundred),
			}
		}
	}
	return CommissionResult{BracketIndex: -1, Rate: decimal.Zero, Amount: decimal.Zero}
}

// AggregateFee adds the tier's fixed payment to the commission and derives the
// partner's take-home profit.
func AggregateFee(tier Tier, netProfit decimal.Decimal, commission CommissionResult) FeeResult {
	total := tier.FixedPayment.Add(commission.Amount)
	return FeeResult{
		FixedPayment:  tier.FixedPayment,
		TotalFee:      total,
		PartnerProfit: netProfit.Sub(total),
	}
}

// Calculator runs the fee pipeline against an injected catalog.
type Calculator struct {
	catalog *Catalog
}

// NewCalculator returns a Calculator backed by catalog.
func NewCalculator(catalog *Catalog) *Calculator {
	return &Calculator{catalog: catalog}
}

// Catalog returns the catalog the calculator resolves tiers from.
func (c *Calculator) Catalog() *Catalog {
	return c.catalog
}

// Calculate looks up the tier and runs net profit, commission and fee
// aggregation. The only failure is an unknown tier.
func (c *Calculator) Calculate(in Input) (Result, error) {
	tier, err := c.catalog.Tier(in.TierID)
	if err != nil {
		return Result{}, err
	}
	return CalculateForTier(tier, in.Sales, in.CostPrice, in.Quantity), nil
}

// CalculateForTier runs the pipeline for an already resolved tier.
func CalculateForTier(tier Tier, sales, costPrice decimal.Decimal, quantity int64) Result {
	profit := DeriveNetProfit(sales, costPrice, quantity, tier)
	commission := ResolveCommission(profit.NetProfit, tier)
	fee := AggregateFee(tier, profit.NetProfit, commission)

	return Result{
		TierID: tier.ID,
		Breakdown: Breakdown{
			PackagingCost:    profit.PackagingCost,
			BeforeTax:        profit.BeforeTax,
			Tax:              profit.Tax,
			NetProfit:        profit.NetProfit,
			CommissionRate:   commission.Rate,
			CommissionAmount: commission.Amount,
			FixedPayment:     fee.FixedPayment,
		},
		Totals: Totals{
			TotalFee:      fee.TotalFee,
			PartnerProfit: fee.PartnerProfit,
		},
	}
}
