package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Catalog is an immutable set of tiers keyed by identifier.
// Changes to tier definitions ship as a new catalog, never as runtime edits.
type Catalog struct {
	order []string
	tiers map[string]Tier
}

// NewCatalog validates the given tiers and returns a catalog holding copies of them.
func NewCatalog(tiers ...Tier) (*Catalog, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: no tiers defined", ErrInvalidCatalog)
	}

	c := &Catalog{
		order: make([]string, 0, len(tiers)),
		tiers: make(map[string]Tier, len(tiers)),
	}
	for _, t := range tiers {
		id := normalizeTierID(t.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: tier id is required", ErrInvalidCatalog)
		}
		if _, dup := c.tiers[id]; dup {
			return nil, fmt.Errorf("%w: duplicate tier %q", ErrInvalidCatalog, id)
		}
		if err := validateTier(t); err != nil {
			return nil, fmt.Errorf("%w: tier %q: %v", ErrInvalidCatalog, id, err)
		}

		t = t.clone()
		t.ID = id
		c.order = append(c.order, id)
		c.tiers[id] = t
	}
	return c, nil
}

// DefaultCatalog returns a catalog of DefaultTiers.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultTiers()...)
	if err != nil {
		panic(err)
	}
	return c
}

// Tier returns the configuration for tierID or an *UnknownTierError.
func (c *Catalog) Tier(tierID string) (Tier, error) {
	t, ok := c.tiers[normalizeTierID(tierID)]
	if !ok {
		return Tier{}, &UnknownTierError{TierID: tierID}
	}
	return t.clone(), nil
}

// Has reports whether tierID names a tier in the catalog.
func (c *Catalog) Has(tierID string) bool {
	_, ok := c.tiers[normalizeTierID(tierID)]
	return ok
}

// Tiers returns every tier in catalog order.
func (c *Catalog) Tiers() []Tier {
	out := make([]Tier, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.tiers[id].clone())
	}
	return out
}

func normalizeTierID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func validateTier(t Tier) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if t.FixedPayment.IsNegative() {
		return fmt.Errorf("fixed payment must be >= 0")
	}
	if t.SPTCost.IsNegative() {
		return fmt.Errorf("spt cost must be >= 0")
	}
	if t.MaxProductRequests < UnlimitedRequests {
		return fmt.Errorf("max product requests must be -1 (unlimited) or >= 0")
	}
	if t.TrialPeriodDays < 0 {
		return fmt.Errorf("trial period must be >= 0")
	}
	if len(t.CommissionTiers) == 0 {
		return fmt.Errorf("at least one commission bracket is required")
	}

	last := len(t.CommissionTiers) - 1
	var prev *decimal.Decimal
	for i, b := range t.CommissionTiers {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(hundred) {
			return fmt.Errorf("bracket %d: rate must be between 0 and 100", i)
		}
		if b.Unbounded() {
			if i != last {
				return fmt.Errorf("bracket %d: only the last bracket may be unbounded", i)
			}
			continue
		}
		if i == last {
			return fmt.Errorf("bracket %d: last bracket must be unbounded", i)
		}
		if prev != nil && !b.UpTo.GreaterThan(*prev) {
			return fmt.Errorf("bracket %d: thresholds must be strictly increasing", i)
		}
		prev = b.UpTo
	}
	return nil
}
