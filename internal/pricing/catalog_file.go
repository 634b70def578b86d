package pricing

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Tiers []tierFile `yaml:"tiers"`
}

type tierFile struct {
	ID                 string        `yaml:"id"`
	Name               string        `yaml:"name"`
	FixedPayment       string        `yaml:"fixed_payment"`
	SPTCost            string        `yaml:"spt_cost"`
	MaxProductRequests *int          `yaml:"max_product_requests"`
	TrialPeriodDays    int           `yaml:"trial_period_days"`
	Commission         []bracketFile `yaml:"commission"`
}

// An omitted up_to marks the unbounded final bracket.
type bracketFile struct {
	UpTo *string `yaml:"up_to"`
	Rate string  `yaml:"rate"`
}

// LoadCatalogFile reads a YAML tier catalog. An empty path yields DefaultCatalog.
func LoadCatalogFile(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tier catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML tier catalog and validates it with NewCatalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse tier catalog: %w", err)
	}

	tiers := make([]Tier, 0, len(file.Tiers))
	for _, tf := range file.Tiers {
		t, err := tf.toTier()
		if err != nil {
			return nil, fmt.Errorf("%w: tier %q: %v", ErrInvalidCatalog, tf.ID, err)
		}
		tiers = append(tiers, t)
	}
	return NewCatalog(tiers...)
}

func (tf tierFile) toTier() (Tier, error) {
	if tf.MaxProductRequests == nil {
		return Tier{}, fmt.Errorf("max_product_requests is required (use %d for unlimited)", UnlimitedRequests)
	}
	fixed, err := parseAmount(tf.FixedPayment, "fixed_payment")
	if err != nil {
		return Tier{}, err
	}
	spt, err := parseAmount(tf.SPTCost, "spt_cost")
	if err != nil {
		return Tier{}, err
	}

	brackets := make([]Bracket, 0, len(tf.Commission))
	for i, bf := range tf.Commission {
		rate, err := decimal.NewFromString(bf.Rate)
		if err != nil {
			return Tier{}, fmt.Errorf("commission[%d].rate: %v", i, err)
		}
		if bf.UpTo == nil {
			brackets = append(brackets, Above(rate))
			continue
		}
		upTo, err := decimal.NewFromString(*bf.UpTo)
		if err != nil {
			return Tier{}, fmt.Errorf("commission[%d].up_to: %v", i, err)
		}
		brackets = append(brackets, UpTo(upTo, rate))
	}

	return Tier{
		ID:                 tf.ID,
		Name:               tf.Name,
		FixedPayment:       fixed,
		SPTCost:            spt,
		CommissionTiers:    brackets,
		MaxProductRequests: *tf.MaxProductRequests,
		TrialPeriodDays:    tf.TrialPeriodDays,
	}, nil
}

func parseAmount(raw, field string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %v", field, err)
	}
	return v, nil
}
