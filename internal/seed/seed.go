package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Simplici0/partnerdesk/internal/pricing"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run mirrors the tier catalog into the tiers table in an idempotent way.
// Missing tiers are inserted and tiers whose stored values drifted from the
// catalog are updated. Tiers absent from the catalog are left in place since
// partners may still reference them.
func Run(ctx context.Context, db *sql.DB, catalog *pricing.Catalog) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	now := time.Now().UTC().Truncate(time.Second)

	for _, tier := range catalog.Tiers() {
		if err := ensureTier(ctx, tx, tier, now, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

type tierRow struct {
	name               string
	fixedPayment       string
	sptCost            string
	maxProductRequests int
	trialPeriodDays    int
}

func rowFor(tier pricing.Tier) tierRow {
	return tierRow{
		name:               tier.Name,
		fixedPayment:       tier.FixedPayment.String(),
		sptCost:            tier.SPTCost.String(),
		maxProductRequests: tier.MaxProductRequests,
		trialPeriodDays:    tier.TrialPeriodDays,
	}
}

func ensureTier(ctx context.Context, tx *sql.Tx, tier pricing.Tier, now time.Time, stats *Stats) error {
	want := rowFor(tier)

	var have tierRow
	err := tx.QueryRowContext(ctx, `
		SELECT name, fixed_payment, spt_cost, max_product_requests, trial_period_days
		FROM tiers
		WHERE id = ?
	`, tier.ID).Scan(&have.name, &have.fixedPayment, &have.sptCost, &have.maxProductRequests, &have.trialPeriodDays)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tiers (id, name, fixed_payment, spt_cost, max_product_requests, trial_period_days, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, tier.ID, want.name, want.fixedPayment, want.sptCost, want.maxProductRequests, want.trialPeriodDays, now); err != nil {
			return fmt.Errorf("insert tier %s: %w", tier.ID, err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("check tier %s existence: %w", tier.ID, err)
	}

	if have == want {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE tiers
		SET name = ?, fixed_payment = ?, spt_cost = ?, max_product_requests = ?, trial_period_days = ?, updated_at = ?
		WHERE id = ?
	`, want.name, want.fixedPayment, want.sptCost, want.maxProductRequests, want.trialPeriodDays, now, tier.ID); err != nil {
		return fmt.Errorf("update tier %s: %w", tier.ID, err)
	}
	stats.Updates++
	return nil
}
