package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Simplici0/partnerdesk/internal/partner"
)

// PartnerFilter narrows ListPartners. Zero values match everything.
type PartnerFilter struct {
	Status partner.Status
	Query  string
}

const partnerColumns = `id, name, email, phone, company_name, tier_id, status, trial_ends_at, created_at, updated_at`

func scanPartner(row scanner) (partner.Partner, error) {
	var p partner.Partner
	var status string
	var trial sql.NullTime
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.CompanyName, &p.TierID, &status, &trial, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return partner.Partner{}, err
	}
	p.Status = partner.Status(status)
	p.TrialEndsAt = timePtr(trial)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

// CreatePartner inserts a partner. A duplicate email yields ErrConflict.
func (s *Store) CreatePartner(ctx context.Context, p partner.Partner) (partner.Partner, error) {
	now := s.timestamp()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO partners (name, email, phone, company_name, tier_id, status, trial_ends_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.Name, p.Email, p.Phone, p.CompanyName, p.TierID, string(p.Status), nullTime(p.TrialEndsAt), now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return partner.Partner{}, fmt.Errorf("partner email %q: %w", p.Email, ErrConflict)
		}
		return partner.Partner{}, fmt.Errorf("insert partner: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return partner.Partner{}, fmt.Errorf("read partner id: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

// GetPartner returns the partner with id.
func (s *Store) GetPartner(ctx context.Context, id int64) (partner.Partner, error) {
	return getPartner(ctx, s.db, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getPartner(ctx context.Context, q querier, id int64) (partner.Partner, error) {
	p, err := scanPartner(q.QueryRowContext(ctx, `SELECT `+partnerColumns+` FROM partners WHERE id = ?`, id))
	if err != nil {
		return partner.Partner{}, notFound(err, "partner")
	}
	return p, nil
}

// ListPartners returns partners newest first.
func (s *Store) ListPartners(ctx context.Context, f PartnerFilter) ([]partner.Partner, error) {
	query := strings.TrimSpace(f.Query)
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+partnerColumns+`
		FROM partners
		WHERE (? = '' OR status = ?)
		  AND (? = '' OR name LIKE ? OR email LIKE ? OR company_name LIKE ?)
		ORDER BY id DESC
	`, string(f.Status), string(f.Status), query, search, search, search)
	if err != nil {
		return nil, fmt.Errorf("query partners: %w", err)
	}
	defer rows.Close()

	partners := make([]partner.Partner, 0)
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		partners = append(partners, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partners: %w", err)
	}
	return partners, nil
}

// TransitionPartner moves a partner to status `to` if the lifecycle allows it.
// trialEndsAt, when non-nil, replaces the stored trial expiry.
func (s *Store) TransitionPartner(ctx context.Context, id int64, to partner.Status, trialEndsAt *time.Time) (partner.Partner, error) {
	var updated partner.Partner
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		p, err := getPartner(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := partner.Transition(p.Status, to); err != nil {
			return err
		}

		now := s.timestamp()
		if trialEndsAt != nil {
			p.TrialEndsAt = trialEndsAt
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE partners SET status = ?, trial_ends_at = ?, updated_at = ? WHERE id = ?
		`, string(to), nullTime(p.TrialEndsAt), now, id); err != nil {
			return fmt.Errorf("update partner status: %w", err)
		}

		p.Status = to
		p.UpdatedAt = now
		updated = p
		return nil
	})
	return updated, err
}

// SetPartnerTier changes a partner's tier. The caller validates tierID.
func (s *Store) SetPartnerTier(ctx context.Context, id int64, tierID string) (partner.Partner, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE partners SET tier_id = ?, updated_at = ? WHERE id = ?`, tierID, s.timestamp(), id)
	if err != nil {
		return partner.Partner{}, fmt.Errorf("update partner tier: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return partner.Partner{}, fmt.Errorf("update partner tier: %w", err)
	}
	if affected == 0 {
		return partner.Partner{}, fmt.Errorf("partner: %w", ErrNotFound)
	}
	return s.GetPartner(ctx, id)
}
