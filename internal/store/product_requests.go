package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Simplici0/partnerdesk/internal/partner"
	"github.com/Simplici0/partnerdesk/internal/pricing"
)

// RequestFilter narrows ListProductRequests. Zero values match everything.
type RequestFilter struct {
	Status    partner.RequestStatus
	PartnerID int64
}

// QuotaFunc resolves the tier whose product request quota applies to a partner.
type QuotaFunc func(tierID string) (pricing.Tier, error)

const requestColumns = `id, partner_id, name, category, description, quantity, price, cost_price, status, admin_comment, created_at, updated_at`

func scanRequest(row scanner) (partner.ProductRequest, error) {
	var r partner.ProductRequest
	var status string
	if err := row.Scan(&r.ID, &r.PartnerID, &r.Name, &r.Category, &r.Description, &r.Quantity, &r.Price, &r.CostPrice, &status, &r.AdminComment, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return partner.ProductRequest{}, err
	}
	r.Status = partner.RequestStatus(status)
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return r, nil
}

// SubmitProductRequest stores r for its partner after checking that the
// partner is active and still within its tier quota. Rejected requests do
// not count against the quota.
func (s *Store) SubmitProductRequest(ctx context.Context, r partner.ProductRequest, quota QuotaFunc) (partner.ProductRequest, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		p, err := getPartner(ctx, tx, r.PartnerID)
		if err != nil {
			return err
		}
		tier, err := quota(p.TierID)
		if err != nil {
			return err
		}

		var used int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM product_requests WHERE partner_id = ? AND status != ?
		`, p.ID, string(partner.RequestRejected)).Scan(&used); err != nil {
			return fmt.Errorf("count product requests: %w", err)
		}
		if err := partner.CheckSubmission(p, used, tier); err != nil {
			return err
		}

		now := s.timestamp()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO product_requests (partner_id, name, category, description, quantity, price, cost_price, status, admin_comment, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, '', ?, ?)
		`, r.PartnerID, r.Name, r.Category, r.Description, r.Quantity, r.Price, r.CostPrice, string(partner.RequestPending), now, now)
		if err != nil {
			return fmt.Errorf("insert product request: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("read product request id: %w", err)
		}

		r.ID = id
		r.Status = partner.RequestPending
		r.AdminComment = ""
		r.CreatedAt = now
		r.UpdatedAt = now
		return nil
	})
	if err != nil {
		return partner.ProductRequest{}, err
	}
	return r, nil
}

// GetProductRequest returns the request with id.
func (s *Store) GetProductRequest(ctx context.Context, id int64) (partner.ProductRequest, error) {
	return getProductRequest(ctx, s.db, id)
}

func getProductRequest(ctx context.Context, q querier, id int64) (partner.ProductRequest, error) {
	r, err := scanRequest(q.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM product_requests WHERE id = ?`, id))
	if err != nil {
		return partner.ProductRequest{}, notFound(err, "product request")
	}
	return r, nil
}

// ListProductRequests returns requests newest first.
func (s *Store) ListProductRequests(ctx context.Context, f RequestFilter) ([]partner.ProductRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+requestColumns+`
		FROM product_requests
		WHERE (? = '' OR status = ?)
		  AND (? = 0 OR partner_id = ?)
		ORDER BY id DESC
	`, string(f.Status), string(f.Status), f.PartnerID, f.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("query product requests: %w", err)
	}
	defer rows.Close()

	requests := make([]partner.ProductRequest, 0)
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product requests: %w", err)
	}
	return requests, nil
}

// DecideProductRequest approves or rejects a pending request.
func (s *Store) DecideProductRequest(ctx context.Context, id int64, to partner.RequestStatus, comment string) (partner.ProductRequest, error) {
	var decided partner.ProductRequest
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		r, err := getProductRequest(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := partner.Decide(r.Status, to); err != nil {
			return err
		}

		now := s.timestamp()
		if _, err := tx.ExecContext(ctx, `
			UPDATE product_requests SET status = ?, admin_comment = ?, updated_at = ? WHERE id = ?
		`, string(to), comment, now, id); err != nil {
			return fmt.Errorf("update product request: %w", err)
		}

		r.Status = to
		r.AdminComment = comment
		r.UpdatedAt = now
		decided = r
		return nil
	})
	return decided, err
}
