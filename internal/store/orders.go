package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Simplici0/partnerdesk/internal/order"
)

// OrderFilter narrows ListOrders. Zero values match everything; From is
// inclusive and To exclusive.
type OrderFilter struct {
	PartnerID int64
	Status    order.Status
	From      time.Time
	To        time.Time
}

// ImportResult counts the outcome of ImportOrders.
type ImportResult struct {
	Imported int
	Skipped  int
}

const orderColumns = `id, partner_id, marketplace, external_id, product_name, quantity, sales, cost_price, status, created_at, updated_at`

func scanOrder(row scanner) (order.Order, error) {
	var o order.Order
	var externalID sql.NullString
	var status string
	if err := row.Scan(&o.ID, &o.PartnerID, &o.Marketplace, &externalID, &o.ProductName, &o.Quantity, &o.Sales, &o.CostPrice, &status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return order.Order{}, err
	}
	o.ExternalID = externalID.String
	o.Status = order.Status(status)
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	return o, nil
}

// CreateOrder inserts an order for an existing partner. An order already
// recorded under the same marketplace and external id yields ErrConflict.
func (s *Store) CreateOrder(ctx context.Context, o order.Order) (order.Order, error) {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getPartner(ctx, tx, o.PartnerID); err != nil {
			return err
		}
		created, inserted, err := s.insertOrder(ctx, tx, o, false)
		if err != nil {
			return err
		}
		if !inserted {
			return fmt.Errorf("order %s/%s: %w", o.Marketplace, o.ExternalID, ErrConflict)
		}
		o = created
		return nil
	})
	if err != nil {
		return order.Order{}, err
	}
	return o, nil
}

// insertOrder writes o. With ignoreDuplicates a unique violation is reported
// as inserted=false instead of an error.
func (s *Store) insertOrder(ctx context.Context, tx *sql.Tx, o order.Order, ignoreDuplicates bool) (order.Order, bool, error) {
	now := s.timestamp()
	createdAt := now
	if !o.CreatedAt.IsZero() {
		createdAt = o.CreatedAt.UTC().Truncate(time.Second)
	}
	status := o.Status
	if status == "" {
		status = order.StatusNew
	}

	verb := "INSERT"
	if ignoreDuplicates {
		verb = "INSERT OR IGNORE"
	}
	res, err := tx.ExecContext(ctx, verb+` INTO orders (partner_id, marketplace, external_id, product_name, quantity, sales, cost_price, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.PartnerID, o.Marketplace, nullString(o.ExternalID), o.ProductName, o.Quantity, o.Sales, o.CostPrice, string(status), createdAt, now)
	if err != nil {
		if isUniqueViolation(err) {
			return order.Order{}, false, nil
		}
		return order.Order{}, false, fmt.Errorf("insert order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return order.Order{}, false, fmt.Errorf("insert order: %w", err)
	}
	if affected == 0 {
		return order.Order{}, false, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return order.Order{}, false, fmt.Errorf("read order id: %w", err)
	}

	o.ID = id
	o.Status = status
	o.CreatedAt = createdAt
	o.UpdatedAt = now
	return o, true, nil
}

// ImportOrders stores marketplace orders for a partner in one transaction.
// Orders already present for the same marketplace and external id are
// skipped.
func (s *Store) ImportOrders(ctx context.Context, partnerID int64, orders []order.Order) (ImportResult, error) {
	var result ImportResult
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getPartner(ctx, tx, partnerID); err != nil {
			return err
		}
		for _, o := range orders {
			o.PartnerID = partnerID
			_, inserted, err := s.insertOrder(ctx, tx, o, true)
			if err != nil {
				return err
			}
			if inserted {
				result.Imported++
			} else {
				result.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

// GetOrder returns the order with id.
func (s *Store) GetOrder(ctx context.Context, id int64) (order.Order, error) {
	return getOrder(ctx, s.db, id)
}

func getOrder(ctx context.Context, q querier, id int64) (order.Order, error) {
	o, err := scanOrder(q.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if err != nil {
		return order.Order{}, notFound(err, "order")
	}
	return o, nil
}

// ListOrders returns orders newest first.
func (s *Store) ListOrders(ctx context.Context, f OrderFilter) ([]order.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1 = 1`
	var args []any
	if f.PartnerID != 0 {
		query += ` AND partner_id = ?`
		args = append(args, f.PartnerID)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	if !f.From.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, f.From.UTC())
	}
	if !f.To.IsZero() {
		query += ` AND created_at < ?`
		args = append(args, f.To.UTC())
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]order.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// TransitionOrder moves an order along its fulfillment lifecycle.
func (s *Store) TransitionOrder(ctx context.Context, id int64, to order.Status) (order.Order, error) {
	var updated order.Order
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		o, err := getOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := order.Transition(o.Status, to); err != nil {
			return err
		}

		now := s.timestamp()
		if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`, string(to), now, id); err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		o.Status = to
		o.UpdatedAt = now
		updated = o
		return nil
	})
	return updated, err
}
