package partner

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/partnerdesk/internal/pricing"
)

// RequestStatus is the approval state of a product request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// IsValid returns true if the status is known.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// Decide validates a review decision on a request currently in `from`.
// Approved and rejected are terminal.
func Decide(from, to RequestStatus) error {
	if from != RequestPending || (to != RequestApproved && to != RequestRejected) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// ProductRequest is a partner's request to list a product on the marketplaces.
type ProductRequest struct {
	ID           int64
	PartnerID    int64
	Name         string
	Category     string
	Description  string
	Quantity     int64
	Price        decimal.Decimal
	CostPrice    decimal.Decimal
	Status       RequestStatus
	AdminComment string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProductRequest validates a submission and returns it as pending.
func NewProductRequest(partnerID int64, name, category, description string, quantity int64, price, costPrice decimal.Decimal) (ProductRequest, error) {
	r := ProductRequest{
		PartnerID:   partnerID,
		Name:        strings.TrimSpace(name),
		Category:    strings.TrimSpace(category),
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		Price:       price,
		CostPrice:   costPrice,
		Status:      RequestPending,
	}

	switch {
	case r.Name == "":
		return ProductRequest{}, fmt.Errorf("%w: name is required", ErrInvalidRequest)
	case r.Quantity <= 0:
		return ProductRequest{}, fmt.Errorf("%w: quantity must be > 0", ErrInvalidRequest)
	case !r.Price.IsPositive():
		return ProductRequest{}, fmt.Errorf("%w: price must be > 0", ErrInvalidRequest)
	case r.CostPrice.IsNegative():
		return ProductRequest{}, fmt.Errorf("%w: cost price must be >= 0", ErrInvalidRequest)
	}
	return r, nil
}

// CheckSubmission enforces that only active partners submit requests and that
// the partner's tier quota is respected.
func CheckSubmission(p Partner, used int, tier pricing.Tier) error {
	if p.Status != StatusActive {
		return fmt.Errorf("%w: status is %s", ErrNotActive, p.Status)
	}
	if !tier.AllowsProductRequest(used) {
		return fmt.Errorf("%w: %d of %d used", ErrQuotaExceeded, used, tier.MaxProductRequests)
	}
	return nil
}
