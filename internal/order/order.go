// Package order tracks partner orders fulfilled through the marketplaces.
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidOrder      = errors.New("order: invalid order")
	ErrInvalidTransition = errors.New("order: invalid status transition")
)

// Status is the fulfillment state of an order.
type Status string

const (
	StatusNew        Status = "new"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// IsValid returns true if the status is known.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

var transitions = map[Status][]Status{
	StatusNew:        {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// Transition returns ErrInvalidTransition when from → to is not allowed.
func Transition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Marketplace names the sales channel; "direct" for manually entered orders.
const MarketplaceDirect = "direct"

// Order is a single sale handled for a partner.
type Order struct {
	ID          int64
	PartnerID   int64
	Marketplace string
	ExternalID  string
	ProductName string
	Quantity    int64
	Sales       decimal.Decimal
	CostPrice   decimal.Decimal
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New validates an order and returns it in the new status.
func New(partnerID int64, marketplace, externalID, productName string, quantity int64, sales, costPrice decimal.Decimal) (Order, error) {
	o := Order{
		PartnerID:   partnerID,
		Marketplace: strings.ToLower(strings.TrimSpace(marketplace)),
		ExternalID:  strings.TrimSpace(externalID),
		ProductName: strings.TrimSpace(productName),
		Quantity:    quantity,
		Sales:       sales,
		CostPrice:   costPrice,
		Status:      StatusNew,
	}
	if o.Marketplace == "" {
		o.Marketplace = MarketplaceDirect
	}

	switch {
	case o.ProductName == "":
		return Order{}, fmt.Errorf("%w: product name is required", ErrInvalidOrder)
	case o.Quantity <= 0:
		return Order{}, fmt.Errorf("%w: quantity must be > 0", ErrInvalidOrder)
	case o.Sales.IsNegative():
		return Order{}, fmt.Errorf("%w: sales must be >= 0", ErrInvalidOrder)
	case o.CostPrice.IsNegative():
		return Order{}, fmt.Errorf("%w: cost price must be >= 0", ErrInvalidOrder)
	}
	return o, nil
}

// Totals is the sum of a set of orders.
type Totals struct {
	Orders    int
	Quantity  int64
	Sales     decimal.Decimal
	CostPrice decimal.Decimal
}

// Sum adds up sales, cost and quantity across orders.
func Sum(orders []Order) Totals {
	t := Totals{Sales: decimal.Zero, CostPrice: decimal.Zero}
	for _, o := range orders {
		t.Orders++
		t.Quantity += o.Quantity
		t.Sales = t.Sales.Add(o.Sales)
		t.CostPrice = t.CostPrice.Add(o.CostPrice)
	}
	return t
}
