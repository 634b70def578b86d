// Package marketplace integrates partner shops on Uzum Market and Yandex Market.
//
// The adapters are thin HTTP clients for order import. Each platform is
// optional; an adapter without a base URL reports ErrPlatformNotConfigured.
package marketplace

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrPlatformNotConfigured = errors.New("marketplace: platform not configured")
	ErrPlatformUnknown       = errors.New("marketplace: unknown platform")
	ErrPlatformAuthFailed    = errors.New("marketplace: platform authentication failed")
	ErrPlatformRateLimited   = errors.New("marketplace: platform rate limited")
	ErrPlatformRequestFailed = errors.New("marketplace: platform request failed")
	ErrPlatformInvalidReply  = errors.New("marketplace: invalid platform response")
)

// PlatformCode identifies a marketplace.
type PlatformCode string

const (
	PlatformUzum   PlatformCode = "UZUM"
	PlatformYandex PlatformCode = "YANDEX"
)

// ParsePlatformCode accepts any casing of a known code.
func ParsePlatformCode(raw string) (PlatformCode, error) {
	code := PlatformCode(strings.ToUpper(strings.TrimSpace(raw)))
	if !code.IsValid() {
		return "", ErrPlatformUnknown
	}
	return code, nil
}

// IsValid returns true if the platform code is known.
func (c PlatformCode) IsValid() bool {
	return c == PlatformUzum || c == PlatformYandex
}

// DisplayName returns a human-readable platform name.
func (c PlatformCode) DisplayName() string {
	switch c {
	case PlatformUzum:
		return "Uzum Market"
	case PlatformYandex:
		return "Yandex Market"
	default:
		return string(c)
	}
}

// OrderSource is the value stored in order.Order.Marketplace.
func (c PlatformCode) OrderSource() string {
	return strings.ToLower(string(c))
}

// ExternalOrder is an order as reported by a marketplace.
type ExternalOrder struct {
	ExternalID  string          `json:"id"`
	ProductName string          `json:"product"`
	Quantity    int64           `json:"quantity"`
	Sales       decimal.Decimal `json:"amount"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Adapter fetches orders from one marketplace.
type Adapter interface {
	Platform() PlatformCode
	FetchOrders(ctx context.Context, shopID string, since time.Time) ([]ExternalOrder, error)
}

// Registry looks adapters up by platform code.
type Registry struct {
	adapters map[PlatformCode]Adapter
}

// NewRegistry indexes adapters by their platform.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[PlatformCode]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Platform()] = a
	}
	return r
}

// Get returns the adapter for code.
func (r *Registry) Get(code PlatformCode) (Adapter, error) {
	if !code.IsValid() {
		return nil, ErrPlatformUnknown
	}
	a, ok := r.adapters[code]
	if !ok {
		return nil, ErrPlatformNotConfigured
	}
	return a, nil
}
