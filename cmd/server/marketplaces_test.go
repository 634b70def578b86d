package main

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/partnerdesk/internal/marketplace"
)

func externalOrder(id string, amount int64) marketplace.ExternalOrder {
	return marketplace.ExternalOrder{
		ExternalID:  id,
		ProductName: "Kite",
		Quantity:    1,
		Sales:       decimal.NewFromInt(amount),
		CostPrice:   decimal.NewFromInt(amount / 2),
		CreatedAt:   testNow.Add(-time.Hour),
	}
}

func TestMarketplaceSync(t *testing.T) {
	env := newTestEnv(t)
	p := env.activePartner(t, "sync@acme.uz", "basic")
	env.uzum.orders = []marketplace.ExternalOrder{
		externalOrder("UZ-1", 100000),
		externalOrder("UZ-2", 250000),
		{ExternalID: "UZ-3", ProductName: "", Quantity: 1},
	}

	rec := env.do(t, http.MethodPost, pathf("/api/partners/%d/marketplaces/uzum/sync", p.ID), map[string]any{"shopId": "shop-7"})
	expectStatus(t, rec, http.StatusOK)
	res := decodeBody[syncView](t, rec)
	if res.Imported != 2 || res.Skipped != 0 || res.Invalid != 1 || res.Platform != "Uzum Market" {
		t.Fatalf("unexpected first sync: %+v", res)
	}
	if env.uzum.lastShop != "shop-7" {
		t.Fatalf("expected shop id to reach the adapter, got %q", env.uzum.lastShop)
	}

	rec = env.do(t, http.MethodPost, pathf("/api/partners/%d/marketplaces/UZUM/sync", p.ID), map[string]any{"shopId": "shop-7"})
	expectStatus(t, rec, http.StatusOK)
	res = decodeBody[syncView](t, rec)
	if res.Imported != 0 || res.Skipped != 2 {
		t.Fatalf("expected duplicates to be skipped, got %+v", res)
	}

	rec = env.do(t, http.MethodGet, pathf("/api/orders?partner_id=%d", p.ID), nil)
	expectStatus(t, rec, http.StatusOK)
	orders := decodeBody[[]orderView](t, rec)
	if len(orders) != 2 || orders[0].Marketplace != "uzum" {
		t.Fatalf("unexpected imported orders: %+v", orders)
	}
}

func TestMarketplaceSyncErrors(t *testing.T) {
	env := newTestEnv(t)
	p := env.activePartner(t, "errors@acme.uz", "basic")
	body := map[string]any{"shopId": "shop-1"}

	rec := env.do(t, http.MethodPost, pathf("/api/partners/%d/marketplaces/yandex/sync", p.ID), body)
	expectError(t, rec, http.StatusUnprocessableEntity, "marketplace not configured")

	rec = env.do(t, http.MethodPost, pathf("/api/partners/%d/marketplaces/ozon/sync", p.ID), body)
	expectError(t, rec, http.StatusBadRequest, "invalid request")

	rec = env.do(t, http.MethodPost, pathf("/api/partners/%d/marketplaces/uzum/sync", p.ID), map[string]any{})
	expectError(t, rec, http.StatusBadRequest, "invalid request")

	rec = env.do(t, http.MethodPost, "/api/partners/404/marketplaces/uzum/sync", body)
	expectError(t, rec, http.StatusNotFound, "not found")
	if env.uzum.calls != 0 {
		t.Fatalf("adapter must not be called for invalid requests, got %d calls", env.uzum.calls)
	}

	env.uzum.err = fmt.Errorf("%w: status 401", marketplace.ErrPlatformAuthFailed)
	rec = env.do(t, http.MethodPost, pathf("/api/partners/%d/marketplaces/uzum/sync", p.ID), body)
	expectError(t, rec, http.StatusBadGateway, "marketplace request failed")
}
