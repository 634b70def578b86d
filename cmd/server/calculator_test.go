package main

import (
	"net/http"
	"strings"
	"testing"
)

func TestCalculateEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/calculator", map[string]any{
		"tier":      "basic",
		"sales":     20000000,
		"costPrice": 12000000,
		"quantity":  1,
	})
	expectStatus(t, rec, http.StatusOK)

	res := decodeBody[resultView](t, rec)
	if res.Tier != "basic" {
		t.Fatalf("expected tier basic, got %q", res.Tier)
	}
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"packagingCost", res.Breakdown.PackagingCost, 2000},
		{"beforeTax", res.Breakdown.BeforeTax, 7998000},
		{"tax", res.Breakdown.Tax, 239940},
		{"netProfit", res.Breakdown.NetProfit, 7758060},
		{"commissionRate", res.Breakdown.CommissionRate, 40},
		{"commissionAmount", res.Breakdown.CommissionAmount, 3103224},
		{"fixedPayment", res.Breakdown.FixedPayment, 0},
		{"totalFee", res.Totals.TotalFee, 3103224},
		{"partnerProfit", res.Totals.PartnerProfit, 4654836},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}
}

func TestCalculateAcceptsStringAmounts(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/calculator", `{"tier":"Professional","sales":"1000000","costPrice":"2000000","quantity":2}`)
	expectStatus(t, rec, http.StatusOK)

	res := decodeBody[resultView](t, rec)
	if res.Tier != "professional" {
		t.Fatalf("expected normalized tier id, got %q", res.Tier)
	}
	if res.Breakdown.NetProfit >= 0 {
		t.Fatalf("expected a loss to flow through, got %v", res.Breakdown.NetProfit)
	}
	if res.Totals.TotalFee >= 3000000 {
		t.Fatalf("expected negative commission to reduce the fixed fee, got %v", res.Totals.TotalFee)
	}
}

func TestCalculateDoesNotBoundQuantity(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/calculator", `{"tier":"basic","sales":1000,"costPrice":0,"quantity":-1}`)
	expectStatus(t, rec, http.StatusOK)

	res := decodeBody[resultView](t, rec)
	if res.Breakdown.PackagingCost >= 0 {
		t.Fatalf("expected negative quantity to yield negative packaging cost, got %v", res.Breakdown.PackagingCost)
	}
}

func TestCalculateUnknownTier(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/calculator", map[string]any{
		"tier": "gold", "sales": 100, "costPrice": 10, "quantity": 1,
	})
	body := expectError(t, rec, http.StatusBadRequest, "unknown tier")
	if !strings.Contains(body.Details, `"gold"`) {
		t.Fatalf("expected details to name the tier, got %q", body.Details)
	}
}

func TestCalculateValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing tier", `{"sales":1,"costPrice":1,"quantity":1}`, "tier is required"},
		{"unknown field", `{"tier":"basic","discount":5}`, "unknown field"},
		{"empty body", ``, "request body is empty"},
		{"bad number", `{"tier":"basic","sales":"lots"}`, "invalid JSON body"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/calculator", tc.body)
			body := expectError(t, rec, http.StatusBadRequest, "invalid request")
			if !strings.Contains(body.Details, tc.want) {
				t.Fatalf("expected details to contain %q, got %q", tc.want, body.Details)
			}
		})
	}
}

func TestTiersList(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/tiers", nil)
	expectStatus(t, rec, http.StatusOK)

	tiers := decodeBody[[]tierView](t, rec)
	if len(tiers) != 4 {
		t.Fatalf("expected 4 tiers, got %d", len(tiers))
	}
	if tiers[0].ID != "basic" || tiers[3].ID != "enterprise" {
		t.Fatalf("unexpected tier order: %s .. %s", tiers[0].ID, tiers[3].ID)
	}
	if tiers[0].Unlimited || tiers[0].MaxProductRequests != 5 {
		t.Fatalf("unexpected basic quota: %+v", tiers[0])
	}

	enterprise := tiers[3]
	if !enterprise.Unlimited || enterprise.MaxProductRequests != -1 {
		t.Fatalf("expected enterprise to be unlimited, got %+v", enterprise)
	}
	last := enterprise.CommissionTiers[len(enterprise.CommissionTiers)-1]
	if last.UpTo != nil {
		t.Fatalf("expected last bracket to be unbounded, got %v", *last.UpTo)
	}
	if first := tiers[0].CommissionTiers[0]; first.UpTo == nil || *first.UpTo != 5000000 || first.Rate != 45 {
		t.Fatalf("unexpected first basic bracket: %+v", first)
	}
}
