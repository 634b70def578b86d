package main

import (
	"net/http"
	"testing"
)

func TestPartnerOnboarding(t *testing.T) {
	env := newTestEnv(t)

	p := env.createPartner(t, "Owner@Acme.uz", "professional")
	if p.Status != "pending" || p.Email != "owner@acme.uz" || p.Tier != "professional" {
		t.Fatalf("unexpected created partner: %+v", p)
	}
	if p.TrialEndsAt != nil || p.InTrial {
		t.Fatalf("pending partner must not be in trial: %+v", p)
	}

	rec := env.do(t, http.MethodPost, pathf("/api/partners/%d/activate", p.ID), nil)
	expectStatus(t, rec, http.StatusOK)
	active := decodeBody[partnerView](t, rec)
	if active.Status != "active" || !active.InTrial {
		t.Fatalf("expected active partner in trial, got %+v", active)
	}
	wantTrial := testNow.AddDate(0, 0, 14)
	if active.TrialEndsAt == nil || !active.TrialEndsAt.Equal(wantTrial) {
		t.Fatalf("expected trial end %s, got %v", wantTrial, active.TrialEndsAt)
	}

	rec = env.do(t, http.MethodGet, pathf("/api/partners/%d", p.ID), nil)
	expectStatus(t, rec, http.StatusOK)
	got := decodeBody[partnerView](t, rec)
	if got.TrialEndsAt == nil || !got.TrialEndsAt.Equal(wantTrial) {
		t.Fatalf("trial end not persisted: %+v", got)
	}

	rec = env.do(t, http.MethodPost, pathf("/api/partners/%d/activate", p.ID), nil)
	expectError(t, rec, http.StatusConflict, "invalid status transition")
}

func TestPartnerCreateRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/partners", map[string]any{
		"name": "Acme", "email": "a@acme.uz", "tier": "platinum",
	})
	expectError(t, rec, http.StatusBadRequest, "unknown tier")

	rec = env.do(t, http.MethodPost, "/api/partners", map[string]any{
		"name": "Acme", "email": "not-an-email", "tier": "basic",
	})
	expectError(t, rec, http.StatusBadRequest, "invalid request")

	env.createPartner(t, "dup@acme.uz", "basic")
	rec = env.do(t, http.MethodPost, "/api/partners", map[string]any{
		"name": "Acme Two", "email": "dup@acme.uz", "tier": "basic",
	})
	expectError(t, rec, http.StatusConflict, "already exists")
}

func TestPartnerStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	p := env.activePartner(t, "block@acme.uz", "basic")

	rec := env.do(t, http.MethodPost, pathf("/api/partners/%d/status", p.ID), map[string]any{"status": "blocked"})
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[partnerView](t, rec); got.Status != "blocked" {
		t.Fatalf("expected blocked, got %s", got.Status)
	}

	rec = env.do(t, http.MethodPost, pathf("/api/partners/%d/status", p.ID), map[string]any{"status": "rejected"})
	expectError(t, rec, http.StatusConflict, "invalid status transition")

	rec = env.do(t, http.MethodPost, pathf("/api/partners/%d/status", p.ID), map[string]any{"status": "active"})
	expectStatus(t, rec, http.StatusOK)
	unblocked := decodeBody[partnerView](t, rec)
	if unblocked.TrialEndsAt == nil || !unblocked.TrialEndsAt.Equal(*p.TrialEndsAt) {
		t.Fatalf("unblocking must keep the original trial end: %+v", unblocked)
	}

	rec = env.do(t, http.MethodPost, pathf("/api/partners/%d/status", p.ID), map[string]any{"status": "pending"})
	expectError(t, rec, http.StatusBadRequest, "invalid request")

	rec = env.do(t, http.MethodPost, "/api/partners/999/status", map[string]any{"status": "blocked"})
	expectError(t, rec, http.StatusNotFound, "not found")

	rec = env.do(t, http.MethodGet, "/api/partners/abc", nil)
	expectError(t, rec, http.StatusBadRequest, "invalid request")
}

func TestPartnerTierChange(t *testing.T) {
	env := newTestEnv(t)
	p := env.createPartner(t, "tier@acme.uz", "basic")

	rec := env.do(t, http.MethodPut, pathf("/api/partners/%d/tier", p.ID), map[string]any{"tier": " ENTERPRISE "})
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[partnerView](t, rec); got.Tier != "enterprise" {
		t.Fatalf("expected enterprise tier, got %s", got.Tier)
	}

	rec = env.do(t, http.MethodPut, pathf("/api/partners/%d/tier", p.ID), map[string]any{"tier": "gold"})
	expectError(t, rec, http.StatusBadRequest, "unknown tier")
}

func TestPartnersList(t *testing.T) {
	env := newTestEnv(t)
	env.createPartner(t, "pending@shop.uz", "basic")
	env.activePartner(t, "active@market.uz", "basic")

	rec := env.do(t, http.MethodGet, "/api/partners?status=active", nil)
	expectStatus(t, rec, http.StatusOK)
	active := decodeBody[[]partnerView](t, rec)
	if len(active) != 1 || active[0].Email != "active@market.uz" {
		t.Fatalf("unexpected active partners: %+v", active)
	}

	rec = env.do(t, http.MethodGet, "/api/partners?q=shop", nil)
	expectStatus(t, rec, http.StatusOK)
	found := decodeBody[[]partnerView](t, rec)
	if len(found) != 1 || found[0].Email != "pending@shop.uz" {
		t.Fatalf("unexpected search result: %+v", found)
	}

	rec = env.do(t, http.MethodGet, "/api/partners?status=sleeping", nil)
	expectError(t, rec, http.StatusBadRequest, "invalid request")
}
