package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func productRequestBody(name string) map[string]any {
	return map[string]any{
		"name":      name,
		"category":  "toys",
		"quantity":  10,
		"price":     50000,
		"costPrice": 30000,
	}
}

func TestProductRequestQuota(t *testing.T) {
	env := newTestEnv(t)
	p := env.activePartner(t, "quota@acme.uz", "basic")

	var first productRequestView
	for i := 0; i < 5; i++ {
		rec := env.do(t, http.MethodPost, pathf("/api/partners/%d/product-requests", p.ID), productRequestBody("Kite"))
		expectStatus(t, rec, http.StatusCreated)
		if i == 0 {
			first = decodeBody[productRequestView](t, rec)
		}
	}

	rec := env.do(t, http.MethodPost, pathf("/api/partners/%d/product-requests", p.ID), productRequestBody("Kite"))
	expectError(t, rec, http.StatusConflict, "product request quota exceeded")

	rec = env.do(t, http.MethodPost, pathf("/api/product-requests/%d/reject", first.ID), map[string]any{"comment": "duplicate"})
	expectStatus(t, rec, http.StatusOK)
	if got := decodeBody[productRequestView](t, rec); got.Status != "rejected" || got.AdminComment != "duplicate" {
		t.Fatalf("unexpected rejected request: %+v", got)
	}

	rec = env.do(t, http.MethodPost, pathf("/api/partners/%d/product-requests", p.ID), productRequestBody("Kite"))
	expectStatus(t, rec, http.StatusCreated)
}

func TestProductRequestUnlimitedTier(t *testing.T) {
	env := newTestEnv(t)
	p := env.activePartner(t, "big@acme.uz", "enterprise")

	for i := 0; i < 30; i++ {
		rec := env.do(t, http.MethodPost, pathf("/api/partners/%d/product-requests", p.ID), productRequestBody("Item"))
		expectStatus(t, rec, http.StatusCreated)
	}
}

func TestProductRequestRequiresActivePartner(t *testing.T) {
	env := newTestEnv(t)
	p := env.createPartner(t, "pending@acme.uz", "basic")

	rec := env.do(t, http.MethodPost, pathf("/api/partners/%d/product-requests", p.ID), productRequestBody("Kite"))
	expectError(t, rec, http.StatusConflict, "partner is not active")

	rec = env.do(t, http.MethodPost, "/api/partners/404/product-requests", productRequestBody("Kite"))
	expectError(t, rec, http.StatusNotFound, "not found")
}

func TestProductRequestValidation(t *testing.T) {
	env := newTestEnv(t)
	p := env.activePartner(t, "v@acme.uz", "basic")

	body := productRequestBody("Kite")
	body["price"] = 0
	rec := env.do(t, http.MethodPost, pathf("/api/partners/%d/product-requests", p.ID), body)
	expectError(t, rec, http.StatusBadRequest, "invalid request")

	body = productRequestBody("Kite")
	body["quantity"] = 0
	rec = env.do(t, http.MethodPost, pathf("/api/partners/%d/product-requests", p.ID), body)
	expectError(t, rec, http.StatusBadRequest, "invalid request")
}

func TestProductRequestReview(t *testing.T) {
	env := newTestEnv(t)
	p := env.activePartner(t, "review@acme.uz", "basic")

	rec := env.do(t, http.MethodPost, pathf("/api/partners/%d/product-requests", p.ID), productRequestBody("Kite"))
	expectStatus(t, rec, http.StatusCreated)
	created := decodeBody[productRequestView](t, rec)

	rec = env.do(t, http.MethodGet, "/api/product-requests?status=pending", nil)
	expectStatus(t, rec, http.StatusOK)
	if pending := decodeBody[[]productRequestView](t, rec); len(pending) != 1 {
		t.Fatalf("expected one pending request, got %d", len(pending))
	}

	rec = env.do(t, http.MethodPost, pathf("/api/product-requests/%d/approve", created.ID), nil)
	expectStatus(t, rec, http.StatusOK)
	approved := decodeBody[productRequestView](t, rec)
	if approved.Status != "approved" || approved.Price != 50000 {
		t.Fatalf("unexpected approved request: %+v", approved)
	}

	rec = env.do(t, http.MethodPost, pathf("/api/product-requests/%d/reject", created.ID), nil)
	expectError(t, rec, http.StatusConflict, "invalid status transition")

	rec = env.do(t, http.MethodGet, pathf("/api/product-requests?partner_id=%d", p.ID), nil)
	expectStatus(t, rec, http.StatusOK)
	if all := decodeBody[[]productRequestView](t, rec); len(all) != 1 || all[0].Status != "approved" {
		t.Fatalf("unexpected partner requests: %+v", all)
	}

	rec = env.do(t, http.MethodGet, "/api/product-requests?status=maybe", nil)
	expectError(t, rec, http.StatusBadRequest, "invalid request")
}

func TestProductRequestApproveWithChunkedEmptyBody(t *testing.T) {
	env := newTestEnv(t)
	p := env.activePartner(t, "chunked@acme.uz", "basic")

	rec := env.do(t, http.MethodPost, pathf("/api/partners/%d/product-requests", p.ID), productRequestBody("Kite"))
	expectStatus(t, rec, http.StatusCreated)
	created := decodeBody[productRequestView](t, rec)

	// A body without a known length arrives with ContentLength -1.
	req := httptest.NewRequest(http.MethodPost, pathf("/api/product-requests/%d/approve", created.ID), io.NopCloser(strings.NewReader("")))
	req.Header.Set("Content-Type", "application/json")
	if req.ContentLength != -1 {
		t.Fatalf("expected unknown content length, got %d", req.ContentLength)
	}
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)

	approved := decodeBody[productRequestView](t, rec)
	if approved.Status != "approved" || approved.AdminComment != "" {
		t.Fatalf("unexpected approved request: %+v", approved)
	}
}
