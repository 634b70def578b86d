package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/partnerdesk/internal/logger"
	"github.com/Simplici0/partnerdesk/internal/marketplace"
	"github.com/Simplici0/partnerdesk/internal/order"
)

type syncRequest struct {
	ShopID string    `json:"shopId" validate:"required"`
	Since  time.Time `json:"since"`
}

type syncView struct {
	Platform string `json:"platform"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Invalid  int    `json:"invalid"`
}

// handleMarketplaceSync pulls a shop's orders from a marketplace and stores
// the ones not imported yet.
func (s *server) handleMarketplaceSync(w http.ResponseWriter, r *http.Request) {
	partnerID, err := idParam(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	code, err := marketplace.ParsePlatformCode(chi.URLParam(r, "platform"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	var req syncRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	if _, err := s.store.GetPartner(r.Context(), partnerID); err != nil {
		s.respondErr(w, r, err)
		return
	}

	adapter, err := s.markets.Get(code)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	log := logger.FromContext(r.Context()).With(
		zap.Int64("partner_id", partnerID),
		zap.String("platform", string(code)),
		zap.String("shop_id", req.ShopID))

	external, err := adapter.FetchOrders(r.Context(), req.ShopID, req.Since)
	if err != nil {
		log.Warn("marketplace fetch failed", zap.Error(err))
		s.respondErr(w, r, err)
		return
	}

	orders := make([]order.Order, 0, len(external))
	invalid := 0
	for _, ext := range external {
		o, err := order.New(partnerID, code.OrderSource(), ext.ExternalID, ext.ProductName, ext.Quantity, ext.Sales, ext.CostPrice)
		if err != nil || o.ExternalID == "" {
			log.Warn("skipping invalid marketplace order", zap.String("external_id", ext.ExternalID), zap.Error(err))
			invalid++
			continue
		}
		o.CreatedAt = ext.CreatedAt
		orders = append(orders, o)
	}

	res, err := s.store.ImportOrders(r.Context(), partnerID, orders)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	log.Info("marketplace orders synced",
		zap.Int("fetched", len(external)),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
		zap.Int("invalid", invalid))
	respondJSON(w, http.StatusOK, syncView{
		Platform: code.DisplayName(),
		Imported: res.Imported,
		Skipped:  res.Skipped,
		Invalid:  invalid,
	})
}
