package main

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/partnerdesk/internal/pricing"
)

type calculateRequest struct {
	Tier      string          `json:"tier" validate:"required"`
	Sales     decimal.Decimal `json:"sales"`
	CostPrice decimal.Decimal `json:"costPrice"`
	Quantity  int64           `json:"quantity"`
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	result, err := s.calc.Calculate(pricing.Input{
		TierID:    req.Tier,
		Sales:     req.Sales,
		CostPrice: req.CostPrice,
		Quantity:  req.Quantity,
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newResultView(result))
}

func (s *server) handleTiersList(w http.ResponseWriter, r *http.Request) {
	tiers := s.catalog.Tiers()
	views := make([]tierView, 0, len(tiers))
	for _, t := range tiers {
		views = append(views, newTierView(t))
	}
	respondJSON(w, http.StatusOK, views)
}
