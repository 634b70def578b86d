package main

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Simplici0/partnerdesk/internal/logger"
	"github.com/Simplici0/partnerdesk/internal/partner"
	"github.com/Simplici0/partnerdesk/internal/store"
)

type createProductRequestRequest struct {
	Name        string          `json:"name" validate:"required"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity" validate:"gt=0"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"costPrice"`
}

type decideProductRequestRequest struct {
	Comment string `json:"comment" validate:"max=2000"`
}

func (s *server) handleProductRequestCreate(w http.ResponseWriter, r *http.Request) {
	partnerID, err := idParam(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	var req createProductRequestRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	pr, err := partner.NewProductRequest(partnerID, req.Name, req.Category, req.Description, req.Quantity, req.Price, req.CostPrice)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	created, err := s.store.SubmitProductRequest(r.Context(), pr, s.catalog.Tier)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("product request submitted",
		zap.Int64("partner_id", partnerID),
		zap.Int64("request_id", created.ID))
	respondJSON(w, http.StatusCreated, newProductRequestView(created))
}

func (s *server) handleProductRequestsList(w http.ResponseWriter, r *http.Request) {
	status := partner.RequestStatus(strings.TrimSpace(r.URL.Query().Get("status")))
	if status != "" && !status.IsValid() {
		s.respondErr(w, r, badRequest("unknown status %q", status))
		return
	}
	partnerID, err := queryID(r, "partner_id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	requests, err := s.store.ListProductRequests(r.Context(), store.RequestFilter{Status: status, PartnerID: partnerID})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	views := make([]productRequestView, 0, len(requests))
	for _, pr := range requests {
		views = append(views, newProductRequestView(pr))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *server) handleProductRequestApprove(w http.ResponseWriter, r *http.Request) {
	s.decideProductRequest(w, r, partner.RequestApproved)
}

func (s *server) handleProductRequestReject(w http.ResponseWriter, r *http.Request) {
	s.decideProductRequest(w, r, partner.RequestRejected)
}

func (s *server) decideProductRequest(w http.ResponseWriter, r *http.Request, to partner.RequestStatus) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	var req decideProductRequestRequest
	if err := s.decodeOptionalJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	decided, err := s.store.DecideProductRequest(r.Context(), id, to, strings.TrimSpace(req.Comment))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("product request decided",
		zap.Int64("request_id", id),
		zap.String("status", string(to)))
	respondJSON(w, http.StatusOK, newProductRequestView(decided))
}
