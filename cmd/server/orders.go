package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Simplici0/partnerdesk/internal/logger"
	"github.com/Simplici0/partnerdesk/internal/order"
	"github.com/Simplici0/partnerdesk/internal/pricing"
	"github.com/Simplici0/partnerdesk/internal/store"
)

type createOrderRequest struct {
	Marketplace string          `json:"marketplace"`
	ExternalID  string          `json:"externalId"`
	ProductName string          `json:"productName" validate:"required"`
	Quantity    int64           `json:"quantity" validate:"gt=0"`
	Sales       decimal.Decimal `json:"sales"`
	CostPrice   decimal.Decimal `json:"costPrice"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new processing shipped delivered cancelled"`
}

type orderProfitView struct {
	Order  orderView  `json:"order"`
	Result resultView `json:"result"`
}

type partnerFeesView struct {
	PartnerID int64      `json:"partnerId"`
	From      *time.Time `json:"from"`
	To        *time.Time `json:"to"`
	Orders    int        `json:"orders"`
	Quantity  int64      `json:"quantity"`
	Sales     float64    `json:"sales"`
	CostPrice float64    `json:"costPrice"`
	Result    resultView `json:"result"`
}

func (s *server) handleOrderCreate(w http.ResponseWriter, r *http.Request) {
	partnerID, err := idParam(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	var req createOrderRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	o, err := order.New(partnerID, req.Marketplace, req.ExternalID, req.ProductName, req.Quantity, req.Sales, req.CostPrice)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	created, err := s.store.CreateOrder(r.Context(), o)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("order created",
		zap.Int64("partner_id", partnerID),
		zap.Int64("order_id", created.ID),
		zap.String("marketplace", created.Marketplace))
	respondJSON(w, http.StatusCreated, newOrderView(created))
}

func (s *server) handleOrdersList(w http.ResponseWriter, r *http.Request) {
	status := order.Status(strings.TrimSpace(r.URL.Query().Get("status")))
	if status != "" && !status.IsValid() {
		s.respondErr(w, r, badRequest("unknown status %q", status))
		return
	}
	partnerID, err := queryID(r, "partner_id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	orders, err := s.store.ListOrders(r.Context(), store.OrderFilter{PartnerID: partnerID, Status: status})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	var req orderStatusRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	updated, err := s.store.TransitionOrder(r.Context(), id, order.Status(req.Status))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newOrderView(updated))
}

// handleOrderProfit previews the fee pipeline for a single order using the
// partner's current tier.
func (s *server) handleOrderProfit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	o, err := s.store.GetOrder(r.Context(), id)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	p, err := s.store.GetPartner(r.Context(), o.PartnerID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	result, err := s.calc.Calculate(pricing.Input{
		TierID:    p.TierID,
		Sales:     o.Sales,
		CostPrice: o.CostPrice,
		Quantity:  o.Quantity,
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orderProfitView{Order: newOrderView(o), Result: newResultView(result)})
}

// handlePartnerFees totals the partner's delivered orders in [from, to) and
// runs the fee pipeline once on the sums.
func (s *server) handlePartnerFees(w http.ResponseWriter, r *http.Request) {
	partnerID, err := idParam(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	from, err := parseDateParam(r.URL.Query().Get("from"), false)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	to, err := parseDateParam(r.URL.Query().Get("to"), true)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		s.respondErr(w, r, badRequest("from must be before to"))
		return
	}

	p, err := s.store.GetPartner(r.Context(), partnerID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	orders, err := s.store.ListOrders(r.Context(), store.OrderFilter{
		PartnerID: partnerID,
		Status:    order.StatusDelivered,
		From:      from,
		To:        to,
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	totals := order.Sum(orders)

	result, err := s.calc.Calculate(pricing.Input{
		TierID:    p.TierID,
		Sales:     totals.Sales,
		CostPrice: totals.CostPrice,
		Quantity:  totals.Quantity,
	})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, partnerFeesView{
		PartnerID: partnerID,
		From:      optionalTime(from),
		To:        optionalTime(to),
		Orders:    totals.Orders,
		Quantity:  totals.Quantity,
		Sales:     num(totals.Sales),
		CostPrice: num(totals.CostPrice),
		Result:    newResultView(result),
	})
}

// parseDateParam accepts RFC 3339 timestamps or YYYY-MM-DD dates. A date used
// as an upper bound covers the whole day.
func parseDateParam(raw string, upper bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, badRequest("invalid date %q", raw)
	}
	if upper {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
