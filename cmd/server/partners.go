package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/partnerdesk/internal/logger"
	"github.com/Simplici0/partnerdesk/internal/partner"
	"github.com/Simplici0/partnerdesk/internal/store"
)

type createPartnerRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName"`
	Tier        string `json:"tier" validate:"required"`
}

type partnerStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active blocked rejected"`
}

type partnerTierRequest struct {
	Tier string `json:"tier" validate:"required"`
}

func (s *server) handlePartnersList(w http.ResponseWriter, r *http.Request) {
	status := partner.Status(strings.TrimSpace(r.URL.Query().Get("status")))
	if status != "" && !status.IsValid() {
		s.respondErr(w, r, badRequest("unknown status %q", status))
		return
	}

	partners, err := s.store.ListPartners(r.Context(), store.PartnerFilter{Status: status, Query: r.URL.Query().Get("q")})
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	now := s.now()
	views := make([]partnerView, 0, len(partners))
	for _, p := range partners {
		views = append(views, newPartnerView(p, now))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *server) handlePartnerCreate(w http.ResponseWriter, r *http.Request) {
	var req createPartnerRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	tier, err := s.catalog.Tier(req.Tier)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	p, err := partner.NewPartner(req.Name, req.Email, req.Phone, req.CompanyName, tier.ID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	created, err := s.store.CreatePartner(r.Context(), p)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("partner registered",
		zap.Int64("partner_id", created.ID),
		zap.String("tier", created.TierID))
	respondJSON(w, http.StatusCreated, newPartnerView(created, s.now()))
}

func (s *server) handlePartnerGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	p, err := s.store.GetPartner(r.Context(), id)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPartnerView(p, s.now()))
}

func (s *server) handlePartnerActivate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	p, err := s.transitionPartner(r.Context(), id, partner.StatusActive)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPartnerView(p, s.now()))
}

func (s *server) handlePartnerStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	var req partnerStatusRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	p, err := s.transitionPartner(r.Context(), id, partner.Status(req.Status))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPartnerView(p, s.now()))
}

// transitionPartner applies a status change. The first activation of a
// pending partner starts the trial period of its tier; unblocking keeps the
// original trial end.
func (s *server) transitionPartner(ctx context.Context, id int64, to partner.Status) (partner.Partner, error) {
	current, err := s.store.GetPartner(ctx, id)
	if err != nil {
		return partner.Partner{}, err
	}

	trialEnd := current.TrialEndsAt
	if current.Status == partner.StatusPending && to == partner.StatusActive {
		tier, err := s.catalog.Tier(current.TierID)
		if err != nil {
			return partner.Partner{}, err
		}
		trialEnd = partner.TrialEnd(s.now().UTC().Truncate(time.Second), tier.TrialPeriodDays)
	}

	updated, err := s.store.TransitionPartner(ctx, id, to, trialEnd)
	if err != nil {
		return partner.Partner{}, err
	}

	logger.FromContext(ctx).Info("partner status changed",
		zap.Int64("partner_id", id),
		zap.String("from", string(current.Status)),
		zap.String("to", string(to)))
	return updated, nil
}

func (s *server) handlePartnerTier(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	var req partnerTierRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	tier, err := s.catalog.Tier(req.Tier)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	p, err := s.store.SetPartnerTier(r.Context(), id, tier.ID)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newPartnerView(p, s.now()))
}
