package main

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/partnerdesk/internal/chat"
	"github.com/Simplici0/partnerdesk/internal/order"
	"github.com/Simplici0/partnerdesk/internal/partner"
	"github.com/Simplici0/partnerdesk/internal/pricing"
)

// JSON views render money as numbers.

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

type bracketView struct {
	UpTo *float64 `json:"upTo"`
	Rate float64  `json:"rate"`
}

type tierView struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	FixedPayment       float64       `json:"fixedPayment"`
	SPTCost            float64       `json:"sptCost"`
	CommissionTiers    []bracketView `json:"commissionTiers"`
	MaxProductRequests int           `json:"maxProductRequests"`
	Unlimited          bool          `json:"unlimited"`
	TrialPeriodDays    int           `json:"trialPeriodDays"`
}

func newTierView(t pricing.Tier) tierView {
	brackets := make([]bracketView, 0, len(t.CommissionTiers))
	for _, b := range t.CommissionTiers {
		bv := bracketView{Rate: num(b.Rate)}
		if !b.Unbounded() {
			upTo := num(*b.UpTo)
			bv.UpTo = &upTo
		}
		brackets = append(brackets, bv)
	}
	return tierView{
		ID:                 t.ID,
		Name:               t.Name,
		FixedPayment:       num(t.FixedPayment),
		SPTCost:            num(t.SPTCost),
		CommissionTiers:    brackets,
		MaxProductRequests: t.MaxProductRequests,
		Unlimited:          t.Unlimited(),
		TrialPeriodDays:    t.TrialPeriodDays,
	}
}

type breakdownView struct {
	PackagingCost    float64 `json:"packagingCost"`
	BeforeTax        float64 `json:"beforeTax"`
	Tax              float64 `json:"tax"`
	NetProfit        float64 `json:"netProfit"`
	CommissionRate   float64 `json:"commissionRate"`
	CommissionAmount float64 `json:"commissionAmount"`
	FixedPayment     float64 `json:"fixedPayment"`
}

type totalsView struct {
	TotalFee      float64 `json:"totalFee"`
	PartnerProfit float64 `json:"partnerProfit"`
}

type resultView struct {
	Tier      string        `json:"tier"`
	Breakdown breakdownView `json:"breakdown"`
	Totals    totalsView    `json:"totals"`
}

func newResultView(r pricing.Result) resultView {
	return resultView{
		Tier: r.TierID,
		Breakdown: breakdownView{
			PackagingCost:    num(r.Breakdown.PackagingCost),
			BeforeTax:        num(r.Breakdown.BeforeTax),
			Tax:              num(r.Breakdown.Tax),
			NetProfit:        num(r.Breakdown.NetProfit),
			CommissionRate:   num(r.Breakdown.CommissionRate),
			CommissionAmount: num(r.Breakdown.CommissionAmount),
			FixedPayment:     num(r.Breakdown.FixedPayment),
		},
		Totals: totalsView{
			TotalFee:      num(r.Totals.TotalFee),
			PartnerProfit: num(r.Totals.PartnerProfit),
		},
	}
}

type partnerView struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	CompanyName string     `json:"companyName"`
	Tier        string     `json:"tier"`
	Status      string     `json:"status"`
	TrialEndsAt *time.Time `json:"trialEndsAt"`
	InTrial     bool       `json:"inTrial"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func newPartnerView(p partner.Partner, now time.Time) partnerView {
	return partnerView{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		CompanyName: p.CompanyName,
		Tier:        p.TierID,
		Status:      string(p.Status),
		TrialEndsAt: p.TrialEndsAt,
		InTrial:     p.InTrial(now),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type productRequestView struct {
	ID           int64     `json:"id"`
	PartnerID    int64     `json:"partnerId"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Quantity     int64     `json:"quantity"`
	Price        float64   `json:"price"`
	CostPrice    float64   `json:"costPrice"`
	Status       string    `json:"status"`
	AdminComment string    `json:"adminComment"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func newProductRequestView(r partner.ProductRequest) productRequestView {
	return productRequestView{
		ID:           r.ID,
		PartnerID:    r.PartnerID,
		Name:         r.Name,
		Category:     r.Category,
		Description:  r.Description,
		Quantity:     r.Quantity,
		Price:        num(r.Price),
		CostPrice:    num(r.CostPrice),
		Status:       string(r.Status),
		AdminComment: r.AdminComment,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type orderView struct {
	ID          int64     `json:"id"`
	PartnerID   int64     `json:"partnerId"`
	Marketplace string    `json:"marketplace"`
	ExternalID  string    `json:"externalId,omitempty"`
	ProductName string    `json:"productName"`
	Quantity    int64     `json:"quantity"`
	Sales       float64   `json:"sales"`
	CostPrice   float64   `json:"costPrice"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newOrderView(o order.Order) orderView {
	return orderView{
		ID:          o.ID,
		PartnerID:   o.PartnerID,
		Marketplace: o.Marketplace,
		ExternalID:  o.ExternalID,
		ProductName: o.ProductName,
		Quantity:    o.Quantity,
		Sales:       num(o.Sales),
		CostPrice:   num(o.CostPrice),
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

type messageView struct {
	ID        int64      `json:"id"`
	PartnerID int64      `json:"partnerId"`
	Sender    string     `json:"sender"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt"`
}

func newMessageView(m chat.Message) messageView {
	return messageView{
		ID:        m.ID,
		PartnerID: m.PartnerID,
		Sender:    string(m.Sender),
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		ReadAt:    m.ReadAt,
	}
}
