// Package partner holds the partner and product request domain rules:
// lifecycle statuses, allowed transitions and onboarding validation.
package partner

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrInvalidTransition = errors.New("partner: invalid status transition")
	ErrInvalidPartner    = errors.New("partner: invalid partner")
	ErrNotActive         = errors.New("partner: partner is not active")
	ErrQuotaExceeded     = errors.New("partner: product request quota exceeded")
	ErrInvalidRequest    = errors.New("partner: invalid product request")
)

// Status is the partner lifecycle state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusBlocked  Status = "blocked"
	StatusRejected Status = "rejected"
)

// IsValid returns true if the status is known.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusBlocked, StatusRejected:
		return true
	}
	return false
}

var transitions = map[Status][]Status{
	StatusPending: {StatusActive, StatusRejected},
	StatusActive:  {StatusBlocked},
	StatusBlocked: {StatusActive},
}

// CanTransition reports whether a partner may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition returns ErrInvalidTransition when from → to is not allowed.
func Transition(from, to Status) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// Partner is a seller onboarded onto the fulfillment service.
type Partner struct {
	ID          int64
	Name        string
	Email       string
	Phone       string
	CompanyName string
	TierID      string
	Status      Status
	TrialEndsAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPartner normalizes onboarding fields and returns a pending partner.
// The tier id is checked against the catalog by the caller.
func NewPartner(name, email, phone, companyName, tierID string) (Partner, error) {
	p := Partner{
		Name:        strings.TrimSpace(name),
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Phone:       strings.TrimSpace(phone),
		CompanyName: strings.TrimSpace(companyName),
		TierID:      strings.ToLower(strings.TrimSpace(tierID)),
		Status:      StatusPending,
	}

	if p.Name == "" {
		return Partner{}, fmt.Errorf("%w: name is required", ErrInvalidPartner)
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return Partner{}, fmt.Errorf("%w: email %q is invalid", ErrInvalidPartner, p.Email)
	}
	if p.TierID == "" {
		return Partner{}, fmt.Errorf("%w: tier is required", ErrInvalidPartner)
	}
	return p, nil
}

// TrialEnd returns the trial expiry for an activation at `at`.
func TrialEnd(at time.Time, trialDays int) *time.Time {
	if trialDays <= 0 {
		return nil
	}
	end := at.AddDate(0, 0, trialDays)
	return &end
}

// InTrial reports whether the partner's trial is still running at `now`.
func (p Partner) InTrial(now time.Time) bool {
	return p.TrialEndsAt != nil && now.Before(*p.TrialEndsAt)
}
