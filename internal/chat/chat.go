// Package chat models the partner/admin message thread.
package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxBodyLength is the longest accepted message, in characters.
const MaxBodyLength = 4000

var ErrInvalidMessage = errors.New("chat: invalid message")

// Sender identifies who wrote a message.
type Sender string

const (
	SenderAdmin   Sender = "admin"
	SenderPartner Sender = "partner"
)

// Message is one entry of a partner thread.
type Message struct {
	ID        int64
	PartnerID int64
	Sender    Sender
	Body      string
	CreatedAt time.Time
	ReadAt    *time.Time
}

// NewMessage trims and validates a message body.
func NewMessage(partnerID int64, sender Sender, body string) (Message, error) {
	body = strings.TrimSpace(body)
	if sender != SenderAdmin && sender != SenderPartner {
		return Message{}, fmt.Errorf("%w: unknown sender %q", ErrInvalidMessage, sender)
	}
	if body == "" {
		return Message{}, fmt.Errorf("%w: body is empty", ErrInvalidMessage)
	}
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return Message{}, fmt.Errorf("%w: body exceeds %d characters", ErrInvalidMessage, MaxBodyLength)
	}
	return Message{PartnerID: partnerID, Sender: sender, Body: body}, nil
}
