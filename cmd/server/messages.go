package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Simplici0/partnerdesk/internal/chat"
)

type createMessageRequest struct {
	Sender string `json:"sender" validate:"required,oneof=admin partner"`
	Body   string `json:"body" validate:"required"`
}

func (s *server) handleMessageCreate(w http.ResponseWriter, r *http.Request) {
	partnerID, err := idParam(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	var req createMessageRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondErr(w, r, err)
		return
	}

	m, err := chat.NewMessage(partnerID, chat.Sender(req.Sender), req.Body)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	stored, err := s.store.AddMessage(r.Context(), m)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newMessageView(stored))
}

func (s *server) handleMessagesList(w http.ResponseWriter, r *http.Request) {
	partnerID, err := idParam(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	afterID, err := queryID(r, "after_id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > 500 {
			s.respondErr(w, r, badRequest("limit must be between 1 and 500"))
			return
		}
	}

	messages, err := s.store.ListMessages(r.Context(), partnerID, afterID, limit)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	views := make([]messageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, newMessageView(m))
	}
	respondJSON(w, http.StatusOK, views)
}

// handleMessagesRead marks the partner's messages as read by the admin.
func (s *server) handleMessagesRead(w http.ResponseWriter, r *http.Request) {
	partnerID, err := idParam(r, "id")
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	marked, err := s.store.MarkRead(r.Context(), partnerID, chat.SenderPartner)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"marked": marked})
}
