package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Simplici0/partnerdesk/internal/chat"
	"github.com/Simplici0/partnerdesk/internal/logger"
	"github.com/Simplici0/partnerdesk/internal/marketplace"
	"github.com/Simplici0/partnerdesk/internal/order"
	"github.com/Simplici0/partnerdesk/internal/partner"
	"github.com/Simplici0/partnerdesk/internal/pricing"
	"github.com/Simplici0/partnerdesk/internal/store"
)

// maxBodySize bounds JSON request bodies (1MB).
const maxBodySize = 1 << 20

// errBadRequest marks malformed input detected by the HTTP layer.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// respondJSON sends JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError sends the error envelope. 5xx responses are logged with the
// underlying error and never expose it to the client.
func (s *server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	response := map[string]any{
		"success": false,
		"error":   message,
	}

	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error(message, zap.Error(err), zap.Int("status", status))
	} else if err != nil {
		response["details"] = err.Error()
	}

	respondJSON(w, status, response)
}

// respondErr maps a domain error onto an HTTP status.
func (s *server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)
	s.respondError(w, r, status, message, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, pricing.ErrUnknownTier):
		return http.StatusBadRequest, "unknown tier"
	case errors.Is(err, errBadRequest),
		errors.Is(err, partner.ErrInvalidPartner),
		errors.Is(err, partner.ErrInvalidRequest),
		errors.Is(err, order.ErrInvalidOrder),
		errors.Is(err, chat.ErrInvalidMessage),
		errors.Is(err, marketplace.ErrPlatformUnknown):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, partner.ErrQuotaExceeded):
		return http.StatusConflict, "product request quota exceeded"
	case errors.Is(err, partner.ErrNotActive):
		return http.StatusConflict, "partner is not active"
	case errors.Is(err, partner.ErrInvalidTransition), errors.Is(err, order.ErrInvalidTransition):
		return http.StatusConflict, "invalid status transition"
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, "already exists"
	case errors.Is(err, marketplace.ErrPlatformNotConfigured):
		return http.StatusUnprocessableEntity, "marketplace not configured"
	case errors.Is(err, marketplace.ErrPlatformAuthFailed),
		errors.Is(err, marketplace.ErrPlatformRateLimited),
		errors.Is(err, marketplace.ErrPlatformRequestFailed),
		errors.Is(err, marketplace.ErrPlatformInvalidReply):
		return http.StatusBadGateway, "marketplace request failed"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// decodeJSON reads a JSON body into dst and validates its struct tags.
func (s *server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return s.decodeBody(w, r, dst, false)
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be omitted.
// An empty body leaves dst at its zero value, whatever the Content-Length.
func (s *server) decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return s.decodeBody(w, r, dst, true)
}

func (s *server) decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) error {
	if r.Body == nil || r.Body == http.NoBody {
		if optional {
			return s.validateStruct(dst)
		}
		return badRequest("request body is empty")
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if !errors.Is(err, io.EOF) {
			return badRequest("invalid JSON body: %v", err)
		}
		if !optional {
			return badRequest("request body is empty")
		}
	}
	return s.validateStruct(dst)
}

func (s *server) validateStruct(dst any) error {
	err := s.validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return badRequest("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return badRequest("%s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "gt", "gte", "lt", "lte", "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid %s", name)
	}
	return id, nil
}

func queryID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, badRequest("invalid %s", name)
	}
	return id, nil
}
