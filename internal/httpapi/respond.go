package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lettergen/lettergen/internal/emaillist"
	"github.com/lettergen/lettergen/internal/newsletter"
	"github.com/lettergen/lettergen/pkg/llm"
	"github.com/lettergen/lettergen/pkg/mailer"
)

type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Status: "success", Data: data})
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Status: "error", Message: message})
}

// writeDomainError maps service errors onto HTTP responses. Not-found and
// permission-denied collapse into one answer so callers cannot probe for
// other owners' record ids; the log keeps the distinction.
func (s *Server) writeDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, newsletter.ErrNotFound),
		errors.Is(err, newsletter.ErrPermissionDenied):
		writeError(w, http.StatusNotFound, "newsletter not found")
	case errors.Is(err, emaillist.ErrNotFound),
		errors.Is(err, emaillist.ErrPermissionDenied):
		writeError(w, http.StatusNotFound, "email list not found")
	case errors.Is(err, newsletter.ErrAlreadySent):
		writeError(w, http.StatusConflict, "newsletter has already been sent")
	case errors.Is(err, emaillist.ErrDuplicateName):
		writeError(w, http.StatusConflict, "an email list with this name already exists")
	case errors.Is(err, newsletter.ErrInvalidInput),
		errors.Is(err, emaillist.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, llm.ErrRequestFailed),
		errors.Is(err, llm.ErrMalformedResponse):
		writeError(w, http.StatusBadGateway, "content generation failed")
	case errors.Is(err, mailer.ErrSendFailed):
		writeError(w, http.StatusBadGateway, "email delivery failed")
	default:
		s.log.ErrorContext(ctx, "unhandled request error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
