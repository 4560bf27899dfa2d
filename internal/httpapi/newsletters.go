package httpapi

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lettergen/lettergen/internal/newsletter"
)

// Form field limits, mirrored by the client-side configuration form.
const (
	maxTitleLen        = 50
	maxFocusLen        = 150
	maxTimePeriodLen   = 150
	maxStructureLen    = 1000
	maxInstructionsLen = 300
)

type generateRequest struct {
	newsletter.Config
	Provider newsletter.ProviderKind `json:"provider"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg, ok := checkConfigLimits(req.Config); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	n, err := s.newsletters.Generate(r.Context(), OwnerID(r.Context()), req.Config, req.Provider)
	if err != nil {
		s.writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleListNewsletters(w http.ResponseWriter, r *http.Request) {
	ns, err := s.newsletters.List(r.Context(), OwnerID(r.Context()))
	if err != nil {
		s.writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, ns)
}

func (s *Server) handleGetNewsletter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, err := s.newsletters.Get(r.Context(), OwnerID(r.Context()), id)
	if err != nil {
		s.writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleUpdateNewsletter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch newsletter.Patch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.Title != nil && utf8.RuneCountInString(*patch.Title) > maxTitleLen {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("title exceeds %d characters", maxTitleLen))
		return
	}

	n, err := s.newsletters.Update(r.Context(), OwnerID(r.Context()), id, patch)
	if err != nil {
		s.writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleDeleteNewsletter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.newsletters.Delete(r.Context(), OwnerID(r.Context()), id); err != nil {
		s.writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id.String()})
}

type sendRequest struct {
	Recipients []string `json:"recipients"`
}

func (s *Server) handleSendNewsletter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req sendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	n, err := s.newsletters.Send(r.Context(), OwnerID(r.Context()), id, req.Recipients)
	if err != nil {
		s.writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// handlePreviewNewsletter returns the rendered document itself, not the JSON
// envelope, so the client can load it straight into a sandboxed iframe.
func (s *Server) handlePreviewNewsletter(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	doc, err := s.newsletters.Preview(r.Context(), OwnerID(r.Context()), id)
	if err != nil {
		s.writeDomainError(r.Context(), w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

func (s *Server) handleDefaultConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newsletter.DefaultConfig())
}

func checkConfigLimits(cfg newsletter.Config) (string, bool) {
	limits := []struct {
		field string
		value string
		max   int
	}{
		{"title", cfg.Title, maxTitleLen},
		{"focus", cfg.Focus, maxFocusLen},
		{"timePeriod", cfg.TimePeriod, maxTimePeriodLen},
		{"structure", cfg.Structure, maxStructureLen},
		{"additionalInstructions", cfg.AdditionalInstructions, maxInstructionsLen},
	}
	for _, l := range limits {
		if utf8.RuneCountInString(l.value) > l.max {
			return fmt.Sprintf("%s exceeds %d characters", l.field, l.max), false
		}
	}
	return "", true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
