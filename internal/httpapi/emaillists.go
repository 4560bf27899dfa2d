package httpapi

import (
	"net/http"
)

type emailListRequest struct {
	Name   string   `json:"name"`
	Emails []string `json:"emails"`
}

func (s *Server) handleCreateEmailList(w http.ResponseWriter, r *http.Request) {
	var req emailListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := s.lists.Create(r.Context(), OwnerID(r.Context()), req.Name, req.Emails)
	if err != nil {
		s.writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleListEmailLists(w http.ResponseWriter, r *http.Request) {
	ls, err := s.lists.List(r.Context(), OwnerID(r.Context()))
	if err != nil {
		s.writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, ls)
}

func (s *Server) handleGetEmailList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	l, err := s.lists.Get(r.Context(), OwnerID(r.Context()), id)
	if err != nil {
		s.writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleUpdateEmailList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req emailListRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := s.lists.Update(r.Context(), OwnerID(r.Context()), id, req.Name, req.Emails)
	if err != nil {
		s.writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleDeleteEmailList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.lists.Delete(r.Context(), OwnerID(r.Context()), id); err != nil {
		s.writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id.String()})
}
