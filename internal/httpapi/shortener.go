package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/awsaruna451/onetoolsbox-be/internal/shortener"
)

type shortenRequest struct {
	LongURL      string `json:"long_url"`
	Method       string `json:"method"`
	CustomCode   string `json:"custom_code"`
	CustomDomain string `json:"custom_domain"`
}

func (s *Server) handleShorten(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req shortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Method == "" {
		req.Method = "hash"
	}

	result, err := s.shortener.Shorten(req.LongURL, req.Method, req.CustomCode, req.CustomDomain)
	if err != nil {
		writeShortenerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	code := strings.TrimPrefix(r.URL.Path, "/api/v1/url-shortener/expand/")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing short code")
		return
	}

	mapping, err := s.shortener.Expand(code)
	if err != nil {
		writeShortenerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapping)
}

// handleRedirect serves the short links themselves: GET /s/{code}
// bounces the browser to the long URL.
func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	code := strings.TrimPrefix(r.URL.Path, "/s/")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing short code")
		return
	}

	mapping, err := s.shortener.Expand(code)
	if err != nil {
		writeShortenerError(w, err)
		return
	}
	http.Redirect(w, r, mapping.LongURL, http.StatusFound)
}

func (s *Server) handleMappings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mappings": s.shortener.List(),
	})
}

func (s *Server) handleMappingByCode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	code := strings.TrimPrefix(r.URL.Path, "/api/v1/url-shortener/mappings/")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing short code")
		return
	}

	if err := s.shortener.Delete(code); err != nil {
		writeShortenerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"deleted": code,
	})
}

func (s *Server) handleShortenerStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.shortener.GetStats())
}

func writeShortenerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shortener.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shortener.ErrInvalidURL),
		errors.Is(err, shortener.ErrBadCustomCode):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shortener.ErrCodeExists):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
