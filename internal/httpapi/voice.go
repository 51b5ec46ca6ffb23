package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/awsaruna451/onetoolsbox-be/internal/voice"
)

type synthesizeRequest struct {
	Text           string `json:"text"`
	VoiceSampleKey string `json:"voice_sample_key"`
	Language       string `json:"language"`
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	if s.voice == nil {
		writeError(w, http.StatusNotImplemented, "voice cloning is not configured")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req synthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	job, created, err := s.voice.EnqueueSynthesis(req.Text, req.VoiceSampleKey, req.Language)
	if err != nil {
		switch {
		case errors.Is(err, voice.ErrEmptyText),
			errors.Is(err, voice.ErrMissingSample),
			errors.Is(err, voice.ErrUnsupportedLanguage):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	code := http.StatusAccepted
	if !created {
		code = http.StatusOK
	}
	writeJSON(w, code, map[string]any{
		"created": created,
		"job":     job,
	})
}

func (s *Server) handleVoiceJobs(w http.ResponseWriter, r *http.Request) {
	if s.voice == nil {
		writeError(w, http.StatusNotImplemented, "voice cloning is not configured")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"jobs": s.voice.Jobs(),
	})
}

func (s *Server) handleVoiceJobByID(w http.ResponseWriter, r *http.Request) {
	if s.voice == nil {
		writeError(w, http.StatusNotImplemented, "voice cloning is not configured")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/voice/jobs/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing job id")
		return
	}

	job, ok := s.voice.Job(id)
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleVoiceLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"languages": voice.SupportedLanguages(),
	})
}
