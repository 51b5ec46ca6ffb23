// Package httpapi exposes caption extraction, URL shortening, object
// storage and voice cloning over a JSON HTTP API.
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"

	"github.com/awsaruna451/onetoolsbox-be/internal/caption"
	"github.com/awsaruna451/onetoolsbox-be/internal/jobs"
	"github.com/awsaruna451/onetoolsbox-be/internal/shortener"
	"github.com/awsaruna451/onetoolsbox-be/internal/storage"
)

// captionExtractor is the extraction pipeline surface the handlers
// call.
type captionExtractor interface {
	Extract(ctx context.Context, videoURL, outputFormat string) (*caption.Set, error)
	CleanText(segments []caption.Segment) string
}

// voiceService queues and reports synthesis jobs.
type voiceService interface {
	EnqueueSynthesis(text, sampleKey, lang string) (*jobs.SynthesisJob, bool, error)
	Job(id string) (*jobs.SynthesisJob, bool)
	Jobs() []*jobs.SynthesisJob
}

type Server struct {
	extractor captionExtractor
	shortener *shortener.Service
	store     storage.Store
	voice     voiceService

	allowedOrigins []string

	mux    *http.ServeMux
	server *http.Server
}

type Option func(*Server)

func WithStore(store storage.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

func WithVoice(voice voiceService) Option {
	return func(s *Server) {
		s.voice = voice
	}
}

// WithAllowedOrigins sets the CORS origin whitelist. "*" allows any.
func WithAllowedOrigins(origins string) Option {
	return func(s *Server) {
		parts := strings.Split(origins, ",")
		ret := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				ret = append(ret, trimmed)
			}
		}
		if len(ret) > 0 {
			s.allowedOrigins = ret
		}
	}
}

func NewServer(extractor captionExtractor, shortenerSvc *shortener.Service, opts ...Option) *Server {
	s := &Server{
		extractor:      extractor,
		shortener:      shortenerSvc,
		allowedOrigins: []string{"*"},
		mux:            http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(s.allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(s.mux)
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/health", s.handleHealth)

	s.mux.HandleFunc("/api/v1/captions/extract", s.handleExtract)
	s.mux.HandleFunc("/api/v1/captions/extract/detailed", s.handleExtractDetailed)

	s.mux.HandleFunc("/api/v1/url-shortener/shorten", s.handleShorten)
	s.mux.HandleFunc("/api/v1/url-shortener/expand/", s.handleExpand)
	s.mux.HandleFunc("/api/v1/url-shortener/mappings", s.handleMappings)
	s.mux.HandleFunc("/api/v1/url-shortener/mappings/", s.handleMappingByCode)
	s.mux.HandleFunc("/api/v1/url-shortener/stats", s.handleShortenerStats)
	s.mux.HandleFunc("/s/", s.handleRedirect)

	s.mux.HandleFunc("/api/v1/s3/upload", s.handleUpload)
	s.mux.HandleFunc("/api/v1/s3/download/", s.handleDownload)
	s.mux.HandleFunc("/api/v1/s3/files", s.handleListFiles)
	s.mux.HandleFunc("/api/v1/s3/files/", s.handleDeleteFile)
	s.mux.HandleFunc("/api/v1/s3/presign/", s.handlePresign)

	s.mux.HandleFunc("/api/v1/voice/synthesize", s.handleSynthesize)
	s.mux.HandleFunc("/api/v1/voice/jobs", s.handleVoiceJobs)
	s.mux.HandleFunc("/api/v1/voice/jobs/", s.handleVoiceJobByID)
	s.mux.HandleFunc("/api/v1/voice/languages", s.handleVoiceLanguages)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "onetoolsbox",
		"status":  "running",
		"docs":    "/api/v1",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
	})
}
