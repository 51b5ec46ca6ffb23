package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/awsaruna451/onetoolsbox-be/internal/caption"
)

// Output formats clients can request. Distinct from the subtitle source
// encodings (vtt, srv3, ...) the pipeline downloads.
const (
	outputText = "txt"
	outputSRT  = "srt"
	outputJSON = "json"
)

type extractRequest struct {
	YoutubeURL string `json:"youtube_url"`
	Format     string `json:"format"`
}

type extractResponse struct {
	VideoTitle    string            `json:"video_title"`
	VideoID       string            `json:"video_id"`
	VideoDuration float64           `json:"video_duration"`
	Format        string            `json:"format"`
	CaptionsText  string            `json:"captions_text,omitempty"`
	TextLength    int               `json:"text_length,omitempty"`
	SRTContent    string            `json:"srt_content,omitempty"`
	TotalCaptions int               `json:"total_captions,omitempty"`
	Captions      []caption.Segment `json:"captions,omitempty"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.YoutubeURL == "" {
		writeError(w, http.StatusBadRequest, "youtube_url is required")
		return
	}
	if req.Format == "" {
		req.Format = outputText
	}
	if req.Format != outputText && req.Format != outputSRT && req.Format != outputJSON {
		writeError(w, http.StatusBadRequest, "format must be one of txt, srt, json")
		return
	}

	set, err := s.extractor.Extract(r.Context(), req.YoutubeURL, req.Format)
	if err != nil {
		writeExtractionError(w, err)
		return
	}

	resp := extractResponse{
		VideoTitle:    set.VideoTitle,
		VideoID:       set.VideoID,
		VideoDuration: set.VideoDuration,
		Format:        req.Format,
	}
	switch req.Format {
	case outputText:
		text := s.extractor.CleanText(set.Captions)
		resp.CaptionsText = text
		resp.TextLength = len(text)
	case outputSRT:
		resp.SRTContent = caption.RenderSRT(set.Captions)
	case outputJSON:
		resp.TotalCaptions = set.TotalCaptions
		resp.Captions = set.Captions
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleExtractDetailed returns the raw caption set, source encoding
// and all.
func (s *Server) handleExtractDetailed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.YoutubeURL == "" {
		writeError(w, http.StatusBadRequest, "youtube_url is required")
		return
	}

	set, err := s.extractor.Extract(r.Context(), req.YoutubeURL, "detailed")
	if err != nil {
		writeExtractionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}
