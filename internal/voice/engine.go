// Package voice clones a speaker's voice: reference audio plus text in,
// synthesized speech out. Synthesis itself runs on a separate
// XTTS-compatible inference server; this package holds the client and
// the job orchestration around it.
package voice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/awsaruna451/onetoolsbox-be/internal/config"
)

// SynthesisRequest carries everything the inference server needs for
// one utterance.
type SynthesisRequest struct {
	Text        string
	Language    string
	SampleName  string
	SampleAudio []byte
}

// SynthesisResult is the raw synthesized audio.
type SynthesisResult struct {
	Audio          []byte
	GenerationTime time.Duration
}

// Engine produces speech from a reference sample. Tests swap in a fake.
type Engine interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (SynthesisResult, error)
}

// HTTPEngine talks to an XTTS-compatible inference server over
// multipart POST.
type HTTPEngine struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPEngine(cfg config.VoiceConfig) *HTTPEngine {
	return &HTTPEngine{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (e *HTTPEngine) Synthesize(ctx context.Context, req SynthesisRequest) (SynthesisResult, error) {
	var form bytes.Buffer
	writer := multipart.NewWriter(&form)

	if err := writer.WriteField("text", req.Text); err != nil {
		return SynthesisResult{}, fmt.Errorf("failed to build synthesis form: %w", err)
	}
	if err := writer.WriteField("language", req.Language); err != nil {
		return SynthesisResult{}, fmt.Errorf("failed to build synthesis form: %w", err)
	}
	part, err := writer.CreateFormFile("speaker_wav", req.SampleName)
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("failed to build synthesis form: %w", err)
	}
	if _, err := part.Write(req.SampleAudio); err != nil {
		return SynthesisResult{}, fmt.Errorf("failed to build synthesis form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return SynthesisResult{}, fmt.Errorf("failed to build synthesis form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/synthesize", &form)
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("failed to create synthesis request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("synthesis request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SynthesisResult{}, fmt.Errorf("failed to read synthesis response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return SynthesisResult{}, fmt.Errorf("synthesis server error (status %d): %s", resp.StatusCode, snippet)
	}

	return SynthesisResult{
		Audio:          body,
		GenerationTime: time.Since(start),
	}, nil
}
