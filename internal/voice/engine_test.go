package voice

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awsaruna451/onetoolsbox-be/internal/config"
)

func TestHTTPEngine_Synthesize(t *testing.T) {
	var gotText, gotLanguage string
	var gotSample []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotText = r.FormValue("text")
		gotLanguage = r.FormValue("language")

		file, header, err := r.FormFile("speaker_wav")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "a.wav", header.Filename)
		gotSample, err = io.ReadAll(file)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write([]byte("synthesized"))
	}))
	defer server.Close()

	engine := NewHTTPEngine(config.VoiceConfig{APIURL: server.URL, Timeout: 5 * time.Second})
	result, err := engine.Synthesize(context.Background(), SynthesisRequest{
		Text:        "hello world",
		Language:    "en",
		SampleName:  "a.wav",
		SampleAudio: []byte("sample-bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "hello world", gotText)
	assert.Equal(t, "en", gotLanguage)
	assert.Equal(t, []byte("sample-bytes"), gotSample)
	assert.Equal(t, []byte("synthesized"), result.Audio)
	assert.Greater(t, result.GenerationTime, time.Duration(0))
}

func TestHTTPEngine_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	engine := NewHTTPEngine(config.VoiceConfig{APIURL: server.URL, Timeout: 5 * time.Second})
	_, err := engine.Synthesize(context.Background(), SynthesisRequest{
		Text:       "hello",
		Language:   "en",
		SampleName: "a.wav",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model not loaded")
}
