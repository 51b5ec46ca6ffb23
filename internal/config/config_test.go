package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNewFromEnv_Defaults(t *testing.T) {
	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "yt-dlp", cfg.Captions.YtdlpPath)
	assert.Equal(t, float64(7200), cfg.Captions.MaxVideoDuration)
	assert.Equal(t, language.English, cfg.Captions.Language)
	assert.Equal(t, []string{"vtt", "srv3", "srv1", "json3"}, cfg.Captions.PreferredFormats)
	assert.Equal(t, 15*time.Second, cfg.Captions.RequestTimeout)
	assert.Equal(t, time.Hour, cfg.Captions.CacheTTL)
	assert.Equal(t, 10, cfg.Captions.MinTextLength)
	assert.Equal(t, 6, cfg.Shortener.CodeLength)
	assert.Equal(t, "generated_speech", cfg.Voice.SpeechFolder)
}

func TestNewFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("CAPTION_FORMATS", "json3, vtt")
	t.Setenv("CACHE_TTL", "60")
	t.Setenv("CAPTION_LANGUAGE", "fr")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"json3", "vtt"}, cfg.Captions.PreferredFormats)
	assert.Equal(t, time.Minute, cfg.Captions.CacheTTL)
	assert.Equal(t, language.French, cfg.Captions.Language)
}

func TestNewFromEnv_InvalidLanguage(t *testing.T) {
	t.Setenv("CAPTION_LANGUAGE", "not-a-language-tag")

	_, err := NewFromEnv()
	require.Error(t, err)
}

func TestNewFromEnv_RejectsBadCodeLength(t *testing.T) {
	t.Setenv("SHORT_CODE_LENGTH", "1")

	_, err := NewFromEnv()
	require.Error(t, err)
}

func TestNewFromEnv_Options(t *testing.T) {
	cfg, err := NewFromEnv(func(c *Config) {
		c.Captions.MinTextLength = 0
	})
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Captions.MinTextLength)
}
