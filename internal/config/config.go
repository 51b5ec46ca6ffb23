package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Config holds all application configuration.
// Every value can be supplied through environment variables and falls
// back to a sensible default.
//
// Environment Variables:
//
// Server:
// - HTTP_ADDR: listen address (default: :8000)
// - LOG_LEVEL: debug|info|warn|error (default: info)
// - ALLOWED_ORIGINS: comma-separated CORS origins, "*" for any (default: *)
//
// Captions:
// - YTDLP_PATH: yt-dlp binary name or path (default: yt-dlp)
// - MAX_VIDEO_DURATION: ceiling in seconds before extraction is refused (default: 7200)
// - CAPTION_LANGUAGE: subtitle track language (default: en)
// - CAPTION_FORMATS: preferred source encodings in order (default: vtt,srv3,srv1,json3)
// - REQUEST_TIMEOUT: subtitle download timeout in seconds (default: 15)
// - CACHE_TTL: extraction cache time-to-live in seconds (default: 3600)
// - MIN_CAPTION_TEXT_LENGTH: cleaned segments at or below this length are dropped (default: 10)
//
// URL shortener:
// - SHORTENER_FILE: JSON mapping file (default: data/url_mappings.json)
// - SHORTENER_BASE_URL: base URL prepended to short codes (default: http://localhost:8000/s/)
// - SHORT_CODE_LENGTH: generated code length (default: 6)
//
// Object storage:
// - AWS_S3_BUCKET: bucket name (required for the s3 endpoints)
// - AWS_REGION: region (default: us-east-1)
// - S3_UPLOAD_FOLDER: default key prefix for uploads (default: voice_samples)
//
// Voice cloning:
// - TTS_API_URL: XTTS-compatible inference server base URL
// - TTS_TIMEOUT: synthesis request timeout in seconds (default: 120)
// - SYNTH_WORKERS: synthesis worker count (default: 2)
// - JOBS_DB: sqlite file for the job queue (default: data/jobs.db)
// - SPEECH_FOLDER: storage prefix for generated audio (default: generated_speech)
// - SPEECH_RETENTION_DAYS: generated audio retention (default: 7)
// - CLEANUP_CRON: cron expression for the retention sweep (default: 0 4 * * *)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Captions  CaptionsConfig  `json:"captions"`
	Shortener ShortenerConfig `json:"shortener"`
	Storage   StorageConfig   `json:"storage"`
	Voice     VoiceConfig     `json:"voice"`
}

type ServerConfig struct {
	Addr           string `json:"addr"`
	LogLevel       string `json:"log_level"`
	AllowedOrigins string `json:"allowed_origins"`
}

// CaptionsConfig holds the knobs of the caption extraction pipeline.
// PreferredFormats and MinTextLength mirror heuristics of the original
// deployment and are deliberately configurable.
type CaptionsConfig struct {
	YtdlpPath        string        `json:"ytdlp_path"`
	MaxVideoDuration float64       `json:"max_video_duration"`
	Language         language.Tag  `json:"language"`
	PreferredFormats []string      `json:"preferred_formats"`
	RequestTimeout   time.Duration `json:"request_timeout"`
	CacheTTL         time.Duration `json:"cache_ttl"`
	MinTextLength    int           `json:"min_text_length"`
}

type ShortenerConfig struct {
	StorageFile string `json:"storage_file"`
	BaseURL     string `json:"base_url"`
	CodeLength  int    `json:"code_length"`
}

type StorageConfig struct {
	Bucket       string `json:"bucket"`
	Region       string `json:"region"`
	UploadFolder string `json:"upload_folder"`
}

type VoiceConfig struct {
	APIURL        string        `json:"api_url"`
	Timeout       time.Duration `json:"timeout"`
	Workers       int           `json:"workers"`
	JobsDB        string        `json:"jobs_db"`
	SpeechFolder  string        `json:"speech_folder"`
	RetentionDays int           `json:"retention_days"`
	CleanupCron   string        `json:"cleanup_cron"`
}

// Option is a function type for overriding Config values.
type Option func(*Config)

// NewFromEnv creates a Config from environment variables and options.
func NewFromEnv(opts ...Option) (*Config, error) {
	lang, err := language.Parse(getEnvString("CAPTION_LANGUAGE", "en"))
	if err != nil {
		return nil, fmt.Errorf("invalid CAPTION_LANGUAGE: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Addr:           getEnvString("HTTP_ADDR", ":8000"),
			LogLevel:       getEnvString("LOG_LEVEL", "info"),
			AllowedOrigins: getEnvString("ALLOWED_ORIGINS", "*"),
		},
		Captions: CaptionsConfig{
			YtdlpPath:        getEnvString("YTDLP_PATH", "yt-dlp"),
			MaxVideoDuration: getEnvFloat("MAX_VIDEO_DURATION", 7200),
			Language:         lang,
			PreferredFormats: getEnvList("CAPTION_FORMATS", []string{"vtt", "srv3", "srv1", "json3"}),
			RequestTimeout:   time.Duration(getEnvInt("REQUEST_TIMEOUT", 15)) * time.Second,
			CacheTTL:         time.Duration(getEnvInt("CACHE_TTL", 3600)) * time.Second,
			MinTextLength:    getEnvInt("MIN_CAPTION_TEXT_LENGTH", 10),
		},
		Shortener: ShortenerConfig{
			StorageFile: getEnvString("SHORTENER_FILE", "data/url_mappings.json"),
			BaseURL:     getEnvString("SHORTENER_BASE_URL", "http://localhost:8000/s/"),
			CodeLength:  getEnvInt("SHORT_CODE_LENGTH", 6),
		},
		Storage: StorageConfig{
			Bucket:       getEnvString("AWS_S3_BUCKET", ""),
			Region:       getEnvString("AWS_REGION", "us-east-1"),
			UploadFolder: getEnvString("S3_UPLOAD_FOLDER", "voice_samples"),
		},
		Voice: VoiceConfig{
			APIURL:        getEnvString("TTS_API_URL", ""),
			Timeout:       time.Duration(getEnvInt("TTS_TIMEOUT", 120)) * time.Second,
			Workers:       getEnvInt("SYNTH_WORKERS", 2),
			JobsDB:        getEnvString("JOBS_DB", "data/jobs.db"),
			SpeechFolder:  getEnvString("SPEECH_FOLDER", "generated_speech"),
			RetentionDays: getEnvInt("SPEECH_RETENTION_DAYS", 7),
			CleanupCron:   getEnvString("CLEANUP_CRON", "0 4 * * *"),
		},
	}

	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks invariants that would otherwise surface as confusing
// runtime failures.
func (c *Config) validate() error {
	if c.Captions.MaxVideoDuration <= 0 {
		return fmt.Errorf("MAX_VIDEO_DURATION must be positive")
	}
	if len(c.Captions.PreferredFormats) == 0 {
		return fmt.Errorf("CAPTION_FORMATS must name at least one encoding")
	}
	if c.Shortener.CodeLength < 3 || c.Shortener.CodeLength > 20 {
		return fmt.Errorf("SHORT_CODE_LENGTH must be between 3 and 20")
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	ret := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			ret = append(ret, trimmed)
		}
	}
	if len(ret) == 0 {
		return defaultValue
	}
	return ret
}
