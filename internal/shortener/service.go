// Package shortener maps short codes to long URLs, persisted to a
// single JSON file that is read fully at startup and rewritten
// wholesale on every mutation.
package shortener

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/awsaruna451/onetoolsbox-be/internal/config"
	"github.com/awsaruna451/onetoolsbox-be/pkg/log"
)

var (
	ErrInvalidURL    = errors.New("invalid URL format, must start with http:// or https://")
	ErrCodeExists    = errors.New("custom code already exists")
	ErrBadCustomCode = errors.New("custom code must be between 3 and 20 characters")
	ErrNotFound      = errors.New("short code not found")
	ErrCodeSpace     = errors.New("unable to generate a unique short code")
)

const randomCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Result describes a freshly created (or re-used) short URL.
type Result struct {
	ShortURL  string    `json:"short_url"`
	ShortCode string    `json:"short_code"`
	LongURL   string    `json:"long_url"`
	Method    string    `json:"method"`
	CreatedAt time.Time `json:"created_at"`
}

// Mapping is one stored code with its metadata, as listed to clients.
type Mapping struct {
	ShortCode string    `json:"short_code"`
	ShortURL  string    `json:"short_url"`
	LongURL   string    `json:"long_url"`
	CreatedAt time.Time `json:"created_at"`
	Method    string    `json:"method"`
	Clicks    int       `json:"clicks"`
}

// Stats summarizes the whole mapping table.
type Stats struct {
	TotalURLs   int    `json:"total_urls"`
	TotalClicks int    `json:"total_clicks"`
	StorageFile string `json:"storage_file"`
	BaseURL     string `json:"base_url"`
}

// Service owns the in-memory mapping table and its file persistence.
// All access goes through the mutex; expand mutates (click counter), so
// reads take the write lock too.
type Service struct {
	storageFile string
	baseURL     string
	codeLength  int

	mu       sync.Mutex
	mappings map[string]Entry
}

func NewService(cfg config.ShortenerConfig) (*Service, error) {
	mappings, err := loadMappings(cfg.StorageFile)
	if err != nil {
		return nil, err
	}
	log.Info("Loaded %d URL mappings from %s", len(mappings), cfg.StorageFile)

	return &Service{
		storageFile: cfg.StorageFile,
		baseURL:     cfg.BaseURL,
		codeLength:  cfg.CodeLength,
		mappings:    mappings,
	}, nil
}

// Shorten creates a short code for longURL. method is "hash"
// (deterministic MD5 prefix) or "random"; customCode overrides both.
// An already-shortened URL returns its existing code.
func (s *Service) Shorten(longURL, method, customCode, customDomain string) (Result, error) {
	if !strings.HasPrefix(longURL, "http://") && !strings.HasPrefix(longURL, "https://") {
		return Result{}, ErrInvalidURL
	}

	base := s.baseURL
	if customDomain != "" {
		base = normalizeCustomDomain(customDomain)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for code, entry := range s.mappings {
		if entry.URL == longURL {
			log.Info("URL already shortened with code %s", code)
			return Result{
				ShortURL:  base + code,
				ShortCode: code,
				LongURL:   longURL,
				Method:    "existing",
				CreatedAt: entry.CreatedAt,
			}, nil
		}
	}

	var code string
	switch {
	case customCode != "":
		if len(customCode) < 3 || len(customCode) > 20 {
			return Result{}, ErrBadCustomCode
		}
		if _, exists := s.mappings[customCode]; exists {
			return Result{}, fmt.Errorf("%w: %s", ErrCodeExists, customCode)
		}
		code = customCode
		method = "custom"
	case method == "random":
		var err error
		code, err = s.randomCodeLocked()
		if err != nil {
			return Result{}, err
		}
	default:
		method = "hash"
		code = s.hashCode(longURL)
		if existing, collision := s.mappings[code]; collision && existing.URL != longURL {
			log.Warn("Hash collision for code %s, falling back to random", code)
			var err error
			code, err = s.randomCodeLocked()
			if err != nil {
				return Result{}, err
			}
		}
	}

	entry := Entry{
		URL:       longURL,
		CreatedAt: time.Now().UTC(),
		Method:    method,
		Clicks:    0,
	}
	s.mappings[code] = entry
	if err := saveMappings(s.storageFile, s.mappings); err != nil {
		delete(s.mappings, code)
		return Result{}, err
	}

	log.Info("Created short URL: %s -> %s", code, longURL)
	return Result{
		ShortURL:  base + code,
		ShortCode: code,
		LongURL:   longURL,
		Method:    method,
		CreatedAt: entry.CreatedAt,
	}, nil
}

// Expand resolves a short code and increments its click counter.
func (s *Service) Expand(code string) (Mapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.mappings[code]
	if !ok {
		return Mapping{}, ErrNotFound
	}

	entry.Clicks++
	s.mappings[code] = entry
	if err := saveMappings(s.storageFile, s.mappings); err != nil {
		return Mapping{}, err
	}

	return Mapping{
		ShortCode: code,
		ShortURL:  s.baseURL + code,
		LongURL:   entry.URL,
		CreatedAt: entry.CreatedAt,
		Method:    entry.Method,
		Clicks:    entry.Clicks,
	}, nil
}

// List returns every stored mapping.
func (s *Service) List() []Mapping {
	s.mu.Lock()
	defer s.mu.Unlock()

	ret := make([]Mapping, 0, len(s.mappings))
	for code, entry := range s.mappings {
		ret = append(ret, Mapping{
			ShortCode: code,
			ShortURL:  s.baseURL + code,
			LongURL:   entry.URL,
			CreatedAt: entry.CreatedAt,
			Method:    entry.Method,
			Clicks:    entry.Clicks,
		})
	}
	return ret
}

// Delete removes a mapping.
func (s *Service) Delete(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mappings[code]; !ok {
		return ErrNotFound
	}
	delete(s.mappings, code)
	if err := saveMappings(s.storageFile, s.mappings); err != nil {
		return err
	}
	log.Info("Deleted short code: %s", code)
	return nil
}

// GetStats reports totals across the mapping table.
func (s *Service) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	totalClicks := 0
	for _, entry := range s.mappings {
		totalClicks += entry.Clicks
	}
	return Stats{
		TotalURLs:   len(s.mappings),
		TotalClicks: totalClicks,
		StorageFile: s.storageFile,
		BaseURL:     s.baseURL,
	}
}

// hashCode derives a deterministic code: the same URL always maps to
// the same prefix of its MD5 digest.
func (s *Service) hashCode(longURL string) string {
	sum := md5.Sum([]byte(longURL))
	return hex.EncodeToString(sum[:])[:s.codeLength]
}

func (s *Service) randomCodeLocked() (string, error) {
	for attempts := 0; attempts < 100; attempts++ {
		b := make([]byte, s.codeLength)
		for i := range b {
			b[i] = randomCodeAlphabet[rand.Intn(len(randomCodeAlphabet))]
		}
		code := string(b)
		if _, exists := s.mappings[code]; !exists {
			return code, nil
		}
	}
	return "", ErrCodeSpace
}

// normalizeCustomDomain coerces a caller-supplied domain into the
// "https://domain/s/" shape short URLs are served from.
func normalizeCustomDomain(domain string) string {
	domain = strings.TrimRight(domain, "/")
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}
	if strings.HasSuffix(domain, "/s") {
		return domain + "/"
	}
	return domain + "/s/"
}
