package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/awsaruna451/onetoolsbox-be/internal/caption"
	"github.com/awsaruna451/onetoolsbox-be/internal/cache"
	"github.com/awsaruna451/onetoolsbox-be/internal/config"
	"github.com/awsaruna451/onetoolsbox-be/internal/ytdlp"
	"github.com/awsaruna451/onetoolsbox-be/pkg/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
)

const downloadUserAgent = "Mozilla/5.0 (compatible; CaptionExtractor/1.0)"

// Service runs the extraction pipeline: metadata fetch, track
// selection, download, parse, cache. Concurrent requests for the same
// (url, output format) fingerprint are coalesced so the network work
// happens once.
type Service struct {
	yt      ytdlp.Client
	cache   *cache.Cache
	client  *http.Client
	cleaner caption.Cleaner
	cfg     config.CaptionsConfig

	group singleflight.Group
}

func NewService(yt ytdlp.Client, captionCache *cache.Cache, cfg config.CaptionsConfig) *Service {
	return &Service{
		yt:      yt,
		cache:   captionCache,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		cleaner: caption.Cleaner{MinTextLength: cfg.MinTextLength},
		cfg:     cfg,
	}
}

// Extract returns the caption set for the video, from cache when fresh.
func (s *Service) Extract(ctx context.Context, videoURL, outputFormat string) (*caption.Set, error) {
	fingerprint := cache.Fingerprint(videoURL, outputFormat)
	if set, ok := s.cache.Get(fingerprint); ok {
		log.Info("Returning cached captions for %s", videoURL)
		return set, nil
	}

	result, err, _ := s.group.Do(fingerprint, func() (any, error) {
		// A concurrent caller may have filled the cache while this
		// call waited for the flight slot.
		if set, ok := s.cache.Get(fingerprint); ok {
			return set, nil
		}
		set, err := s.extract(ctx, videoURL)
		if err != nil {
			return nil, err
		}
		s.cache.Put(fingerprint, set)
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*caption.Set), nil
}

// CleanText flattens segments into the deduplicated text blob.
func (s *Service) CleanText(segments []caption.Segment) string {
	return s.cleaner.Clean(segments)
}

func (s *Service) extract(ctx context.Context, videoURL string) (*caption.Set, error) {
	log.Info("Extracting captions from %s", videoURL)

	meta, err := s.yt.FetchMetadata(ctx, videoURL)
	if err != nil {
		return nil, WrapError(err, KindMetadata, "failed to extract video information")
	}
	if meta.Duration > s.cfg.MaxVideoDuration {
		return nil, NewError(KindDurationExceeded, fmt.Sprintf(
			"video duration (%.0fs) exceeds maximum allowed duration (%.0fs)",
			meta.Duration, s.cfg.MaxVideoDuration))
	}
	log.Info("Video: %s (duration: %.0fs)", meta.Title, meta.Duration)

	tracks, err := s.yt.ListTracks(ctx, videoURL)
	if err != nil {
		return nil, WrapError(err, KindMetadata, "failed to list subtitle tracks")
	}

	candidates := s.selectTrack(tracks)
	if len(candidates) == 0 {
		return nil, NewError(KindNoCaptions, fmt.Sprintf(
			"no %s captions available for this video", s.cfg.Language))
	}

	track, ok := pickPreferred(candidates, s.cfg.PreferredFormats)
	if !ok {
		return nil, NewError(KindUnsupportedFormat, "no subtitle track in a supported format")
	}
	if !caption.Supported(track.Ext) {
		return nil, NewError(KindUnsupportedFormat, fmt.Sprintf("unsupported subtitle format: %s", track.Ext))
	}

	payload, err := s.download(ctx, track.URL)
	if err != nil {
		return nil, err
	}
	log.Info("Downloaded captions in %s format", track.Ext)

	segments, err := caption.Parse(track.Ext, payload)
	if err != nil {
		return nil, WrapError(err, KindParse, "failed to parse captions")
	}

	log.Info("Successfully extracted %d caption segments", len(segments))
	return &caption.Set{
		VideoTitle:    meta.Title,
		VideoID:       meta.ID,
		VideoDuration: meta.Duration,
		Format:        track.Ext,
		TotalCaptions: len(segments),
		Captions:      segments,
	}, nil
}

// selectTrack prefers manually authored captions in the configured
// language over automatically generated ones.
func (s *Service) selectTrack(tracks ytdlp.Tracks) []ytdlp.Track {
	if found := tracksForLanguage(tracks.Manual, s.cfg.Language); len(found) > 0 {
		return found
	}
	return tracksForLanguage(tracks.Automatic, s.cfg.Language)
}

// tracksForLanguage matches track map keys against the wanted language
// by base code, so "en" also matches "en-US" and "en-orig" keys.
func tracksForLanguage(byLang map[string][]ytdlp.Track, want language.Tag) []ytdlp.Track {
	wantBase, _ := want.Base()

	if found, ok := byLang[wantBase.String()]; ok && len(found) > 0 {
		return found
	}
	for key, found := range byLang {
		if len(found) == 0 {
			continue
		}
		tag, err := language.Parse(key)
		if err != nil {
			continue
		}
		if base, _ := tag.Base(); base == wantBase {
			return found
		}
	}
	return nil
}

// pickPreferred returns the first track matching the preferred-format
// order.
func pickPreferred(candidates []ytdlp.Track, preferred []string) (ytdlp.Track, bool) {
	for _, format := range preferred {
		for _, track := range candidates {
			if track.Ext == format {
				return track, true
			}
		}
	}
	return ytdlp.Track{}, false
}

func (s *Service) download(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", WrapError(err, KindNetwork, "failed to build subtitle request")
	}
	req.Header.Set("User-Agent", downloadUserAgent)
	req.Header.Set("Accept", "text/plain,application/json,*/*")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return "", WrapError(err, KindNetwork, "failed to download captions")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", NewError(KindNetwork, fmt.Sprintf("subtitle download returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", WrapError(err, KindNetwork, "failed to read subtitle payload")
	}

	log.Debug("Subtitle download took %s (%d bytes)", time.Since(start), len(body))
	return string(body), nil
}
