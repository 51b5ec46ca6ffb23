package voice

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/awsaruna451/onetoolsbox-be/internal/config"
	"github.com/awsaruna451/onetoolsbox-be/internal/jobs"
	"github.com/awsaruna451/onetoolsbox-be/internal/storage"
	"github.com/awsaruna451/onetoolsbox-be/pkg/log"
)

var (
	ErrEmptyText           = errors.New("text cannot be empty")
	ErrMissingSample       = errors.New("sample_key is required")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Service turns synthesis requests into queued jobs and executes them:
// fetch the reference sample, call the inference server, store the
// generated audio.
type Service struct {
	store  storage.Store
	engine Engine
	queue  *jobs.Queue
	cfg    config.VoiceConfig
}

func NewService(store storage.Store, engine Engine, queue *jobs.Queue, cfg config.VoiceConfig) *Service {
	return &Service{
		store:  store,
		engine: engine,
		queue:  queue,
		cfg:    cfg,
	}
}

// EnqueueSynthesis validates the request and puts a job on the queue.
// An identical in-flight request returns the live job instead of a new
// one; the bool reports whether a job was created.
func (s *Service) EnqueueSynthesis(text, sampleKey, lang string) (*jobs.SynthesisJob, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false, ErrEmptyText
	}
	if sampleKey == "" {
		return nil, false, ErrMissingSample
	}

	if lang == "" {
		lang = DetectLanguage(text)
		log.Info("Detected language %q for synthesis request", lang)
	} else {
		lang = strings.ToLower(lang)
		if !IsSupportedLanguage(lang) {
			return nil, false, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
		}
	}

	job, created := s.queue.Enqueue(jobs.EnqueueRequest{
		Source:    "api",
		DedupeKey: dedupeKey(text, sampleKey, lang),
		Payload: jobs.JobPayload{
			Text:      text,
			SampleKey: sampleKey,
			Language:  lang,
		},
	})
	return job, created, nil
}

// Job returns a queued job by ID.
func (s *Service) Job(id string) (*jobs.SynthesisJob, bool) {
	return s.queue.Get(id)
}

// Jobs lists every job the queue currently holds.
func (s *Service) Jobs() []*jobs.SynthesisJob {
	return s.queue.List()
}

// Execute is the queue executor: one job, one synthesized audio object.
func (s *Service) Execute(ctx context.Context, job *jobs.SynthesisJob) (*jobs.JobResult, error) {
	sample, err := s.store.Download(ctx, job.Payload.SampleKey)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch voice sample %s: %w", job.Payload.SampleKey, err)
	}

	result, err := s.engine.Synthesize(ctx, SynthesisRequest{
		Text:        job.Payload.Text,
		Language:    job.Payload.Language,
		SampleName:  sampleName(job.Payload.SampleKey),
		SampleAudio: sample.Data,
	})
	if err != nil {
		return nil, err
	}

	uploaded, err := s.store.Upload(ctx, s.cfg.SpeechFolder, outputFilename(job.Payload.Text), result.Audio)
	if err != nil {
		return nil, fmt.Errorf("failed to store generated audio: %w", err)
	}

	duration, err := wavDuration(result.Audio)
	if err != nil {
		log.Warn("Could not read duration of generated audio for %s: %v", job.ID, err)
		duration = 0
	}

	log.Info("Synthesized %s in %.2fs (%.2fs of audio)", job.ID, result.GenerationTime.Seconds(), duration)
	return &jobs.JobResult{
		AudioKey:       uploaded.Key,
		AudioURL:       uploaded.URL,
		AudioDuration:  duration,
		GenerationTime: result.GenerationTime.Seconds(),
	}, nil
}

// CleanupExpired deletes generated audio past the retention window and
// prunes the matching finished jobs. Returns how many objects were
// removed.
func (s *Service) CleanupExpired(ctx context.Context) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)

	objects, err := s.store.List(ctx, s.cfg.SpeechFolder)
	if err != nil {
		return 0, fmt.Errorf("failed to list generated audio: %w", err)
	}

	removed := 0
	for _, obj := range objects {
		if obj.LastModified.After(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, obj.Key); err != nil {
			log.Error("Failed to delete expired audio %s: %v", obj.Key, err)
			continue
		}
		removed++
	}

	pruned := s.queue.PruneTerminalBefore(cutoff)
	log.Info("Retention sweep removed %d audio objects and %d finished jobs", removed, len(pruned))
	return removed, nil
}

func dedupeKey(text, sampleKey, lang string) string {
	sum := md5.Sum([]byte(text + "|" + sampleKey + "|" + lang))
	return hex.EncodeToString(sum[:])
}

// outputFilename names generated audio by timestamp plus a text hash so
// repeated texts stay distinguishable.
func outputFilename(text string) string {
	textHash := md5.Sum([]byte(text))
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("cloned_speech_%s_%s.wav", timestamp, hex.EncodeToString(textHash[:])[:8])
}

func sampleName(key string) string {
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		return key[idx+1:]
	}
	return key
}
