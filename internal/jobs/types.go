package jobs

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

type EnqueueRequest struct {
	Source    string
	DedupeKey string
	Payload   JobPayload
}

// JobPayload is the synthesis input: what to say, whose voice, which
// language.
type JobPayload struct {
	Text      string `json:"text"`
	SampleKey string `json:"sample_key"`
	Language  string `json:"language"`
}

// JobResult points at the generated audio object.
type JobResult struct {
	AudioKey       string  `json:"audio_key"`
	AudioURL       string  `json:"audio_url"`
	AudioDuration  float64 `json:"audio_duration"`
	GenerationTime float64 `json:"generation_time"`
}

type SynthesisJob struct {
	ID        string     `json:"id"`
	Source    string     `json:"source"`
	DedupeKey string     `json:"dedupe_key"`
	Payload   JobPayload `json:"payload"`
	Status    Status     `json:"status"`
	Error     string     `json:"error,omitempty"`
	Result    *JobResult `json:"result,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
