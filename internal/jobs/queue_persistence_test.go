package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	jobs map[string]*SynthesisJob
}

func newMemoryStore() *memoryStore {
	return &memoryStore{jobs: make(map[string]*SynthesisJob)}
}

func (m *memoryStore) LoadJobs(_ context.Context) ([]*SynthesisJob, error) {
	ret := make([]*SynthesisJob, 0, len(m.jobs))
	for _, j := range m.jobs {
		ret = append(ret, cloneJob(j))
	}
	return ret, nil
}

func (m *memoryStore) UpsertJob(_ context.Context, job *SynthesisJob) error {
	m.jobs[job.ID] = cloneJob(job)
	return nil
}

func (m *memoryStore) DeleteJob(_ context.Context, jobID string) error {
	delete(m.jobs, jobID)
	return nil
}

func TestQueue_RecoversPendingAndRunningJobsFromStore(t *testing.T) {
	store := newMemoryStore()
	now := time.Now()
	store.jobs["job-1"] = &SynthesisJob{
		ID:        "job-1",
		Source:    "api",
		DedupeKey: "t1|s1|en",
		Status:    StatusPending,
		Payload: JobPayload{
			Text:      "hello there",
			SampleKey: "voice_samples/a.wav",
			Language:  "en",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	store.jobs["job-2"] = &SynthesisJob{
		ID:        "job-2",
		Source:    "api",
		DedupeKey: "t2|s2|en",
		Status:    StatusRunning,
		Payload: JobPayload{
			Text:      "general kenobi",
			SampleKey: "voice_samples/b.wav",
			Language:  "en",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	q := NewQueue(1, store)

	hydrated := q.List()
	require.Len(t, hydrated, 2)
	byID := map[string]*SynthesisJob{}
	for _, j := range hydrated {
		byID[j.ID] = j
	}
	require.Contains(t, byID, "job-2")
	assert.Equal(t, StatusPending, byID["job-2"].Status)

	q.Start(okExecutor)
	defer q.Stop()

	require.Eventually(t, func() bool {
		got, ok := q.Get("job-1")
		return ok && got.Status == StatusSuccess
	}, time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		got, ok := q.Get("job-2")
		return ok && got.Status == StatusSuccess
	}, time.Second, 10*time.Millisecond)
}

func TestQueue_NewJobIDsContinueAfterRestart(t *testing.T) {
	store := newMemoryStore()
	now := time.Now()
	store.jobs["job-7"] = &SynthesisJob{
		ID:        "job-7",
		Status:    StatusSuccess,
		CreatedAt: now,
		UpdatedAt: now,
	}

	q := NewQueue(1, store)
	job, created := q.Enqueue(EnqueueRequest{Source: "api", DedupeKey: "fresh"})
	require.True(t, created)
	assert.Equal(t, "job-8", job.ID)
}
