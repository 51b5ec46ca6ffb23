package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okExecutor(_ context.Context, _ *SynthesisJob) (*JobResult, error) {
	return &JobResult{AudioKey: "generated_speech/out.wav"}, nil
}

func TestQueue_Enqueue_DeduplicatesSameKey(t *testing.T) {
	q := NewQueue(2, nil)

	jobA, createdA := q.Enqueue(EnqueueRequest{
		Source:    "api",
		DedupeKey: "text1|sample1|en",
	})
	jobB, createdB := q.Enqueue(EnqueueRequest{
		Source:    "api",
		DedupeKey: "text1|sample1|en",
	})

	require.True(t, createdA)
	require.False(t, createdB)
	require.NotNil(t, jobA)
	require.NotNil(t, jobB)
	assert.Equal(t, jobA.ID, jobB.ID)
}

func TestQueue_Enqueue_AllowsRetryAfterFailure(t *testing.T) {
	q := NewQueue(1, nil)

	var attempts int
	q.Start(func(_ context.Context, _ *SynthesisJob) (*JobResult, error) {
		attempts++
		if attempts == 1 {
			return nil, assert.AnError
		}
		return &JobResult{AudioKey: "generated_speech/retry.wav"}, nil
	})
	defer q.Stop()

	first, created := q.Enqueue(EnqueueRequest{
		Source:    "api",
		DedupeKey: "retry-key",
	})
	require.True(t, created)
	require.NotNil(t, first)

	require.Eventually(t, func() bool {
		got, ok := q.Get(first.ID)
		return ok && got != nil && got.Status == StatusFailed
	}, time.Second, 10*time.Millisecond)

	second, created := q.Enqueue(EnqueueRequest{
		Source:    "api",
		DedupeKey: "retry-key",
	})
	require.True(t, created)
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)

	require.Eventually(t, func() bool {
		got, ok := q.Get(second.ID)
		return ok && got != nil && got.Status == StatusSuccess
	}, time.Second, 10*time.Millisecond)
}

func TestQueue_Enqueue_AllowsRetryAfterSuccess(t *testing.T) {
	q := NewQueue(1, nil)
	q.Start(okExecutor)
	defer q.Stop()

	first, created := q.Enqueue(EnqueueRequest{
		Source:    "api",
		DedupeKey: "done-key",
	})
	require.True(t, created)
	require.NotNil(t, first)

	require.Eventually(t, func() bool {
		got, ok := q.Get(first.ID)
		return ok && got != nil && got.Status == StatusSuccess
	}, time.Second, 10*time.Millisecond)

	second, created := q.Enqueue(EnqueueRequest{
		Source:    "api",
		DedupeKey: "done-key",
	})
	require.True(t, created)
	require.NotNil(t, second)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestQueue_Worker_RecordsResult(t *testing.T) {
	q := NewQueue(1, nil)
	q.Start(func(_ context.Context, job *SynthesisJob) (*JobResult, error) {
		return &JobResult{
			AudioKey:      "generated_speech/" + job.ID + ".wav",
			AudioDuration: 3.2,
		}, nil
	})
	defer q.Stop()

	job, _ := q.Enqueue(EnqueueRequest{
		Source:    "api",
		DedupeKey: "k1",
	})

	require.Eventually(t, func() bool {
		got, ok := q.Get(job.ID)
		return ok && got != nil && got.Status == StatusSuccess
	}, time.Second, 10*time.Millisecond)

	got, ok := q.Get(job.ID)
	require.True(t, ok)
	require.NotNil(t, got.Result)
	assert.Equal(t, "generated_speech/"+job.ID+".wav", got.Result.AudioKey)
	assert.InDelta(t, 3.2, got.Result.AudioDuration, 0.001)
}

func TestQueue_PruneTerminalBefore(t *testing.T) {
	store := newMemoryStore()
	q := NewQueue(1, store)
	q.Start(okExecutor)
	defer q.Stop()

	job, _ := q.Enqueue(EnqueueRequest{Source: "api", DedupeKey: "old"})
	require.Eventually(t, func() bool {
		got, ok := q.Get(job.ID)
		return ok && got.Status == StatusSuccess
	}, time.Second, 10*time.Millisecond)

	pruned := q.PruneTerminalBefore(time.Now().Add(time.Minute))
	require.Len(t, pruned, 1)
	assert.Equal(t, job.ID, pruned[0].ID)

	_, ok := q.Get(job.ID)
	assert.False(t, ok)
	assert.NotContains(t, store.jobs, job.ID)
}

func TestQueue_PruneTerminalBefore_KeepsLiveJobs(t *testing.T) {
	q := NewQueue(1, nil)

	// Not started, so the job stays pending.
	job, _ := q.Enqueue(EnqueueRequest{Source: "api", DedupeKey: "live"})

	pruned := q.PruneTerminalBefore(time.Now().Add(time.Minute))
	assert.Empty(t, pruned)

	_, ok := q.Get(job.ID)
	assert.True(t, ok)
}
