package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Format string
	Path   string
}

func TestQueueDeliversTypedPayload(t *testing.T) {
	var mu sync.Mutex
	var got []testPayload
	queue := NewQueue("test", func(ctx context.Context, job Job[testPayload]) error {
		mu.Lock()
		got = append(got, job.Payload)
		mu.Unlock()
		return nil
	}, QueueConfig{Workers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.Start(ctx)
	defer queue.Stop()

	require.NoError(t, queue.Enqueue(Job[testPayload]{ID: "j-1", Payload: testPayload{Format: "csv", Path: "a.csv"}}))
	require.NoError(t, queue.Enqueue(Job[testPayload]{ID: "j-2", Payload: testPayload{Format: "pdf", Path: "b.pdf"}}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	queue := NewQueue("test", func(ctx context.Context, job Job[testPayload]) error {
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts < 2 {
			return errors.New("transient")
		}
		return nil
	}, QueueConfig{Workers: 1, MaxRetries: 3, RetryDelay: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.Start(ctx)
	defer queue.Stop()

	require.NoError(t, queue.Enqueue(Job[testPayload]{ID: "j-1"}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attempts == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestQueueRejectsEnqueueBeforeStart(t *testing.T) {
	queue := NewQueue("test", func(ctx context.Context, job Job[testPayload]) error {
		return nil
	}, QueueConfig{})

	err := queue.Enqueue(Job[testPayload]{ID: "j-1"})

	assert.Error(t, err)
}
