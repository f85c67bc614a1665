package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDispatchesByType(t *testing.T) {
	q := NewQueue("test", QueueConfig{Workers: 2})
	done := make(chan string, 1)
	q.Register("blob.delete", func(_ context.Context, job Job) error {
		done <- job.Payload.(string)
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "blob.delete", Payload: "materials/a.pdf"}))

	select {
	case key := <-done:
		assert.Equal(t, "materials/a.pdf", key)
	case <-time.After(time.Second):
		t.Fatal("job was not processed")
	}
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	q := NewQueue("retry", QueueConfig{Workers: 1, MaxRetries: 3, RetryDelay: 5 * time.Millisecond})
	var calls int32
	done := make(chan struct{})
	q.Register("flaky", func(_ context.Context, _ Job) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{Type: "flaky"}))

	select {
	case <-done:
		assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	case <-time.After(2 * time.Second):
		t.Fatal("job did not succeed after retries")
	}
}

func TestQueueRejectsUnknownTypeAndStoppedQueue(t *testing.T) {
	q := NewQueue("reject", QueueConfig{})
	q.Register("known", func(context.Context, Job) error { return nil })

	assert.ErrorContains(t, q.Enqueue(Job{Type: "known"}), "not started")

	q.Start(context.Background())
	assert.ErrorContains(t, q.Enqueue(Job{Type: "other"}), "no handler")
	q.Stop()
	assert.ErrorContains(t, q.Enqueue(Job{Type: "known"}), "not started")
}
