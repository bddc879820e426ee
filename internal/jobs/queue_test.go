package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-consolidator/internal/result"
	"github.com/jonathan/profile-consolidator/internal/types"
)

// fakeConsolidator fails the first failRuns calls, then succeeds.
type fakeConsolidator struct {
	calls    atomic.Int64
	failRuns int64
}

func (f *fakeConsolidator) ConsolidateUserProfile(ctx context.Context, userID int64) result.Result[*types.Profile] {
	n := f.calls.Add(1)
	if n <= f.failRuns {
		return result.Err[*types.Profile](errors.New("transient failure"))
	}
	return result.Ok(&types.Profile{ID: uuid.New(), UserID: userID})
}

func waitForStatus(t *testing.T, q *Queue, id uuid.UUID, want Status) Task {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			task, _ := q.Get(id)
			t.Fatalf("timed out waiting for status %s, task is %+v", want, task)
		case <-time.After(5 * time.Millisecond):
			if task, ok := q.Get(id); ok && task.Status == want {
				return task
			}
		}
	}
}

func newTestQueue(t *testing.T, orch Consolidator, maxAttempts int) *Queue {
	t.Helper()
	q := NewQueue(orch, Config{
		Workers:     1,
		MaxAttempts: maxAttempts,
		BaseBackoff: time.Millisecond,
		QueueDepth:  4,
	}, nil)
	q.Start(context.Background())
	t.Cleanup(q.Stop)
	return q
}

func TestQueue_Succeeds(t *testing.T) {
	orch := &fakeConsolidator{}
	q := newTestQueue(t, orch, 3)

	id, err := q.Enqueue(42)
	require.NoError(t, err)

	task := waitForStatus(t, q, id, StatusSucceeded)
	assert.Equal(t, int64(42), task.UserID)
	assert.Equal(t, 1, task.Attempts)
	assert.Empty(t, task.Error)
	require.NotNil(t, task.Profile)
	assert.Equal(t, int64(42), task.Profile.UserID)
}

func TestQueue_RetriesThenSucceeds(t *testing.T) {
	orch := &fakeConsolidator{failRuns: 2}
	q := newTestQueue(t, orch, 3)

	id, err := q.Enqueue(42)
	require.NoError(t, err)

	task := waitForStatus(t, q, id, StatusSucceeded)
	assert.Equal(t, 3, task.Attempts)
	assert.Equal(t, int64(3), orch.calls.Load())
}

func TestQueue_ExhaustsRetries(t *testing.T) {
	orch := &fakeConsolidator{failRuns: 100}
	q := newTestQueue(t, orch, 3)

	id, err := q.Enqueue(42)
	require.NoError(t, err)

	task := waitForStatus(t, q, id, StatusFailed)
	assert.Equal(t, 3, task.Attempts)
	assert.Contains(t, task.Error, "transient failure")
	assert.Nil(t, task.Profile)
	assert.Equal(t, int64(3), orch.calls.Load())
}

func TestQueue_GetUnknownID(t *testing.T) {
	q := newTestQueue(t, &fakeConsolidator{}, 1)

	_, ok := q.Get(uuid.New())
	assert.False(t, ok)
}

func TestQueue_EnqueueFullQueue(t *testing.T) {
	// No workers started, so the buffer fills up.
	q := NewQueue(&fakeConsolidator{}, Config{
		Workers:    1,
		QueueDepth: 2,
	}, nil)

	_, err := q.Enqueue(1)
	require.NoError(t, err)
	_, err = q.Enqueue(2)
	require.NoError(t, err)

	id, err := q.Enqueue(3)
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, uuid.Nil, id)

	// The rejected task is not tracked.
	_, ok := q.Get(id)
	assert.False(t, ok)
}

func TestQueue_SnapshotIsolation(t *testing.T) {
	orch := &fakeConsolidator{}
	q := newTestQueue(t, orch, 1)

	id, err := q.Enqueue(42)
	require.NoError(t, err)
	task := waitForStatus(t, q, id, StatusSucceeded)

	// Mutating the snapshot must not affect the queue's copy.
	task.Status = StatusFailed
	task.Error = "tampered"

	fresh, ok := q.Get(id)
	require.True(t, ok)
	assert.Equal(t, StatusSucceeded, fresh.Status)
	assert.Empty(t, fresh.Error)
}
