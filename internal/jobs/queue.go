// Package jobs provides the asynchronous trigger surface: an in-memory task
// queue that runs consolidations on worker goroutines, retries failed runs a
// fixed number of times with exponential backoff, and exposes task status
// polling by opaque task id.
package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/profile-consolidator/internal/result"
	"github.com/jonathan/profile-consolidator/internal/types"
)

// Consolidator is satisfied by pipeline.Orchestrator.
type Consolidator interface {
	ConsolidateUserProfile(ctx context.Context, userID int64) result.Result[*types.Profile]
}

// Status is the lifecycle state of a queued task.
type Status string

// Task lifecycle states.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Task is a queued consolidation request. Snapshots returned by Get are
// copies; callers never share memory with the worker.
type Task struct {
	ID        uuid.UUID      `json:"id"`
	UserID    int64          `json:"user_id"`
	Status    Status         `json:"status"`
	Attempts  int            `json:"attempts"`
	Error     string         `json:"error,omitempty"`
	Profile   *types.Profile `json:"profile,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Config bounds the queue's workers and retry policy.
type Config struct {
	Workers     int
	MaxAttempts int
	// BaseBackoff doubles after each failed attempt.
	BaseBackoff time.Duration
	QueueDepth  int
}

// Queue runs consolidations asynchronously.
type Queue struct {
	orch   Consolidator
	cfg    Config
	logger *zap.Logger

	mu    sync.RWMutex
	tasks map[uuid.UUID]*Task

	work chan uuid.UUID
	wg   sync.WaitGroup

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewQueue creates a queue; Start must be called before Enqueue is useful.
func NewQueue(orch Consolidator, cfg Config, logger *zap.Logger) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = time.Second
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = 128
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{
		orch:    orch,
		cfg:     cfg,
		logger:  logger,
		tasks:   make(map[uuid.UUID]*Task),
		work:    make(chan uuid.UUID, cfg.QueueDepth),
		stopped: make(chan struct{}),
	}
}

// Start launches the worker goroutines. Workers exit when ctx is cancelled or
// Stop is called.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.cfg.Workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
}

// Stop drains the workers and waits for in-flight tasks to finish.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() { close(q.stopped) })
	q.wg.Wait()
}

// ErrQueueFull is returned by Enqueue when the work buffer is at capacity.
var ErrQueueFull = errors.New("jobs: queue is full")

// Enqueue registers a consolidation task for the user and returns its id.
// It does not block; when the work buffer is full it returns ErrQueueFull.
func (q *Queue) Enqueue(userID int64) (uuid.UUID, error) {
	now := time.Now()
	task := &Task{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	q.mu.Lock()
	q.tasks[task.ID] = task
	q.mu.Unlock()

	select {
	case q.work <- task.ID:
		return task.ID, nil
	default:
		q.mu.Lock()
		delete(q.tasks, task.ID)
		q.mu.Unlock()
		return uuid.Nil, ErrQueueFull
	}
}

// Get returns a snapshot of the task, or false when the id is unknown.
func (q *Queue) Get(id uuid.UUID) (Task, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	task, ok := q.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *task, true
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.stopped:
			return
		case id := <-q.work:
			q.run(ctx, id)
		}
	}
}

// run executes one task with bounded retries. The whole orchestrator call is
// retried on any error result; backoff doubles between attempts.
func (q *Queue) run(ctx context.Context, id uuid.UUID) {
	q.update(id, func(t *Task) { t.Status = StatusRunning })

	task, ok := q.Get(id)
	if !ok {
		return
	}

	backoff := q.cfg.BaseBackoff
	var lastErr error
	for attempt := 1; attempt <= q.cfg.MaxAttempts; attempt++ {
		q.update(id, func(t *Task) { t.Attempts = attempt })

		profile, err := q.orch.ConsolidateUserProfile(ctx, task.UserID).Unpack()
		if err == nil {
			q.update(id, func(t *Task) {
				t.Status = StatusSucceeded
				t.Profile = profile
				t.Error = ""
			})
			return
		}
		lastErr = err

		q.logger.Warn("consolidation attempt failed",
			zap.Stringer("task_id", id),
			zap.Int64("user_id", task.UserID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < q.cfg.MaxAttempts {
			select {
			case <-ctx.Done():
				q.fail(id, ctx.Err())
				return
			case <-q.stopped:
				q.fail(id, lastErr)
				return
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	q.fail(id, lastErr)
}

func (q *Queue) fail(id uuid.UUID, err error) {
	q.update(id, func(t *Task) {
		t.Status = StatusFailed
		if err != nil {
			t.Error = err.Error()
		}
	})
}

func (q *Queue) update(id uuid.UUID, fn func(*Task)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if task, ok := q.tasks[id]; ok {
		fn(task)
		task.UpdatedAt = time.Now()
	}
}
