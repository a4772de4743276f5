package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/redact"
)

// DispatcherConfig holds configuration options for the Dispatcher.
type DispatcherConfig struct {
	// QueueSize bounds the number of pending messages. If zero or negative, defaults to 1.
	QueueSize int
	// WorkerCount determines how many concurrent workers deliver messages.
	// If zero or negative, defaults to 1.
	WorkerCount int
	// SendTimeout bounds a single delivery attempt. Zero means no timeout.
	SendTimeout time.Duration
}

// Dispatcher delivers messages on a pool of worker goroutines, detached from
// the request that produced them. Enqueue never blocks.
type Dispatcher struct {
	notifier Notifier
	queue    chan Message
	workers  int
	timeout  time.Duration
	logger   *slog.Logger
	recorder Recorder

	// mu guards closed and serializes sends on queue against its close.
	mu     sync.RWMutex
	closed bool

	startOnce sync.Once
	wg        sync.WaitGroup
}

// NewDispatcher creates a dispatcher. Call Start to launch the workers.
func NewDispatcher(notifier Notifier, cfg DispatcherConfig, logger *slog.Logger) *Dispatcher {
	log := logger.With("component", "notify_dispatcher")

	workers := cfg.WorkerCount
	if workers <= 0 {
		log.Warn("invalid worker count specified, using default",
			"specified_count", cfg.WorkerCount,
			"default_count", 1)
		workers = 1
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = 1
	}

	return &Dispatcher{
		notifier: notifier,
		queue:    make(chan Message, size),
		workers:  workers,
		timeout:  cfg.SendTimeout,
		logger:   log,
		recorder: nopRecorder{},
	}
}

// SetRecorder installs an observer for delivery outcomes. Call before Start.
func (d *Dispatcher) SetRecorder(r Recorder) {
	if r != nil {
		d.recorder = r
	}
}

// Start launches the worker goroutines. Subsequent calls are no-ops.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		d.logger.Info("starting notification workers", "worker_count", d.workers)
		for i := 0; i < d.workers; i++ {
			d.wg.Add(1)
			go d.worker(i)
		}
	})
}

// Enqueue schedules msg for delivery without waiting. It returns
// ErrQueueFull or ErrDispatcherStopped when the message is dropped.
func (d *Dispatcher) Enqueue(msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.recorder.RecordNotification(ResultDropped)
		return ErrDispatcherStopped
	}

	select {
	case d.queue <- msg:
		d.logger.Debug("notification enqueued",
			"task_id", msg.TaskID,
			"queue_len", len(d.queue),
			"queue_cap", cap(d.queue))
		return nil
	default:
		d.recorder.RecordNotification(ResultDropped)
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(d.queue))
	}
}

// Stop refuses new messages, lets the workers drain what is queued and waits
// for them until ctx is done.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	// Workers that never started cannot drain the queue.
	d.Start()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("notification workers stopped")
		return nil
	case <-ctx.Done():
		d.logger.Warn("notification workers did not drain before deadline",
			"pending", len(d.queue))
		return ctx.Err()
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	log := d.logger.With("worker_id", id)
	for msg := range d.queue {
		d.deliver(log, msg)
	}
}

// deliver makes one attempt and only logs the outcome.
func (d *Dispatcher) deliver(log *slog.Logger, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("notifier panicked", "task_id", msg.TaskID, "panic", r)
			d.recorder.RecordNotification(ResultFailed)
		}
	}()

	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	err := d.notifier.Notify(ctx, msg)
	switch {
	case err == nil:
		d.recorder.RecordNotification(ResultSent)
	case errors.Is(err, ErrNotConfigured):
		log.Warn("email credentials not configured, skipping notification",
			"task_id", msg.TaskID)
		d.recorder.RecordNotification(ResultSkipped)
	default:
		log.Error("failed to deliver task notification",
			"task_id", msg.TaskID,
			"recipient", redact.Email(msg.AssigneeEmail),
			"error", redact.Error(err))
		d.recorder.RecordNotification(ResultFailed)
	}
}
