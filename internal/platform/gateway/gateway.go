// Package gateway owns the process-wide connection to the record store. It
// dials on start, health-checks the live handle, and after any failure tears
// the handle down and reconnects with exponential backoff, forever. Stores
// borrow the handle per operation and fail fast while it is down.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/phrazzld/tasktrack-api/internal/redact"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// Driver opens, checks and closes handles of type C.
type Driver[C any] struct {
	// Name identifies the backend in logs and metrics, e.g. "postgres".
	Name  string
	Dial  func(ctx context.Context) (C, error)
	Ping  func(ctx context.Context, conn C) error
	Close func(ctx context.Context, conn C) error
}

// Defaults applied by New for unset Config fields.
const (
	DefaultHealthInterval      = 10 * time.Second
	DefaultInitialInterval     = 5 * time.Second
	DefaultRandomizationFactor = 0.2
)

// Config controls connection supervision.
type Config struct {
	ConnectTimeout      time.Duration
	PingTimeout         time.Duration
	HealthInterval      time.Duration
	InitialInterval     time.Duration
	MaxInterval         time.Duration
	RandomizationFactor float64
}

// Recorder observes connection state, typically for metrics.
type Recorder interface {
	RecordGatewayState(name string, up bool)
	RecordDialAttempt(name string, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordGatewayState(string, bool) {}
func (nopRecorder) RecordDialAttempt(string, error) {}

// Gateway supervises a single handle of type C.
type Gateway[C any] struct {
	driver   Driver[C]
	cfg      Config
	logger   *slog.Logger
	recorder Recorder

	// mu guards handle and connected. Only the supervisor goroutine writes.
	mu        sync.RWMutex
	handle    C
	connected bool

	ready     chan struct{}
	readyOnce sync.Once

	// down carries MarkDown signals to the supervisor.
	down chan error

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a gateway. Nothing is dialed until Start.
func New[C any](driver Driver[C], cfg Config, logger *slog.Logger) *Gateway[C] {
	if cfg.RandomizationFactor < 0 || cfg.RandomizationFactor >= 1 {
		cfg.RandomizationFactor = DefaultRandomizationFactor
	}
	if cfg.HealthInterval <= 0 {
		cfg.HealthInterval = DefaultHealthInterval
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = DefaultInitialInterval
	}
	if cfg.MaxInterval < cfg.InitialInterval {
		cfg.MaxInterval = cfg.InitialInterval
	}
	return &Gateway[C]{
		driver:   driver,
		cfg:      cfg,
		logger:   logger.With("component", "gateway", "backend", driver.Name),
		recorder: nopRecorder{},
		ready:    make(chan struct{}),
		down:     make(chan error, 1),
		done:     make(chan struct{}),
	}
}

// SetRecorder installs an observer for connection state. Call before Start.
func (g *Gateway[C]) SetRecorder(r Recorder) {
	if r != nil {
		g.recorder = r
	}
}

// Start launches the supervisor. The first dial happens immediately and is
// retried until it succeeds or ctx is canceled.
func (g *Gateway[C]) Start(ctx context.Context) {
	g.startOnce.Do(func() {
		ctx, g.cancel = context.WithCancel(ctx)
		g.recorder.RecordGatewayState(g.driver.Name, false)
		go g.run(ctx)
	})
}

// Handle returns the live handle, or store.ErrStoreUnavailable while
// disconnected. Callers must not close it.
func (g *Gateway[C]) Handle() (C, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.connected {
		var zero C
		return zero, store.ErrStoreUnavailable
	}
	return g.handle, nil
}

// Connected reports whether a live handle is available.
func (g *Gateway[C]) Connected() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.connected
}

// WaitReady blocks until the first successful connection or until ctx is
// done. It is the readiness hook for callers that want to know when the
// store first became reachable.
func (g *Gateway[C]) WaitReady(ctx context.Context) error {
	select {
	case <-g.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for %s: %w", g.driver.Name, ctx.Err())
	}
}

// MarkDown reports that an operation on the current handle failed at the
// connection level. The supervisor closes the handle and reconnects.
func (g *Gateway[C]) MarkDown(err error) {
	if !g.Connected() {
		return
	}
	select {
	case g.down <- err:
	default:
		// A signal is already pending.
	}
}

// Close stops the supervisor and closes the live handle.
func (g *Gateway[C]) Close(ctx context.Context) error {
	if g.cancel == nil {
		return nil
	}
	g.cancel()

	select {
	case <-g.done:
	case <-ctx.Done():
		return fmt.Errorf("gateway supervisor did not stop: %w", ctx.Err())
	}

	g.mu.Lock()
	handle, wasConnected := g.handle, g.connected
	var zero C
	g.handle, g.connected = zero, false
	g.mu.Unlock()

	if !wasConnected {
		return nil
	}
	g.recorder.RecordGatewayState(g.driver.Name, false)
	if err := g.driver.Close(ctx, handle); err != nil {
		return fmt.Errorf("failed to close %s connection: %w", g.driver.Name, err)
	}
	g.logger.Info("record store connection closed")
	return nil
}

func (g *Gateway[C]) run(ctx context.Context) {
	defer close(g.done)

	for {
		if err := g.connect(ctx); err != nil {
			return
		}
		if !g.monitor(ctx) {
			return
		}
	}
}

func (g *Gateway[C]) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.cfg.InitialInterval
	b.MaxInterval = g.cfg.MaxInterval
	b.RandomizationFactor = g.cfg.RandomizationFactor
	// Never give up: the store outage is expected to heal.
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(b, ctx)
}

// connect dials until success. It returns an error only when ctx is done.
func (g *Gateway[C]) connect(ctx context.Context) error {
	attempt := 0
	operation := func() error {
		attempt++
		dialCtx, cancel := g.withTimeout(ctx, g.cfg.ConnectTimeout)
		defer cancel()

		conn, err := g.driver.Dial(dialCtx)
		if err == nil {
			if err = g.driver.Ping(dialCtx, conn); err != nil {
				_ = g.driver.Close(ctx, conn)
			}
		}
		g.recorder.RecordDialAttempt(g.driver.Name, err)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}

		g.setConnected(conn)
		return nil
	}

	notify := func(err error, next time.Duration) {
		g.logger.Warn("record store connection failed, retrying",
			"attempt", attempt,
			"retry_in", next,
			"error", redact.Error(err))
	}

	if err := backoff.RetryNotify(operation, g.newBackOff(ctx), notify); err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	g.logger.Info("record store connected", "attempts", attempt)
	return nil
}

// monitor health-checks the live handle. It returns false when ctx is done
// and true after the handle was torn down and must be re-dialed.
func (g *Gateway[C]) monitor(ctx context.Context) bool {
	ticker := time.NewTicker(g.cfg.HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case err := <-g.down:
			g.disconnect(ctx, err)
			return true
		case <-ticker.C:
			g.mu.RLock()
			conn := g.handle
			g.mu.RUnlock()

			pingCtx, cancel := g.withTimeout(ctx, g.cfg.PingTimeout)
			err := g.driver.Ping(pingCtx, conn)
			cancel()
			if err != nil {
				if ctx.Err() != nil {
					return false
				}
				g.disconnect(ctx, err)
				return true
			}
		}
	}
}

func (g *Gateway[C]) setConnected(conn C) {
	// Drop stale signals raised against a previous handle.
	select {
	case <-g.down:
	default:
	}

	g.mu.Lock()
	g.handle = conn
	g.connected = true
	g.mu.Unlock()

	g.recorder.RecordGatewayState(g.driver.Name, true)
	g.readyOnce.Do(func() { close(g.ready) })
}

func (g *Gateway[C]) disconnect(ctx context.Context, cause error) {
	g.mu.Lock()
	conn := g.handle
	var zero C
	g.handle, g.connected = zero, false
	g.mu.Unlock()

	g.recorder.RecordGatewayState(g.driver.Name, false)
	g.logger.Error("record store connection lost, reconnecting",
		"error", redact.Error(cause))

	closeCtx, cancel := g.withTimeout(ctx, g.cfg.ConnectTimeout)
	defer cancel()
	if err := g.driver.Close(closeCtx, conn); err != nil {
		g.logger.Debug("error closing broken connection", "error", redact.Error(err))
	}
}

func (g *Gateway[C]) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
