// Package dispatch forwards verified payloads to a downstream sink without
// blocking the caller.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/JaimeStill/dataserver/pkg/lifecycle"
)

// Outcome is the result of a single dispatch.
type Outcome struct {
	Delivered bool
	Response  string
	Err       error
	Duration  time.Duration
}

// Dispatcher delivers payloads on a bounded pool of goroutines.
// Dispatches beyond the pool size queue for a slot instead of being dropped.
// Queue wait and delivery are each bounded by the timeout, independent of
// any request context.
type Dispatcher struct {
	sink    Sink
	sem     *semaphore.Weighted
	timeout time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New creates a Dispatcher that runs at most maxConcurrent deliveries at once,
// each bounded by timeout.
func New(sink Sink, maxConcurrent int, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sink:    sink,
		sem:     semaphore.NewWeighted(int64(max(maxConcurrent, 1))),
		timeout: timeout,
		logger:  logger.With("system", "dispatch"),
	}
}

// Dispatch starts delivery of payload and returns immediately. The returned
// channel receives exactly one Outcome; callers may ignore it.
func (d *Dispatcher) Dispatch(payload string) <-chan Outcome {
	out := make(chan Outcome, 1)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.finish(out, payload, Outcome{Err: ErrClosed})
		return out
	}

	d.wg.Go(func() {
		d.finish(out, payload, d.deliver(payload))
	})

	return out
}

// Close stops accepting dispatches and blocks until every queued and
// in-flight delivery has finished.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
}

// Start registers a shutdown hook that drains queued and in-flight deliveries.
func (d *Dispatcher) Start(lc *lifecycle.Coordinator) error {
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.logger.Info("draining dispatches")
		d.Close()
		d.logger.Info("dispatch drained")
	})
	return nil
}

func (d *Dispatcher) deliver(payload string) Outcome {
	start := time.Now()

	queueCtx, cancelQueue := context.WithTimeout(context.Background(), d.timeout)
	defer cancelQueue()

	if err := d.sem.Acquire(queueCtx, 1); err != nil {
		return Outcome{
			Err:      fmt.Errorf("%w: %w", ErrSaturated, err),
			Duration: time.Since(start),
		}
	}
	defer d.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	resp, err := d.sink.Send(ctx, payload)
	return Outcome{
		Delivered: err == nil,
		Response:  resp,
		Err:       err,
		Duration:  time.Since(start),
	}
}

func (d *Dispatcher) finish(out chan<- Outcome, payload string, o Outcome) {
	d.complete(payload, o)
	out <- o
	close(out)
}

func (d *Dispatcher) complete(payload string, o Outcome) {
	if o.Delivered {
		d.logger.Info(
			"dispatch delivered",
			"bytes", len(payload),
			"duration", o.Duration,
		)
		return
	}
	d.logger.Warn(
		"dispatch failed",
		"bytes", len(payload),
		"duration", o.Duration,
		"error", o.Err,
	)
}
