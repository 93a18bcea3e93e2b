package tasks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// Options controls retry behaviour.
type Options struct {
	// MaxAttempts is the number of tries per task, including the first.
	MaxAttempts uint

	// InitialInterval is the wait before the first retry.
	InitialInterval time.Duration

	// MaxInterval caps the wait between retries.
	MaxInterval time.Duration

	// Timeout bounds a single attempt. Zero means no bound.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts == 0 {
		o.MaxAttempts = 3
	}
	if o.InitialInterval <= 0 {
		o.InitialInterval = 200 * time.Millisecond
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = 5 * time.Second
	}
	return o
}

// Runner executes detached tasks. Tasks submitted under the same key run one
// at a time in submission order; different keys run concurrently.
type Runner struct {
	opts Options
	log  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	queues map[string][]func(context.Context) error
	wg     sync.WaitGroup
}

// NewRunner creates a Runner.
func NewRunner(opts Options, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		opts:   opts.withDefaults(),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		queues: make(map[string][]func(context.Context) error),
	}
}

// Go queues task under key.
func (r *Runner) Go(key string, task func(ctx context.Context) error) {
	r.wg.Add(1)

	r.mu.Lock()
	q, busy := r.queues[key]
	r.queues[key] = append(q, task)
	r.mu.Unlock()

	if !busy {
		go r.drain(key)
	}
}

// Wait blocks until every queued task has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Shutdown waits for queued tasks until ctx is done, then cancels the rest.
func (r *Runner) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.cancel()
		return nil
	case <-ctx.Done():
		r.cancel()
		<-done
		return ctx.Err()
	}
}

func (r *Runner) drain(key string) {
	for {
		r.mu.Lock()
		q := r.queues[key]
		if len(q) == 0 {
			delete(r.queues, key)
			r.mu.Unlock()
			return
		}
		task := q[0]
		r.queues[key] = q[1:]
		r.mu.Unlock()

		r.run(key, task)
		r.wg.Done()
	}
}

func (r *Runner) run(key string, task func(context.Context) error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.opts.InitialInterval
	b.MaxInterval = r.opts.MaxInterval

	attempt := 0
	op := func() (struct{}, error) {
		attempt++
		ctx := r.ctx
		if r.opts.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
			defer cancel()
		}
		err := task(ctx)
		if err != nil && errors.Is(err, context.Canceled) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(r.ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(r.opts.MaxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			r.log.Debug("Retrying background task",
				zap.String("key", key), zap.Int("attempt", attempt), zap.Duration("next", next), zap.Error(err))
		}),
	)
	if err != nil {
		r.log.Warn("Background task failed",
			zap.String("key", key), zap.Int("attempts", attempt), zap.Error(err))
	}
}
