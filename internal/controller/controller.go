package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sourcegraph/conc"

	"travelfetcher/internal/fetcher"
)

// Source produces one result per call. Repositories implement it.
type Source[P, T any] interface {
	Get(ctx context.Context, params P) fetcher.Result[T]
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	supersede bool
	equal     func(a, b any) bool
}

// WithSupersession makes every new request cancel the one before it and
// discard any completion that is not from the latest request. Without it
// results apply in completion order.
func WithSupersession() Option {
	return func(o *options) { o.supersede = true }
}

// WithEqual replaces the structural comparison used to suppress
// redundant Success updates.
func WithEqual(equal func(a, b any) bool) Option {
	return func(o *options) { o.equal = equal }
}

func structurallyEqual(a, b any) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}

type subscriber[T any] struct {
	id int
	fn func(fetcher.Result[T])
}

// Controller owns the current Result of one resource and decides when
// it changes. Subscribers are notified synchronously, in subscription
// order, each time the held Result is replaced. A subscriber must not
// call Request from inside its callback.
type Controller[P, T any] struct {
	name   string
	source Source[P, T]
	opts   options

	// applyMu serializes a state swap with the notifications it causes
	applyMu sync.Mutex

	mu          sync.RWMutex
	current     *fetcher.Result[T]
	lastParams  P
	issued      bool
	generation  uint64
	cancelPrev  context.CancelFunc
	subscribers []subscriber[T]
	nextID      int

	wg conc.WaitGroup
}

// New creates a Controller for one resource
func New[P, T any](name string, source Source[P, T], opts ...Option) *Controller[P, T] {
	o := options{equal: structurallyEqual}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[P, T]{
		name:   name,
		source: source,
		opts:   o,
	}
}

// Current returns the held result. ok is false before the first request.
func (c *Controller[P, T]) Current() (fetcher.Result[T], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return fetcher.Result[T]{}, false
	}
	return *c.current, true
}

// LastParams returns the parameters of the most recently issued request.
func (c *Controller[P, T]) LastParams() (P, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastParams, c.issued
}

// Subscribe registers fn for state changes and returns a function that
// removes it.
func (c *Controller[P, T]) Subscribe(fn func(fetcher.Result[T])) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subscribers = append(c.subscribers, subscriber[T]{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.subscribers {
				if s.id == id {
					c.subscribers = append(c.subscribers[:i:i], c.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

// Request fetches params in the background.
// Loading is published before Request returns when showLoadingIndicator
// is set or when nothing successful is held yet. A failed fetch is not
// retried; call Request again to recover.
func (c *Controller[P, T]) Request(ctx context.Context, params P, showLoadingIndicator bool) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.lastParams = params
	c.issued = true
	fetchCtx := ctx
	if c.opts.supersede {
		if c.cancelPrev != nil {
			c.cancelPrev()
		}
		fetchCtx, c.cancelPrev = context.WithCancel(ctx)
	}
	c.mu.Unlock()

	c.applyMu.Lock()
	c.mu.Lock()
	needLoading := showLoadingIndicator || c.current == nil || c.current.State() != fetcher.StateSuccess
	var subs []subscriber[T]
	loading := fetcher.Loading[T]()
	if needLoading {
		c.current = &loading
		subs = c.subscribersLocked()
	}
	c.mu.Unlock()
	c.notify(subs, loading)
	c.applyMu.Unlock()

	slog.Debug("fetch issued",
		"controller", c.name,
		"params", params,
		"show_loading", needLoading)

	c.wg.Go(func() {
		start := time.Now()
		res := c.source.Get(fetchCtx, params)
		c.complete(gen, params, res, time.Since(start))
	})
}

// complete applies the outcome of the request issued as generation gen.
func (c *Controller[P, T]) complete(gen uint64, params P, next fetcher.Result[T], elapsed time.Duration) {
	c.applyMu.Lock()
	defer c.applyMu.Unlock()

	c.mu.Lock()
	if c.opts.supersede && gen != c.generation {
		c.mu.Unlock()
		slog.Debug("superseded result dropped", "controller", c.name, "params", params)
		return
	}

	if c.current != nil {
		if held, ok := c.current.Data(); ok {
			if fresh, ok := next.Data(); ok && c.opts.equal(held, fresh) {
				c.mu.Unlock()
				slog.Debug("unchanged result ignored", "controller", c.name, "params", params)
				return
			}
		}
	}

	c.current = &next
	subs := c.subscribersLocked()
	c.mu.Unlock()

	if err := next.Err(); err != nil {
		slog.Warn("fetch failed",
			"controller", c.name,
			"params", params,
			"type", err.Type,
			"error", err.Error(),
			"elapsed", elapsed)
	} else {
		slog.Debug("state changed",
			"controller", c.name,
			"params", params,
			"state", next.State().String(),
			"elapsed", elapsed)
	}

	c.notify(subs, next)
}

func (c *Controller[P, T]) subscribersLocked() []subscriber[T] {
	if len(c.subscribers) == 0 {
		return nil
	}
	out := make([]subscriber[T], len(c.subscribers))
	copy(out, c.subscribers)
	return out
}

func (c *Controller[P, T]) notify(subs []subscriber[T], r fetcher.Result[T]) {
	for _, s := range subs {
		s.fn(r)
	}
}

// Wait blocks until every issued fetch has completed.
func (c *Controller[P, T]) Wait() {
	c.wg.Wait()
}

// Poll re-requests the most recent params every interval with the
// loading indicator suppressed, until ctx is done. Ticks before the
// first Request are skipped.
func (c *Controller[P, T]) Poll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			params, ok := c.LastParams()
			if !ok {
				continue
			}
			c.Request(ctx, params, false)
		}
	}
}
