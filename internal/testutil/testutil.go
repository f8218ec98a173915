package testutil

import (
	"context"
	"sync"

	"travelfetcher/internal/fetcher"
)

// StubSource is a controllable implementation of controller.Source for testing
type StubSource[P, T any] struct {
	GetFunc func(ctx context.Context, params P) fetcher.Result[T]

	mu    sync.Mutex
	calls []P
}

// Get implements controller.Source and records the call
func (s *StubSource[P, T]) Get(ctx context.Context, params P) fetcher.Result[T] {
	s.mu.Lock()
	s.calls = append(s.calls, params)
	s.mu.Unlock()

	if s.GetFunc != nil {
		return s.GetFunc(ctx, params)
	}
	return fetcher.Failure[T](fetcher.NewUnknownError(nil))
}

// Calls returns the params of every Get so far, in call order
func (s *StubSource[P, T]) Calls() []P {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]P, len(s.calls))
	copy(out, s.calls)
	return out
}

// NewScriptedSource returns results in order and repeats the last one
// once the script is exhausted
func NewScriptedSource[P, T any](results ...fetcher.Result[T]) *StubSource[P, T] {
	var (
		mu   sync.Mutex
		next int
	)
	return &StubSource[P, T]{
		GetFunc: func(ctx context.Context, params P) fetcher.Result[T] {
			mu.Lock()
			defer mu.Unlock()
			if len(results) == 0 {
				return fetcher.Failure[T](fetcher.NewUnknownError(nil))
			}
			r := results[min(next, len(results)-1)]
			next++
			return r
		},
	}
}

// Gate holds each fetch until the test releases a result for its params
type Gate[P comparable, T any] struct {
	mu    sync.Mutex
	gates map[P]chan fetcher.Result[T]
}

// NewGate creates an empty Gate
func NewGate[P comparable, T any]() *Gate[P, T] {
	return &Gate[P, T]{gates: make(map[P]chan fetcher.Result[T])}
}

func (g *Gate[P, T]) channel(params P) chan fetcher.Result[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[params]
	if !ok {
		ch = make(chan fetcher.Result[T], 1)
		g.gates[params] = ch
	}
	return ch
}

// Release lets the pending fetch for params complete with r
func (g *Gate[P, T]) Release(params P, r fetcher.Result[T]) {
	g.channel(params) <- r
}

// Source returns a StubSource whose fetches block on the gate.
// A cancelled context ends the fetch with the classified context error.
func (g *Gate[P, T]) Source() *StubSource[P, T] {
	return &StubSource[P, T]{
		GetFunc: func(ctx context.Context, params P) fetcher.Result[T] {
			select {
			case r := <-g.channel(params):
				return r
			case <-ctx.Done():
				return fetcher.Failure[T](fetcher.ClassifyTransportError(ctx.Err()))
			}
		},
	}
}
