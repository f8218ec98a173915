package fetcher

import "context"

// Fetcher is the core interface every gateway implements.
// A Fetcher performs exactly one remote request per call and reports
// the outcome as a Result; it never panics and never returns a Go error,
// every failure is carried as a Failed result.
type Fetcher[P, T any] interface {
	// Fetch issues one request with the given parameters.
	Fetch(ctx context.Context, params P) Result[T]
}
