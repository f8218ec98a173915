package fetcher

import "fmt"

// State identifies which variant of a Result is active.
type State int

const (
	// StateLoading means a fetch is in flight.
	StateLoading State = iota
	// StateSuccess means the fetch produced data.
	StateSuccess
	// StateFailed means the fetch terminated with an error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result represents the outcome of a fetch operation.
// Exactly one variant is active. All fields are unexported so a Result
// can only be built through Loading, Success or Failure and never
// changes after construction.
type Result[T any] struct {
	state State
	data  T
	err   *FetchError
}

// Loading returns the in-flight variant.
func Loading[T any]() Result[T] {
	return Result[T]{state: StateLoading}
}

// Success wraps fetched data.
func Success[T any](data T) Result[T] {
	return Result[T]{state: StateSuccess, data: data}
}

// Failure wraps a classified fetch error. A nil err is turned into an
// unknown error so a Failed result always carries a message.
func Failure[T any](err *FetchError) Result[T] {
	if err == nil {
		err = NewUnknownError(nil)
	}
	return Result[T]{state: StateFailed, err: err}
}

// State reports the active variant.
func (r Result[T]) State() State {
	return r.state
}

// Data returns the payload and true for the Success variant.
func (r Result[T]) Data() (T, bool) {
	return r.data, r.state == StateSuccess
}

// Err returns the classified error for the Failed variant, nil otherwise.
func (r Result[T]) Err() *FetchError {
	if r.state != StateFailed {
		return nil
	}
	return r.err
}

// Message returns the human-readable error message, or "" unless Failed.
func (r Result[T]) Message() string {
	if r.state != StateFailed {
		return ""
	}
	return r.err.Error()
}

func (r Result[T]) String() string {
	switch r.state {
	case StateSuccess:
		return "Success"
	case StateFailed:
		return fmt.Sprintf("Error(%s)", r.err.Error())
	default:
		return "Loading"
	}
}

// Match dispatches on the active variant. All three handlers are
// required, so every consumer covers every variant.
func Match[T, R any](r Result[T], onLoading func() R, onSuccess func(T) R, onFailure func(*FetchError) R) R {
	switch r.state {
	case StateSuccess:
		return onSuccess(r.data)
	case StateFailed:
		return onFailure(r.err)
	default:
		return onLoading()
	}
}
