package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"resty.dev/v3"
)

const (
	// RequestIDHeader tags every outgoing request for log correlation.
	RequestIDHeader = "X-Request-ID"

	defaultTimeout = 30 * time.Second
)

// NewHTTPClient creates a new HTTP client for one remote API.
// Retries are disabled: a failed fetch is terminal and recovery is an
// explicit re-request by the caller. A zero timeout selects the default.
func NewHTTPClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetRetryCount(0).
		AddResponseMiddleware(logResponse)

	return client
}

// logResponse logs every completed exchange for observability
func logResponse(_ *resty.Client, r *resty.Response) error {
	slog.Debug("http response",
		"url", r.Request.URL,
		"request_id", r.Request.Header.Get(RequestIDHeader),
		"status_code", r.StatusCode(),
		"duration", r.Duration())
	return nil
}

// Get performs a GET request and returns the raw body of a 2xx response.
// Transport failures and non-2xx statuses are classified; decoding the
// body is left to the caller.
func Get(ctx context.Context, client *resty.Client, path string, params map[string]string) ([]byte, *FetchError) {
	requestID := uuid.NewString()

	resp, err := client.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, requestID).
		SetQueryParams(params).
		Get(path)

	if err != nil {
		slog.Debug("http request failed",
			"path", path,
			"request_id", requestID,
			"error", err.Error())
		return nil, ClassifyTransportError(err)
	}

	if !resp.IsSuccess() {
		return nil, ClassifyHTTPError(resp.StatusCode(), resp.Status())
	}

	return resp.Bytes(), nil
}

// Recover converts a panic inside a gateway into an unknown Failed
// result. Use as: defer fetcher.Recover(&res).
func Recover[T any](res *Result[T]) {
	if p := recover(); p != nil {
		err, ok := p.(error)
		if !ok {
			err = fmt.Errorf("%v", p)
		}
		slog.Error("recovered panic in fetch", "error", err.Error())
		*res = Failure[T](NewUnknownError(err))
	}
}
