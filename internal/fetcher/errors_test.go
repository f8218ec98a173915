package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"
)

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		status  string
		wantMsg string
	}{
		{"reason from status line", 500, "500 Internal Server Error", "API call failed: 500 - Internal Server Error"},
		{"custom reason", 503, "503 Down For Maintenance", "API call failed: 503 - Down For Maintenance"},
		{"no status line", 404, "", "API call failed: 404 - Not Found"},
		{"bare code", 429, "429", "API call failed: 429 - Too Many Requests"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ClassifyHTTPError(tt.code, tt.status)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
			if err.Type != ErrorTypeHTTPStatus {
				t.Errorf("Type = %q, want %q", err.Type, ErrorTypeHTTPStatus)
			}
			if err.StatusCode != tt.code {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.code)
			}
		})
	}
}

func TestClassifyTransportError(t *testing.T) {
	dnsErr := &net.DNSError{Err: "no such host", Name: "api.example.com", IsNotFound: true}
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	tests := []struct {
		name     string
		err      error
		wantType ErrorType
	}{
		{"dns failure", &url.Error{Op: "Get", URL: "https://api.example.com", Err: dnsErr}, ErrorTypeConnectivity},
		{"dial failure", opErr, ErrorTypeConnectivity},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), ErrorTypeConnectivity},
		{"cancelled", &url.Error{Op: "Get", URL: "https://api.example.com", Err: context.Canceled}, ErrorTypeUnknown},
		{"other", errors.New("boom"), ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTransportError(tt.err)

			if got.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", got.Type, tt.wantType)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error does not wrap its cause")
			}
		})
	}
}

func TestClassifyTransportError_Messages(t *testing.T) {
	if got := ClassifyTransportError(nil); got != nil {
		t.Errorf("ClassifyTransportError(nil) = %v, want nil", got)
	}

	conn := ClassifyTransportError(&net.OpError{Op: "dial", Err: errors.New("refused")})
	if conn.Error() != "No internet connection. Please check your network settings." {
		t.Errorf("connectivity message = %q", conn.Error())
	}

	unknown := ClassifyTransportError(errors.New("boom"))
	if unknown.Error() != "An unexpected error occurred: boom" {
		t.Errorf("unknown message = %q", unknown.Error())
	}
}

func TestClassifyTransportError_KeepsFetchError(t *testing.T) {
	orig := NewEmptyBodyError(nil)

	if got := ClassifyTransportError(fmt.Errorf("ctx: %w", orig)); got != orig {
		t.Errorf("ClassifyTransportError() = %v, want the wrapped FetchError", got)
	}
}
