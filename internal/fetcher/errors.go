package fetcher

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
)

// ErrorType represents the category of error that occurred during a fetch operation
type ErrorType string

const (
	// ErrorTypeHTTPStatus indicates the server answered with a non-2xx status
	ErrorTypeHTTPStatus ErrorType = "http_status"
	// ErrorTypeEmptyBody indicates a 2xx response whose body was missing or unparseable
	ErrorTypeEmptyBody ErrorType = "empty_body"
	// ErrorTypeConnectivity indicates a transport-level failure (no network, DNS, TLS, timeout)
	ErrorTypeConnectivity ErrorType = "connectivity"
	// ErrorTypeUnknown indicates an error of unknown type
	ErrorTypeUnknown ErrorType = "unknown"
)

const (
	msgEmptyBody    = "API response body is null."
	msgConnectivity = "No internet connection. Please check your network settings."
)

// FetchError represents a structured error from a fetch operation.
// Error() returns the user-facing message.
type FetchError struct {
	Type       ErrorType
	StatusCode int
	Reason     string
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return e.Message
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewHTTPStatusError creates an error for a non-2xx response
func NewHTTPStatusError(statusCode int, reason string) *FetchError {
	return &FetchError{
		Type:       ErrorTypeHTTPStatus,
		StatusCode: statusCode,
		Reason:     reason,
		Message:    fmt.Sprintf("API call failed: %d - %s", statusCode, reason),
	}
}

// NewEmptyBodyError creates an error for a missing or unparseable body
func NewEmptyBodyError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeEmptyBody,
		Message: msgEmptyBody,
		Cause:   cause,
	}
}

// NewConnectivityError creates a transport-level error
func NewConnectivityError(cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeConnectivity,
		Message: msgConnectivity,
		Cause:   cause,
	}
}

// NewUnknownError creates an error for any failure outside the taxonomy
func NewUnknownError(cause error) *FetchError {
	detail := "Unknown error"
	if cause != nil && cause.Error() != "" {
		detail = cause.Error()
	}
	return &FetchError{
		Type:    ErrorTypeUnknown,
		Message: "An unexpected error occurred: " + detail,
		Cause:   cause,
	}
}

// ClassifyHTTPError builds the status error for a response.
// status is the raw status line ("500 Internal Server Error"); its reason
// phrase is used when present, http.StatusText otherwise.
func ClassifyHTTPError(statusCode int, status string) *FetchError {
	return NewHTTPStatusError(statusCode, reasonPhrase(statusCode, status))
}

func reasonPhrase(statusCode int, status string) string {
	reason := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(statusCode)))
	if reason == "" {
		reason = http.StatusText(statusCode)
	}
	return reason
}

// ClassifyTransportError maps an error returned before any response was
// received. Cancellation by the caller is not a connectivity problem and
// is reported as unknown.
func ClassifyTransportError(err error) *FetchError {
	if err == nil {
		return nil
	}

	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}

	if errors.Is(err, context.Canceled) {
		return NewUnknownError(err)
	}

	if isConnectivity(err) {
		return NewConnectivityError(err)
	}

	return NewUnknownError(err)
}

func isConnectivity(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	// *url.Error, *net.OpError and *net.DNSError all satisfy net.Error
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var certErr *tls.CertificateVerificationError
	var recordErr tls.RecordHeaderError
	var authorityErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	return errors.As(err, &certErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr)
}
