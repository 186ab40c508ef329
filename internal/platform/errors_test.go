package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestErrorTypeString(t *testing.T) {
	tests := []struct {
		et   ErrorType
		want string
	}{
		{ErrTypeNetwork, "Network Error"},
		{ErrTypeTimeout, "Timeout"},
		{ErrTypeAuth, "Authentication Error"},
		{ErrTypeHTTP, "HTTP Error"},
		{ErrorType(99), "ErrorType(99)"},
	}
	for _, tt := range tests {
		if got := tt.et.String(); got != tt.want {
			t.Errorf("ErrorType(%d).String() = %q, want %q", tt.et, got, tt.want)
		}
	}
}

func TestNewHTTPErrorRetryable(t *testing.T) {
	if NewHTTPError(http.StatusBadRequest, "", "bad").Retryable {
		t.Error("4xx should not be retryable")
	}
	if !NewHTTPError(http.StatusServiceUnavailable, "", "down").Retryable {
		t.Error("5xx should be retryable")
	}
}

func TestAPIErrorWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("send link: %w", NewNetworkError("POST failed", cause))

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through APIError")
	}
	if !IsRetryable(err) {
		t.Error("generic network errors should be retryable")
	}
	if IsAuthError(err) {
		t.Error("network error is not an auth error")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("unknown errors should not be retryable")
	}
}

func TestNewNetworkErrorTimeout(t *testing.T) {
	client := &http.Client{Timeout: time.Nanosecond}
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://192.0.2.1/", nil)
	_, err := client.Do(req)
	if err == nil {
		t.Skip("request unexpectedly succeeded")
	}

	apiErr := NewNetworkError("GET failed", err)
	if apiErr.Type != ErrTypeTimeout {
		t.Errorf("Type = %v, want Timeout", apiErr.Type)
	}
}

func TestShortMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewAuthError("x"), "Not signed in - press s to sign in"},
		{NewHTTPError(500, "", ""), "Platform error (HTTP 500)"},
		{NewValidationError("recipient must not be empty"), "recipient must not be empty"},
		{errors.New("plain"), "plain"},
	}
	for _, tt := range tests {
		if got := ShortMessage(tt.err); got != tt.want {
			t.Errorf("ShortMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
