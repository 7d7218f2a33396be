package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew_RetryableDetection(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{ErrCodeServiceUnavailable, true},
		{ErrCodeTimeout, true},
		{ErrCodeNotFound, false},
		{ErrCodeInvalidArgument, false},
		{ErrCodeConfiguration, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "msg", http.StatusInternalServerError)
			if err.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", err.Retryable, tt.retryable)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   ErrorCode
		status int
	}{
		{"invalid argument", InvalidArgument("slug", "must not be empty"), ErrCodeInvalidArgument, http.StatusBadRequest},
		{"not found", ProviderNotFound("nope", []string{"google", "att"}), ErrCodeNotFound, http.StatusNotFound},
		{"unavailable", ProviderUnavailable("witai"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{"configuration", Configuration("google", "api_key"), ErrCodeConfiguration, http.StatusInternalServerError},
		{"already exists", AlreadyExists("provider", "google"), ErrCodeAlreadyExists, http.StatusConflict},
		{"invalid input", InvalidInput("name", "empty"), ErrCodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized(""), ErrCodeUnauthorized, http.StatusUnauthorized},
		{"timeout", Timeout("transcribe"), ErrCodeTimeout, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.HTTPStatus != tt.status {
				t.Errorf("HTTPStatus = %d, want %d", tt.err.HTTPStatus, tt.status)
			}
			if tt.err.Message == "" {
				t.Error("expected a message")
			}
		})
	}
}

func TestProviderNotFound_Details(t *testing.T) {
	err := ProviderNotFound("nope", []string{"google", "att"})
	if err.Details["slug"] != "nope" {
		t.Errorf("slug detail = %v", err.Details["slug"])
	}
	if err.Details["known"] != "google,att" {
		t.Errorf("known detail = %v", err.Details["known"])
	}
}

func TestConfiguration_Message(t *testing.T) {
	err := Configuration("att", "app_key", "app_secret")
	if !strings.Contains(err.Message, "app_key, app_secret") {
		t.Errorf("message should list fields, got %q", err.Message)
	}
	if plain := Configuration("att"); strings.Contains(plain.Message, ":") {
		t.Errorf("message without fields should not list any, got %q", plain.Message)
	}
}

func TestAppError_ErrorString(t *testing.T) {
	err := ProviderUnavailable("witai")
	if !strings.HasPrefix(err.Error(), "SERVICE_UNAVAILABLE: ") {
		t.Errorf("unexpected Error() %q", err.Error())
	}
	wrapped := Internal(stderrors.New("disk full"))
	if !strings.Contains(wrapped.Error(), "cause: disk full") {
		t.Errorf("cause missing from %q", wrapped.Error())
	}
}

func TestHasCode(t *testing.T) {
	base := ProviderNotFound("x", nil)
	wrapped := fmt.Errorf("select: %w", base)

	if !HasCode(wrapped, ErrCodeNotFound) {
		t.Error("expected wrapped error to carry NOT_FOUND")
	}
	if HasCode(wrapped, ErrCodeServiceUnavailable) {
		t.Error("unexpected SERVICE_UNAVAILABLE")
	}
	if HasCode(stderrors.New("plain"), ErrCodeNotFound) {
		t.Error("plain errors carry no code")
	}
	if HasCode(nil, ErrCodeNotFound) {
		t.Error("nil carries no code")
	}
}

func TestAppError_Is(t *testing.T) {
	err := fmt.Errorf("wrap: %w", AlreadyExists("provider", "google"))
	if !stderrors.Is(err, &AppError{Code: ErrCodeAlreadyExists}) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, &AppError{Code: ErrCodeNotFound}) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestWithCauseAndDetail(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := ConnectionFailed("att").WithCause(cause).WithDetail("attempt", 2)
	if !stderrors.Is(err, cause) {
		t.Error("Unwrap should expose the cause")
	}
	if err.Details["attempt"] != 2 || err.Details["service"] != "att" {
		t.Errorf("unexpected details %v", err.Details)
	}
}
