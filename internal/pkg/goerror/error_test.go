package goerror

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "server", err: NewServer(errors.New("boom")), want: http.StatusInternalServerError},
		{name: "invalid input", err: NewInvalidInput(nil, "email", "required"), want: http.StatusUnprocessableEntity},
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "not found", err: NewBusiness("missing", CodeNotFound), want: http.StatusNotFound},
		{name: "conflict", err: NewBusiness("exists", CodeConflict), want: http.StatusConflict},
		{name: "unauthorized", err: NewBusiness("nope", CodeUnauthorized), want: http.StatusUnauthorized},
		{name: "forbidden", err: NewBusiness("nope", CodeForbidden), want: http.StatusForbidden},
		{name: "too many", err: NewTooManyRequest("slow down", time.Minute), want: http.StatusTooManyRequests},
		{name: "unavailable", err: NewUnavailable(errors.New("dial tcp")), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			if !errors.As(tt.err, &gerr) {
				t.Fatalf("expected *Error, got %T", tt.err)
			}
			if got := gerr.StatusCode(); got != tt.want {
				t.Fatalf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewBusiness_Fields(t *testing.T) {
	// Arrange
	err := NewBusiness("incorrect code", CodeInvalidFormat, "attempts_remaining", "1")

	// Act
	var gerr *Error
	ok := errors.As(err, &gerr)

	// Assert
	if !ok {
		t.Fatalf("expected *Error")
	}
	if gerr.Msg() != "incorrect code" {
		t.Fatalf("Msg() = %q", gerr.Msg())
	}
	if gerr.Fields()["attempts_remaining"] != "1" {
		t.Fatalf("Fields() = %v", gerr.Fields())
	}
	if gerr.Type() != TypeBusiness {
		t.Fatalf("Type() = %s", gerr.Type())
	}
}

func TestNewBusiness_OddPairsIgnoredTail(t *testing.T) {
	err := NewBusiness("msg", CodeConflict, "only-key")

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error")
	}
	if len(gerr.Fields()) != 0 {
		t.Fatalf("expected no fields, got %v", gerr.Fields())
	}
}

func TestNewTooManyRequest_RetryAfter(t *testing.T) {
	err := NewTooManyRequest("wait", 30*time.Minute)

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error")
	}
	if gerr.RetryAfter() != 30*time.Minute {
		t.Fatalf("RetryAfter() = %s", gerr.RetryAfter())
	}
	if gerr.Code().String() != "ERROR_CODE_TOO_MANY_REQUESTS" {
		t.Fatalf("Code() = %s", gerr.Code())
	}

	neg := NewTooManyRequest("wait", -time.Second)
	if !errors.As(neg, &gerr) || gerr.RetryAfter() != 0 {
		t.Fatalf("negative retry must clamp to zero")
	}
}

func TestNewUnavailable_Unwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUnavailable(cause)

	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected errors.Is(err, ErrUnavailable)")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved")
	}
}
