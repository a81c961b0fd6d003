package goerror

import (
	"errors"
	"net/http"
	"testing"
)

func TestErrorStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "invalid input", err: NewInvalidInput(errors.New("bad field")), want: http.StatusUnprocessableEntity},
		{name: "not found", err: NewBusiness("missing", CodeNotFound), want: http.StatusNotFound},
		{name: "unauthorized", err: NewBusiness("nope", CodeUnauthorized), want: http.StatusUnauthorized},
		{name: "forbidden", err: NewBusiness("nope", CodeForbidden), want: http.StatusForbidden},
		{name: "conflict", err: NewBusiness("clash", CodeConflict), want: http.StatusConflict},
		{name: "server", err: NewServer(errors.New("boom")), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var gerr *Error
			if !errors.As(tc.err, &gerr) {
				t.Fatalf("expected *Error, got %T", tc.err)
			}

			// Act & Assert
			if got := gerr.StatusCode(); got != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, got)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	// Arrange
	cause := errors.New("db down")
	err := NewServer(cause)

	// Act & Assert
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
}

func TestErrorMessage(t *testing.T) {
	// Arrange
	err := NewBusiness("two-factor authentication is already enabled", CodeConflict)

	// Act
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *Error, got %T", err)
	}

	// Assert
	if gerr.Msg() != "two-factor authentication is already enabled" {
		t.Fatalf("unexpected message %q", gerr.Msg())
	}
	if gerr.Type() != TypeBusiness {
		t.Fatalf("unexpected type %v", gerr.Type())
	}
	if gerr.Error() != "two-factor authentication is already enabled" {
		t.Fatalf("unexpected Error() %q", gerr.Error())
	}
}
