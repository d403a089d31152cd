package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad count: %d", -3)

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}
	if err.Message != "bad count: -3" {
		t.Errorf("Message = %q", err.Message)
	}
	if got := err.Error(); !strings.Contains(got, "INVALID_INPUT") || !strings.Contains(got, "bad count") {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "cache write failed")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause lost from the chain")
	}
	if got := err.Error(); !strings.Contains(got, "disk full") {
		t.Errorf("Error() = %q, cause missing", got)
	}
}

func TestIs(t *testing.T) {
	base := New(ErrCodeDiagramNotFound, "no such diagram")
	wrapped := fmt.Errorf("loading: %w", base)

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"DirectMatch", base, ErrCodeDiagramNotFound, true},
		{"DirectMismatch", base, ErrCodeInvalidInput, false},
		{"ThroughFmtWrap", wrapped, ErrCodeDiagramNotFound, true},
		{"PlainError", stderrors.New("plain"), ErrCodeInternal, false},
		{"Nil", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeUnsupported, "no pdf")); got != ErrCodeUnsupported {
		t.Errorf("GetCode = %v", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeUnsolvableSeparation, "target area too large")
	if got := UserMessage(err); got != "target area too large" {
		t.Errorf("UserMessage = %q", got)
	}
	plain := stderrors.New("something else")
	if got := UserMessage(plain); got != "something else" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeUnsolvableSeparation, true},
		{ErrCodeInsufficientCapacity, true},
		{ErrCodeInvalidInput, false},
		{ErrCodeInternal, false},
		{ErrCodeDiagramNotFound, false},
	}
	for _, tt := range tests {
		if got := IsRecoverable(New(tt.code, "x")); got != tt.want {
			t.Errorf("IsRecoverable(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
