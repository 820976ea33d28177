package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestFetchErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *FetchError
		want string
	}{
		{
			name: "with_cause",
			err: &FetchError{
				Page:    3,
				Class:   ErrorClassNavigation,
				Message: "navigation failed",
				Err:     errors.New("connection refused"),
			},
			want: "page 3 navigation error: navigation failed: connection refused",
		},
		{
			name: "without_cause",
			err: &FetchError{
				Page:    12,
				Class:   ErrorClassBlocked,
				Message: "block signature: captcha",
			},
			want: "page 12 blocked error: block signature: captcha",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchErrorUnwrap(t *testing.T) {
	cause := errors.New("tab crashed")
	err := &FetchError{Page: 1, Class: ErrorClassNavigation, Message: "navigation failed", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the wrapped cause")
	}

	var fetchErr *FetchError
	wrapped := fmt.Errorf("wave 2: %w", err)
	if !errors.As(wrapped, &fetchErr) {
		t.Fatal("expected errors.As to find the FetchError")
	}
	if fetchErr.Page != 1 {
		t.Errorf("Page = %d, want 1", fetchErr.Page)
	}
}

func TestClassifyFetchErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{
			name: "fetch_error_class_preserved",
			err:  &FetchError{Page: 2, Class: ErrorClassInsufficient, Message: "content too small (4 bytes)"},
			want: ErrorClassInsufficient,
		},
		{
			name: "exhausted_without_structured_cause",
			err:  fmt.Errorf("%w after 2 attempts: %v", ErrRetryExhausted, "tab gone"),
			want: ErrorClassNavigation,
		},
		{
			name: "deadline_exceeded",
			err:  context.DeadlineExceeded,
			want: ErrorClassTimeout,
		},
		{
			name: "cancelled",
			err:  context.Canceled,
			want: ErrorClassTimeout,
		},
		{
			name: "plain_error",
			err:  errors.New("dial tcp: connection reset"),
			want: ErrorClassNavigation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyFetchErr(tt.err); got != tt.want {
				t.Errorf("classifyFetchErr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRetryExhaustedKeepsCauseClass(t *testing.T) {
	cause := &FetchError{Page: 9, Class: ErrorClassBlocked, Message: "block signature: rate_limit"}
	err := fmt.Errorf("%w after 2 attempts: %w", ErrRetryExhausted, cause)

	if got := classifyFetchErr(err); got != ErrorClassBlocked {
		t.Errorf("classifyFetchErr() = %q, want %q", got, ErrorClassBlocked)
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		class ErrorClass
		want  bool
	}{
		{ErrorClassNavigation, true},
		{ErrorClassTimeout, true},
		{ErrorClassInsufficient, true},
		{ErrorClassBlocked, true},
		{ErrorClassDetection, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			if got := shouldRetry(tt.class); got != tt.want {
				t.Errorf("shouldRetry(%q) = %v, want %v", tt.class, got, tt.want)
			}
		})
	}
}
