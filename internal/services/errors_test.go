package services_test

import (
	"errors"
	"strings"
	"testing"

	"slate/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrUnavailable, "studio", "approve sync", "request failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"studio", "approve sync", "request failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "uploads", "transfer", "interrupted", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	validationErr := services.Wrap(services.ErrValidation, "wizard", "metadata", "title missing", nil)
	if services.IsRetryable(validationErr) {
		t.Fatal("validation errors should not be retryable")
	}

	transientErr := services.Wrap(services.ErrTransient, "studio", "fetch", "connection reset", errors.New("io"))
	if !services.IsRetryable(transientErr) {
		t.Fatal("transient errors should be retryable")
	}

	if services.IsRetryable(nil) {
		t.Fatal("nil error should not be retryable")
	}
}
