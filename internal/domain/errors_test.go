package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestOpError_Error_IncludesOpKindPath(t *testing.T) {
	e := &OpError{
		Op:   "yamltask.load",
		Kind: KindNotFound,
		Path: "/tmp/missing.yaml",
		Err:  errors.New("open failed"),
	}

	msg := e.Error()
	for _, want := range []string{"yamltask.load", "not_found", "/tmp/missing.yaml", "open failed"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

func TestOpError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	e := &OpError{Op: "causal.estimate", Kind: KindEstimation, Err: inner}

	if !errors.Is(e, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestIsKind_Match(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &OpError{Op: "dataset.load", Kind: KindInvalidData})
	if !IsKind(err, KindInvalidData) {
		t.Error("expected IsKind=true for invalid_data")
	}
	if IsKind(err, KindNotFound) {
		t.Error("expected IsKind=false for not_found")
	}
}

func TestIsKind_PlainError(t *testing.T) {
	if IsKind(errors.New("plain"), KindExecution) {
		t.Error("plain errors should not match any kind")
	}
}
