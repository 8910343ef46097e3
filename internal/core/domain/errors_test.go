package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapError(t *testing.T) {
	if WrapError(ErrAcquisition, "fetch document", nil) != nil {
		t.Fatal("wrapping a nil error must return nil")
	}

	inner := errors.New("connection reset")
	err := WrapError(ErrAcquisition, "fetch document", inner)
	if !IsKind(err, ErrAcquisition) {
		t.Error("kind sentinel lost through wrapping")
	}
	if !errors.Is(err, inner) {
		t.Error("inner error lost through wrapping")
	}
	if IsKind(err, ErrUnsupportedFormat) {
		t.Error("matched a kind that was never wrapped")
	}
	if got, want := err.Error(), "fetch document: document acquisition failed: connection reset"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsKindThroughFurtherWrapping(t *testing.T) {
	err := WrapError(ErrAcquisition, "fetch document", errors.New("boom"))
	err = fmt.Errorf("download file: %w", err)
	if !IsKind(err, ErrAcquisition) {
		t.Error("kind sentinel lost through an extra wrap")
	}
}
