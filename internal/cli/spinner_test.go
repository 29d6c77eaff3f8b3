package cli

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestSpinnerNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(context.Background(), &buf, "Testing...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("spinner wrote %q to a non-terminal writer", buf.String())
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, &buf, "Testing with context...")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after the context was cancelled")
	}
}

func TestIsTerminal(t *testing.T) {
	if isTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}
