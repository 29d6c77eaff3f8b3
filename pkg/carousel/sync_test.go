package carousel

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/carousel/pkg/errors"
)

const waitFor = 2 * time.Second

func TestSyncExternalSelectionDoesNotEcho(t *testing.T) {
	selections := make(chan int)
	settled := make(chan int)
	scrolled := make(chan int, 4)
	reported := make(chan int, 4)

	// The fake carousel settles on the target as soon as it is asked to.
	scroller := ScrollerFunc(func(ctx context.Context, index int) error {
		settled <- index
		scrolled <- index
		return nil
	})
	s := NewSync(scroller, func(i int) { reported <- i }, 0)

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background(), selections, settled) }()

	selections <- 3
	select {
	case got := <-scrolled:
		if got != 3 {
			t.Fatalf("scrolled to %d, want 3", got)
		}
	case <-time.After(waitFor):
		t.Fatal("scroller was not called")
	}

	// A user swipe to item 1 is reported exactly once.
	settled <- 1
	settled <- 1
	select {
	case got := <-reported:
		if got != 1 {
			t.Fatalf("OnSelect(%d), want 1 (external selection echoed back?)", got)
		}
	case <-time.After(waitFor):
		t.Fatal("user settle was not reported")
	}

	close(selections)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error: %v", err)
		}
	case <-time.After(waitFor):
		t.Fatal("Run() did not return after input closed")
	}

	if len(reported) != 0 {
		t.Errorf("unexpected extra reports: %d", len(reported))
	}
	if s.Selected() != 1 || s.InFlight() {
		t.Errorf("Selected() = %d, InFlight() = %v", s.Selected(), s.InFlight())
	}
}

func TestSyncSuppressesWhileInFlight(t *testing.T) {
	selections := make(chan int)
	settled := make(chan int)
	called := make(chan struct{}, 1)
	reported := make(chan int, 4)

	// This carousel never settles on its own.
	scroller := ScrollerFunc(func(ctx context.Context, index int) error {
		called <- struct{}{}
		return nil
	})
	s := NewSync(scroller, func(i int) { reported <- i }, 0)
	s.SettleTimeout = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, selections, settled) }()

	selections <- 2
	<-called

	// Passing through item 1 mid-scroll is not a selection.
	settled <- 1
	select {
	case got := <-reported:
		t.Fatalf("OnSelect(%d) while scroll in flight", got)
	case <-time.After(20 * time.Millisecond):
	}

	// After the settle timeout the pending scroll is dropped.
	deadline := time.Now().Add(waitFor)
	for s.InFlight() {
		if time.Now().After(deadline) {
			t.Fatal("pending scroll never timed out")
		}
		time.Sleep(5 * time.Millisecond)
	}
	settled <- 4
	select {
	case got := <-reported:
		if got != 4 {
			t.Errorf("OnSelect(%d), want 4", got)
		}
	case <-time.After(waitFor):
		t.Fatal("settle after timeout was not reported")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestSyncNewSelectionSupersedes(t *testing.T) {
	selections := make(chan int)
	settled := make(chan int)
	scrolled := make(chan int, 4)
	reported := make(chan int, 4)

	scroller := ScrollerFunc(func(ctx context.Context, index int) error {
		scrolled <- index
		return nil
	})
	s := NewSync(scroller, func(i int) { reported <- i }, 0)
	s.SettleTimeout = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, selections, settled) }()

	selections <- 2
	selections <- 3
	for _, want := range []int{2, 3} {
		select {
		case got := <-scrolled:
			if got != want {
				t.Fatalf("scrolled to %d, want %d", got, want)
			}
		case <-time.After(waitFor):
			t.Fatalf("scroll to %d not started before the settle timeout", want)
		}
	}

	// Settling on the newer target completes it without a report.
	settled <- 3
	deadline := time.Now().Add(waitFor)
	for s.InFlight() {
		if time.Now().After(deadline) {
			t.Fatal("superseding scroll never completed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(reported) != 0 {
		t.Errorf("OnSelect called %d times for programmatic scrolls", len(reported))
	}
	if s.Selected() != 3 {
		t.Errorf("Selected() = %d, want 3", s.Selected())
	}

	cancel()
	<-done
}

func TestSyncSameSelectionSkipsScroll(t *testing.T) {
	selections := make(chan int)
	settled := make(chan int)
	calls := 0
	scroller := ScrollerFunc(func(ctx context.Context, index int) error {
		calls++
		return nil
	})
	s := NewSync(scroller, nil, 2)

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background(), selections, settled) }()

	selections <- 2
	close(selections)
	if err := <-done; err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if calls != 0 {
		t.Errorf("ScrollTo called %d times for the current selection", calls)
	}
}

func TestSyncScrollError(t *testing.T) {
	selections := make(chan int, 1)
	settled := make(chan int)
	s := NewSync(ScrollerFunc(func(ctx context.Context, index int) error {
		return context.DeadlineExceeded
	}), nil, 0)

	selections <- 5
	err := s.Run(context.Background(), selections, settled)
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Run() error = %v, want INTERNAL_ERROR", err)
	}
	if s.InFlight() {
		t.Error("failed scroll should not stay in flight")
	}
}

func TestSyncRequiresScroller(t *testing.T) {
	var s Sync
	if err := s.Run(context.Background(), nil, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Run() error = %v, want INVALID_INPUT", err)
	}
}
