package carousel

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/carousel/pkg/errors"
)

// DefaultSettleTimeout bounds how long a programmatic scroll may stay in
// flight before settled positions are reported again.
const DefaultSettleTimeout = 2 * time.Second

// Scroller moves the carousel to an item. Implementations start the scroll
// and return; completion is observed through the settled channel passed to
// [Sync.Run].
type Scroller interface {
	ScrollTo(ctx context.Context, index int) error
}

// ScrollerFunc adapts a function to [Scroller].
type ScrollerFunc func(ctx context.Context, index int) error

// ScrollTo calls f.
func (f ScrollerFunc) ScrollTo(ctx context.Context, index int) error { return f(ctx, index) }

// Sync keeps an external selection and a carousel's scroll position in step.
//
// External selections arrive on one channel and are applied with Scroller.
// Positions the carousel settles on arrive on another and are reported with
// OnSelect. A settle that completes a programmatic scroll is never reported,
// so the owner of the selection does not see its own change echoed back.
type Sync struct {
	Scroller      Scroller
	OnSelect      func(index int)
	Logger        *log.Logger
	SettleTimeout time.Duration

	mu       sync.Mutex
	pending  *pendingScroll
	selected int
}

type pendingScroll struct {
	target int
	done   chan struct{}
}

// errInputClosed stops the group when either input channel closes.
var errInputClosed = errors.New(errors.ErrCodeInternal, "sync input closed")

// NewSync returns a Sync whose last known selection is initial.
func NewSync(s Scroller, onSelect func(int), initial int) *Sync {
	return &Sync{Scroller: s, OnSelect: onSelect, selected: initial}
}

// Selected returns the last selection applied or reported.
func (s *Sync) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// InFlight reports whether a programmatic scroll has not settled yet.
func (s *Sync) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Run processes selections and settled positions until ctx is done or either
// channel is closed. A closed channel ends Run with a nil error; a cancelled
// ctx ends it with ctx.Err().
func (s *Sync) Run(ctx context.Context, selections, settled <-chan int) error {
	if s.Scroller == nil {
		return errors.New(errors.ErrCodeInvalidInput, "sync requires a scroller")
	}
	logger := s.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	timeout := s.SettleTimeout
	if timeout <= 0 {
		timeout = DefaultSettleTimeout
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.applySelections(gctx, selections, timeout, logger) })
	g.Go(func() error { return s.reportSettled(gctx, settled, logger) })

	err := g.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == errInputClosed {
		return nil
	}
	return err
}

// applySelections scrolls to each external selection and waits for the
// carousel to settle on it before taking the next one. A newer selection
// arriving mid-scroll supersedes the pending one.
func (s *Sync) applySelections(ctx context.Context, selections <-chan int, timeout time.Duration, logger *log.Logger) error {
	var (
		target int
		queued bool
	)
	for {
		if !queued {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case t, ok := <-selections:
				if !ok {
					return errInputClosed
				}
				target = t
			}
		}
		queued = false

		p := &pendingScroll{target: target, done: make(chan struct{})}
		s.mu.Lock()
		if s.selected == target && s.pending == nil {
			s.mu.Unlock()
			logger.Debug("selection already shown", "index", target)
			continue
		}
		s.pending = p
		s.selected = target
		s.mu.Unlock()

		logger.Debug("scrolling to selection", "index", target)
		if err := s.Scroller.ScrollTo(ctx, target); err != nil {
			s.clear(p)
			return errors.Wrap(errors.ErrCodeInternal, err, "scroll to %d", target)
		}

		timer := time.NewTimer(timeout)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-p.done:
			timer.Stop()
		case t, ok := <-selections:
			timer.Stop()
			s.clear(p)
			if !ok {
				return errInputClosed
			}
			logger.Debug("selection superseded", "index", target, "next", t)
			target, queued = t, true
		case <-timer.C:
			logger.Warn("scroll did not settle", "index", target, "timeout", timeout)
			s.clear(p)
		}
	}
}

// reportSettled forwards user-driven settles to OnSelect.
func (s *Sync) reportSettled(ctx context.Context, settled <-chan int, logger *log.Logger) error {
	for {
		var index int
		select {
		case <-ctx.Done():
			return ctx.Err()
		case i, ok := <-settled:
			if !ok {
				return errInputClosed
			}
			index = i
		}

		s.mu.Lock()
		if p := s.pending; p != nil {
			if index == p.target {
				s.pending = nil
				close(p.done)
			}
			s.mu.Unlock()
			continue
		}
		if index == s.selected {
			s.mu.Unlock()
			continue
		}
		s.selected = index
		onSelect := s.OnSelect
		s.mu.Unlock()

		logger.Debug("user settled on item", "index", index)
		if onSelect != nil {
			onSelect(index)
		}
	}
}

// clear drops p if it is still the pending scroll.
func (s *Sync) clear(p *pendingScroll) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == p {
		s.pending = nil
		close(p.done)
	}
}
