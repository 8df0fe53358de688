package assistant

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is how long the notifier waits after the last context
// change before calling the suggester, so a typing burst costs one
// request instead of one per keystroke.
const DefaultDebounce = 400 * time.Millisecond

// Deliver receives suggestions for a section. It is called from the
// notifier's worker goroutine, never while a notifier lock is held.
type Deliver func(sectionID string, items []Suggestion)

// Notifier debounces (section, answers) context changes and forwards
// them to a Suggester. A response is delivered only if its section is
// still the active one when it resolves; responses racing a section
// switch are discarded.
type Notifier struct {
	suggester Suggester
	debounce  time.Duration
	deliver   Deliver

	mu      sync.Mutex
	timer   *time.Timer
	pending SectionContext
	active  string
	gen     uint64
	cancel  context.CancelFunc
	closed  bool
}

// NewNotifier creates a notifier. A non-positive debounce uses
// DefaultDebounce.
func NewNotifier(s Suggester, debounce time.Duration, deliver Deliver) *Notifier {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Notifier{suggester: s, debounce: debounce, deliver: deliver}
}

// ContextChanged records the latest (section, answers) pair and restarts
// the debounce window. Changing section invalidates any in-flight
// request for the previous one.
func (n *Notifier) ContextChanged(sc SectionContext) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}

	n.active = sc.SectionID
	n.pending = sc
	n.gen++
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}

	gen := n.gen
	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.debounce, func() { n.fire(gen) })
}

func (n *Notifier) fire(gen uint64) {
	n.mu.Lock()
	if n.closed || gen != n.gen {
		n.mu.Unlock()
		return
	}
	sc := n.pending
	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel
	n.mu.Unlock()

	go func() {
		items, err := n.suggester.Suggest(ctx, sc)

		n.mu.Lock()
		// Discard stale resolutions: the section moved on, a newer
		// context superseded this request, or the notifier closed.
		if err != nil || n.closed || gen != n.gen || sc.SectionID != n.active {
			n.mu.Unlock()
			return
		}
		deliver := n.deliver
		n.mu.Unlock()

		if deliver != nil {
			deliver(sc.SectionID, items)
		}
	}()
}

// Close stops the debounce timer and cancels any in-flight request.
// Responses resolving after Close are dropped.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	if n.timer != nil {
		n.timer.Stop()
	}
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
}
