package assistant

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingSuggester holds each Suggest call until released, so tests can
// interleave resolutions with section switches.
type blockingSuggester struct {
	mu      sync.Mutex
	calls   []string
	release chan struct{}
}

func newBlockingSuggester() *blockingSuggester {
	return &blockingSuggester{release: make(chan struct{})}
}

func (s *blockingSuggester) Suggest(ctx context.Context, sc SectionContext) ([]Suggestion, error) {
	s.mu.Lock()
	s.calls = append(s.calls, sc.SectionID)
	s.mu.Unlock()

	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return []Suggestion{{Text: "from " + sc.SectionID, Kind: KindTip}}, nil
}

func (s *blockingSuggester) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type deliveryLog struct {
	mu       sync.Mutex
	sections []string
}

func (d *deliveryLog) deliver(sectionID string, _ []Suggestion) {
	d.mu.Lock()
	d.sections = append(d.sections, sectionID)
	d.mu.Unlock()
}

func (d *deliveryLog) delivered() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.sections...)
}

func TestNotifier_DebouncesBursts(t *testing.T) {
	s := newBlockingSuggester()
	close(s.release) // resolve immediately
	log := &deliveryLog{}
	n := NewNotifier(s, 30*time.Millisecond, log.deliver)
	defer n.Close()

	// A typing burst: five context changes inside one debounce window.
	for i := 0; i < 5; i++ {
		n.ContextChanged(SectionContext{SectionID: "requirements"})
		time.Sleep(2 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return len(log.delivered()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, s.callCount(), "burst should collapse into one request")
	assert.Equal(t, []string{"requirements"}, log.delivered())
}

func TestNotifier_DiscardsStaleResponseAfterSectionSwitch(t *testing.T) {
	s := newBlockingSuggester()
	log := &deliveryLog{}
	n := NewNotifier(s, 5*time.Millisecond, log.deliver)
	defer n.Close()

	n.ContextChanged(SectionContext{SectionID: "company-profile"})
	require.Eventually(t, func() bool {
		return s.callCount() == 1
	}, time.Second, time.Millisecond, "first request should be in flight")

	// Switch sections while the first request is still pending, then let
	// everything resolve.
	n.ContextChanged(SectionContext{SectionID: "requirements"})
	close(s.release)

	require.Eventually(t, func() bool {
		d := log.delivered()
		return len(d) == 1 && d[0] == "requirements"
	}, time.Second, 5*time.Millisecond)

	// Give a stale delivery a chance to appear, then confirm it did not.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"requirements"}, log.delivered(),
		"company-profile response must be dropped")
}

func TestNotifier_SameSectionNewerContextWins(t *testing.T) {
	s := newBlockingSuggester()
	log := &deliveryLog{}
	n := NewNotifier(s, 5*time.Millisecond, log.deliver)
	defer n.Close()

	n.ContextChanged(SectionContext{SectionID: "requirements"})
	require.Eventually(t, func() bool {
		return s.callCount() == 1
	}, time.Second, time.Millisecond)

	// Same section, newer answers: the older in-flight request is stale.
	n.ContextChanged(SectionContext{SectionID: "requirements"})
	close(s.release)

	require.Eventually(t, func() bool {
		return len(log.delivered()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, s.callCount())
}

func TestNotifier_CloseDropsPendingWork(t *testing.T) {
	s := newBlockingSuggester()
	log := &deliveryLog{}
	n := NewNotifier(s, 5*time.Millisecond, log.deliver)

	n.ContextChanged(SectionContext{SectionID: "requirements"})
	require.Eventually(t, func() bool {
		return s.callCount() == 1
	}, time.Second, time.Millisecond)

	n.Close()
	close(s.release)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, log.delivered())

	// Changes after Close are ignored entirely.
	n.ContextChanged(SectionContext{SectionID: "requirements"})
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, s.callCount())
}
