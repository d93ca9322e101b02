package bar

import (
	"context"
	"errors"
	"sync"

	"github.com/Dallionking/bubblebar/internal/bubble"
	"github.com/Dallionking/bubblebar/internal/drag"
	"github.com/Dallionking/bubblebar/internal/layout"
)

// ErrQueueClosed is returned by Post after Close.
var ErrQueueClosed = errors.New("event queue closed")

// Event is anything the controller consumes. Every mutation of bar state
// arrives as an Event on the single queue.
type Event interface {
	event()
}

// DeltaReady carries a materialized delta back to the controller.
type DeltaReady struct {
	Seq   uint64
	Delta Delta
	// Built holds materialized entries for added and updated keys.
	Built map[string]*bubble.Entry
	// Failed holds keys whose materialization failed.
	Failed map[string]bool
}

// PointerDown is a press at a screen position.
type PointerDown struct{ P drag.Point }

// PointerMove is pointer motion with the button held.
type PointerMove struct{ P drag.Point }

// PointerUp is a release.
type PointerUp struct{ P drag.Point }

// PointerCancel aborts the current gesture.
type PointerCancel struct{}

// LongPressFired is the timer scheduled from a drag.TimerRequest.
type LongPressFired struct{ SessionID string }

// Resize reports a new screen size.
type Resize struct{ Width, Height float64 }

// Configure swaps timing and geometry, e.g. after the config file changed.
type Configure struct {
	Timing Timing
	Layout layout.Params
}

// Request is a user intent that is not a pointer gesture, e.g. a key press.
type Request struct {
	Kind RequestKind
	Key  string
}

// RequestKind enumerates Request intents.
type RequestKind int

const (
	RequestToggle RequestKind = iota
	RequestExpand
	RequestCollapse
	RequestStash
	RequestUnstash
	RequestSelect
	RequestSelectNext
	RequestSelectPrev
	RequestDismissSelected
	RequestDismissAll
	RequestFlipLocation
)

func (DeltaReady) event()     {}
func (PointerDown) event()    {}
func (PointerMove) event()    {}
func (PointerUp) event()      {}
func (PointerCancel) event()  {}
func (LongPressFired) event() {}
func (Resize) event()         {}
func (Configure) event()      {}
func (Request) event()        {}

// Queue is the single typed event queue feeding the controller. Producers on
// any goroutine Post; the owning goroutine reads Events.
type Queue struct {
	ch     chan Event
	done   chan struct{}
	closeO sync.Once
}

// NewQueue returns a queue buffering up to size events.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 64
	}
	return &Queue{ch: make(chan Event, size), done: make(chan struct{})}
}

// Post enqueues ev, blocking while the queue is full.
func (q *Queue) Post(ctx context.Context, ev Event) error {
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}
	select {
	case q.ch <- ev:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Events is the consumer side.
func (q *Queue) Events() <-chan Event { return q.ch }

// Done is closed by Close.
func (q *Queue) Done() <-chan struct{} { return q.done }

// Close stops further posts. Events already queued stay readable.
func (q *Queue) Close() {
	q.closeO.Do(func() { close(q.done) })
}
