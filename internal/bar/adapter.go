package bar

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/Dallionking/bubblebar/internal/bubble"
)

// Delta is one batch of changes from the bubble-state authority. Every field
// is optional.
type Delta struct {
	Added        []bubble.Descriptor `json:"added,omitempty"`
	Updated      []bubble.Descriptor `json:"updated,omitempty"`
	Removed      []string            `json:"removed,omitempty"`
	Selected     string              `json:"selected,omitempty"`
	Suppressed   string              `json:"suppressed,omitempty"`
	Unsuppressed string              `json:"unsuppressed,omitempty"`
	Order        []string            `json:"order,omitempty"`
	Expanded     *bool               `json:"expanded,omitempty"`
	Stashed      *bool               `json:"stashed,omitempty"`
	Location     *bubble.Location    `json:"location,omitempty"`
	ShowOverflow *bool               `json:"show_overflow,omitempty"`
	// Source tags where the delta came from, for logs only.
	Source string `json:"source,omitempty"`
}

// Empty reports whether d carries no change at all.
func (d Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Updated) == 0 && len(d.Removed) == 0 &&
		d.Selected == "" && d.Suppressed == "" && d.Unsuppressed == "" &&
		len(d.Order) == 0 && d.Expanded == nil && d.Stashed == nil &&
		d.Location == nil && d.ShowOverflow == nil
}

// Materializer turns a descriptor into a presentation payload. ok is false
// when the bubble cannot be resolved and must be dropped.
type Materializer interface {
	Materialize(ctx context.Context, d bubble.Descriptor) (p bubble.Payload, ok bool)
}

// MaterializerFunc adapts a function to Materializer.
type MaterializerFunc func(ctx context.Context, d bubble.Descriptor) (bubble.Payload, bool)

// Materialize calls f.
func (f MaterializerFunc) Materialize(ctx context.Context, d bubble.Descriptor) (bubble.Payload, bool) {
	return f(ctx, d)
}

// Runner executes materialization jobs off the controller goroutine.
// Submit reports false if the job was not accepted.
type Runner interface {
	Submit(job func()) bool
}

// Adapter receives deltas from any goroutine, materializes their payloads
// and hands the finished result to the controller queue. Sequence numbers
// are taken at Submit so the controller can restore arrival order.
type Adapter struct {
	ctx    context.Context
	mat    Materializer
	runner Runner
	queue  *Queue
	seq    atomic.Uint64
	flight atomic.Int64
	log    zerolog.Logger
}

// NewAdapter creates an adapter. A nil runner materializes on the calling
// goroutine.
func NewAdapter(ctx context.Context, mat Materializer, runner Runner, queue *Queue, log zerolog.Logger) *Adapter {
	return &Adapter{
		ctx:    ctx,
		mat:    mat,
		runner: runner,
		queue:  queue,
		log:    log.With().Str("component", "adapter").Logger(),
	}
}

// Submit schedules d and returns its sequence number.
func (a *Adapter) Submit(d Delta) uint64 {
	seq := a.seq.Add(1)
	a.flight.Add(1)
	job := func() {
		ready := a.materialize(seq, d)
		a.flight.Add(-1)
		if err := a.queue.Post(a.ctx, ready); err != nil {
			a.log.Warn().Err(err).Uint64("seq", seq).Msg("delta dropped")
		}
	}
	if a.runner == nil || !a.runner.Submit(job) {
		job()
	}
	return seq
}

// Pending reports how many submitted deltas are still materializing.
func (a *Adapter) Pending() int { return int(a.flight.Load()) }

func (a *Adapter) materialize(seq uint64, d Delta) DeltaReady {
	ready := DeltaReady{
		Seq:    seq,
		Delta:  d,
		Built:  make(map[string]*bubble.Entry),
		Failed: make(map[string]bool),
	}
	build := func(desc bubble.Descriptor) {
		if desc.Key == "" {
			a.log.Warn().Uint64("seq", seq).Msg("descriptor without key dropped")
			return
		}
		if desc.Key == bubble.OverflowKey {
			a.log.Warn().Uint64("seq", seq).Str("key", desc.Key).Msg("descriptor with reserved key dropped")
			return
		}
		p, ok := a.mat.Materialize(a.ctx, desc)
		if !ok {
			a.log.Warn().Str("key", desc.Key).Str("package", desc.PackageName).Msg("materialization failed, bubble dropped")
			ready.Failed[desc.Key] = true
			delete(ready.Built, desc.Key)
			return
		}
		ready.Built[desc.Key] = bubble.NewEntry(desc, p)
	}
	for _, desc := range d.Added {
		build(desc)
	}
	for _, desc := range d.Updated {
		build(desc)
	}
	return ready
}
