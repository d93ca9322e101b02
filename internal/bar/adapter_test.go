package bar

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dallionking/bubblebar/internal/bubble"
)

// heldRunner keeps jobs until release runs them, last submitted first.
type heldRunner struct {
	mu   sync.Mutex
	jobs []func()
}

func (r *heldRunner) Submit(job func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
	return true
}

func (r *heldRunner) release() {
	r.mu.Lock()
	jobs := r.jobs
	r.jobs = nil
	r.mu.Unlock()
	for i := len(jobs) - 1; i >= 0; i-- {
		jobs[i]()
	}
}

type rejectingRunner struct{}

func (rejectingRunner) Submit(func()) bool { return false }

func TestAdapterBuildsAndReportsFailures(t *testing.T) {
	q := NewQueue(4)
	a := NewAdapter(context.Background(), testMaterializer, nil, q, zerolog.Nop())

	seq := a.Submit(Delta{
		Added:   []bubble.Descriptor{desc("B1"), {Key: "B2", PackageName: "broken"}, {PackageName: "nokey"}},
		Updated: []bubble.Descriptor{desc("B3")},
	})
	ev := (<-q.Events()).(DeltaReady)

	if ev.Seq != seq || seq != 1 {
		t.Errorf("seq = %d (returned %d), want 1", ev.Seq, seq)
	}
	if _, ok := ev.Built["B1"]; !ok {
		t.Error("B1 not built")
	}
	if _, ok := ev.Built["B3"]; !ok {
		t.Error("updated B3 not built")
	}
	if !ev.Failed["B2"] || len(ev.Failed) != 1 {
		t.Errorf("failed = %v, want only B2", ev.Failed)
	}
	if len(ev.Built) != 2 {
		t.Errorf("built %d entries, want 2", len(ev.Built))
	}
}

func TestAdapterRunsInlineWhenRunnerRejects(t *testing.T) {
	q := NewQueue(1)
	a := NewAdapter(context.Background(), testMaterializer, rejectingRunner{}, q, zerolog.Nop())
	a.Submit(add("B1"))

	select {
	case ev := <-q.Events():
		if ev.(DeltaReady).Seq != 1 {
			t.Errorf("seq = %d", ev.(DeltaReady).Seq)
		}
	default:
		t.Fatal("rejected job was not run inline")
	}
}

func TestOutOfOrderMaterializationAppliesInOrder(t *testing.T) {
	h := newHarness(t)
	r := &heldRunner{}
	h.a = NewAdapter(context.Background(), testMaterializer, r, h.q, zerolog.Nop())

	h.a.Submit(add("B1"))
	h.a.Submit(add("B2"))
	h.a.Submit(Delta{Removed: []string{"B1"}, Added: []bubble.Descriptor{desc("B3")}})
	if n := h.a.Pending(); n != 3 {
		t.Errorf("pending before release = %d, want 3", n)
	}
	r.release()
	if n := h.a.Pending(); n != 0 {
		t.Errorf("pending after release = %d, want 0", n)
	}
	h.drain()

	if want := []string{"B3", "B2"}; !reflect.DeepEqual(h.c.Registry().VisibleKeys(), want) {
		t.Errorf("visible = %v, want %v", h.c.Registry().VisibleKeys(), want)
	}
	if s := h.c.Stats(); s.DeltasApplied != 3 || s.DeltasBuffered != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestQueueClosed(t *testing.T) {
	q := NewQueue(1)
	q.Close()
	if err := q.Post(context.Background(), PointerCancel{}); err != ErrQueueClosed {
		t.Errorf("Post after Close = %v, want ErrQueueClosed", err)
	}
}

func TestQueuePostHonoursContext(t *testing.T) {
	q := NewQueue(1)
	if err := q.Post(context.Background(), PointerCancel{}); err != nil {
		t.Fatalf("first post: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := q.Post(ctx, PointerCancel{}); err == nil {
		t.Error("post to a full queue returned without error")
	}
}

func TestRecorderTee(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	Tee{a, b}.Send(DismissAll())
	if len(a.Commands()) != 1 || len(b.Commands()) != 1 {
		t.Error("tee did not fan out")
	}
	if got := a.Commands()[0].Kind; got != CmdDismissAll {
		t.Errorf("kind = %v", got)
	}
}
