package remote

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dallionking/bubblebar/internal/bar"
	"github.com/Dallionking/bubblebar/internal/bubble"
)

type sink struct {
	mu     sync.Mutex
	deltas []bar.Delta
	got    chan struct{}
}

func newSink() *sink { return &sink{got: make(chan struct{}, 16)} }

func (s *sink) Submit(d bar.Delta) uint64 {
	s.mu.Lock()
	s.deltas = append(s.deltas, d)
	n := len(s.deltas)
	s.mu.Unlock()
	s.got <- struct{}{}
	return uint64(n)
}

func (s *sink) selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, d := range s.deltas {
		out = append(out, d.Selected)
	}
	return out
}

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func TestDrainInFileOrder(t *testing.T) {
	path := t.TempDir()
	// Written out of order; names carry the timestamp.
	for i, key := range []string{"B3", "B1", "B2"} {
		at := t0.Add(time.Duration([]int{3, 1, 2}[i]) * time.Second)
		if _, err := Post(path, bar.Delta{Selected: key}, at); err != nil {
			t.Fatalf("Post: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(path, "9999-bad.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newSink()
	in, err := NewInbox(path, s, 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewInbox: %v", err)
	}
	n, err := in.Drain()
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if n != 3 {
		t.Errorf("drained %d, want 3", n)
	}
	if want := []string{"B1", "B2", "B3"}; !reflect.DeepEqual(s.selected(), want) {
		t.Errorf("order = %v, want %v", s.selected(), want)
	}
	if s.deltas[0].Source != "remote" {
		t.Errorf("source = %q, want remote", s.deltas[0].Source)
	}

	depth, err := in.Dir().Depth()
	if err != nil {
		t.Fatalf("Depth: %v", err)
	}
	if depth != (Depth{Pending: 0, Processed: 3, Failed: 1}) {
		t.Errorf("depth = %+v", depth)
	}
}

func TestRunPicksUpNewFiles(t *testing.T) {
	path := t.TempDir()
	s := newSink()
	in, err := NewInbox(path, s, 10*time.Millisecond, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewInbox: %v", err)
	}
	if _, err := Post(path, bar.Delta{Selected: "backlog"}, t0); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- in.Run(ctx) }()

	wait := func(what string) {
		t.Helper()
		select {
		case <-s.got:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for %s", what)
		}
	}
	wait("backlog")

	right := bubble.LocationRight
	if _, err := Post(path, bar.Delta{Selected: "live", Location: &right}, t0.Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	wait("live delta")

	cancel()
	<-done
	if want := []string{"backlog", "live"}; !reflect.DeepEqual(s.selected(), want) {
		t.Errorf("submitted = %v, want %v", s.selected(), want)
	}
	if loc := s.deltas[1].Location; loc == nil || *loc != bubble.LocationRight {
		t.Errorf("location = %v", loc)
	}
}

func TestOutboxWritesCommandsInOrder(t *testing.T) {
	o, err := NewOutbox(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewOutbox: %v", err)
	}
	tick := t0
	o.now = func() time.Time {
		tick = tick.Add(time.Millisecond)
		return tick
	}

	o.Send(bar.StartDrag("B1"))
	o.Send(bar.SetLocation(bubble.LocationRight, bar.SourceDrag))
	o.Send(bar.StopDrag(bubble.LocationRight))

	cmds, err := o.Commands()
	if err != nil {
		t.Fatalf("Commands: %v", err)
	}
	var kinds []bar.CommandKind
	for _, c := range cmds {
		kinds = append(kinds, c.Kind)
	}
	if want := []bar.CommandKind{bar.CmdStartDrag, bar.CmdSetLocation, bar.CmdStopDrag}; !reflect.DeepEqual(kinds, want) {
		t.Errorf("kinds = %v, want %v", kinds, want)
	}
	if c := cmds[1]; c.Source != bar.SourceDrag || c.Location == nil || *c.Location != bubble.LocationRight {
		t.Errorf("set location = %+v", c)
	}
	if !cmds[0].SentAt.Equal(t0.Add(time.Millisecond)) {
		t.Errorf("sent at = %v", cmds[0].SentAt)
	}
}

func TestPendingSkipsTempFiles(t *testing.T) {
	d, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(d.Path(), tmpPrefix+"x.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Write(map[string]int{"a": 1}, t0); err != nil {
		t.Fatal(err)
	}
	names, err := d.Pending()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 1 {
		t.Errorf("pending = %v, want one file", names)
	}
}
