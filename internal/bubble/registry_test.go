package bubble

import (
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func newTestRegistry() *Registry {
	return NewRegistry(zerolog.Nop())
}

func entry(key string) *Entry {
	return NewEntry(Descriptor{Key: key, PackageName: "pkg." + key}, Payload{AppName: key})
}

func assertKeys(t *testing.T, label string, got, want []string) {
	t.Helper()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s: got %v, want %v", label, got, want)
	}
}

// assertDisjoint fails if any key is both visible and suppressed.
func assertDisjoint(t *testing.T, r *Registry) {
	t.Helper()
	for _, e := range r.Suppressed() {
		if r.IsVisible(e.Key()) {
			t.Fatalf("key %q is both visible and suppressed", e.Key())
		}
	}
}

func TestAddVisibleMostRecentFirst(t *testing.T) {
	r := newTestRegistry()
	r.AddVisible(entry("B1"), PositionFront)
	r.AddVisible(entry("B2"), PositionFront)

	assertKeys(t, "visible", r.VisibleKeys(), []string{"B2", "B1"})
}

func TestOverflowAlwaysLast(t *testing.T) {
	r := newTestRegistry()
	r.AddVisible(entry("B1"), PositionFront)
	r.AddVisible(NewOverflow(), PositionFront)
	r.AddVisible(entry("B2"), PositionFront)
	r.AddVisible(entry("B3"), 10)

	assertKeys(t, "visible", r.VisibleKeys(), []string{"B2", "B1", "B3", OverflowKey})
	if r.Overflow() == nil {
		t.Fatal("expected overflow entry")
	}
	if r.BubbleCount() != 3 {
		t.Errorf("BubbleCount() = %d, want 3", r.BubbleCount())
	}
}

func TestAddExistingKeyUpdatesInPlace(t *testing.T) {
	r := newTestRegistry()
	original := entry("B1")
	r.AddVisible(original, PositionFront)
	r.AddVisible(entry("B2"), PositionFront)

	updated := NewEntry(Descriptor{Key: "B1", UnseenContent: true}, Payload{AppName: "new"})
	r.AddVisible(updated, PositionFront)

	got, ok := r.Get("B1")
	if !ok {
		t.Fatal("B1 missing")
	}
	if got != original {
		t.Error("entry was replaced instead of mutated in place")
	}
	if got.Payload.AppName != "new" || !got.HasUnseen {
		t.Errorf("payload not updated: %+v", got.Payload)
	}
	assertKeys(t, "visible", r.VisibleKeys(), []string{"B1", "B2"})
}

func TestRemoveSelectedClearsSelection(t *testing.T) {
	r := newTestRegistry()
	r.AddVisible(entry("B1"), PositionFront)
	r.AddVisible(entry("B2"), PositionFront)

	if !r.Select("B1") {
		t.Fatal("Select(B1) = false")
	}
	if _, ok := r.RemoveVisible("B1"); !ok {
		t.Fatal("RemoveVisible(B1) = false")
	}
	if r.SelectedKey() != "" {
		t.Errorf("selection = %q, want unset", r.SelectedKey())
	}
	assertKeys(t, "visible", r.VisibleKeys(), []string{"B2"})
}

func TestStaleOperationsAreNoOps(t *testing.T) {
	r := newTestRegistry()
	r.AddVisible(entry("B1"), PositionFront)

	if _, ok := r.RemoveVisible("missing"); ok {
		t.Error("RemoveVisible(missing) reported success")
	}
	if r.Suppress("missing") {
		t.Error("Suppress(missing) reported success")
	}
	if r.Unsuppress("B1") {
		t.Error("Unsuppress of a visible key reported success")
	}
	if r.Select("missing") {
		t.Error("Select(missing) reported success")
	}
	assertKeys(t, "visible", r.VisibleKeys(), []string{"B1"})
}

func TestSuppressAndUnsuppress(t *testing.T) {
	r := newTestRegistry()
	r.AddVisible(entry("B1"), PositionFront)
	r.AddVisible(entry("B2"), PositionFront)
	r.AddVisible(entry("B3"), PositionFront)
	r.Select("B2")

	if !r.Suppress("B2") {
		t.Fatal("Suppress(B2) = false")
	}
	assertDisjoint(t, r)
	if r.SelectedKey() != "" {
		t.Errorf("suppressing the selected bubble should clear selection, got %q", r.SelectedKey())
	}
	assertKeys(t, "visible", r.VisibleKeys(), []string{"B3", "B1"})

	if !r.Unsuppress("B2") {
		t.Fatal("Unsuppress(B2) = false")
	}
	assertDisjoint(t, r)
	assertKeys(t, "visible", r.VisibleKeys(), []string{"B2", "B3", "B1"})
	if len(r.Suppressed()) != 0 {
		t.Errorf("suppressed = %v, want empty", r.Suppressed())
	}
}

func TestAddingSuppressedKeyLeavesSuppressedSet(t *testing.T) {
	r := newTestRegistry()
	r.AddVisible(entry("B1"), PositionFront)
	r.Suppress("B1")
	r.AddVisible(entry("B1"), PositionFront)

	assertDisjoint(t, r)
	if r.IsSuppressed("B1") {
		t.Error("B1 still suppressed after re-add")
	}
}

func TestRegistryDisjointUnderMixedOperations(t *testing.T) {
	r := newTestRegistry()
	ops := []func(){
		func() { r.AddVisible(entry("A"), PositionFront) },
		func() { r.AddVisible(entry("B"), PositionFront) },
		func() { r.Suppress("A") },
		func() { r.AddVisible(entry("A"), 1) },
		func() { r.Suppress("B") },
		func() { r.Unsuppress("B") },
		func() { r.Suppress("B") },
		func() { r.RemoveVisible("A") },
		func() { r.Unsuppress("A") },
		func() { r.AddVisible(entry("C"), PositionFront) },
		func() { r.Suppress("C") },
		func() { r.AddVisible(entry("B"), PositionFront) },
	}
	for i, op := range ops {
		op()
		for _, e := range r.Suppressed() {
			if r.IsVisible(e.Key()) {
				t.Fatalf("after op %d: %q in both sets", i, e.Key())
			}
		}
	}
}

func TestReorderKeepsOverflowLast(t *testing.T) {
	tests := []struct {
		name  string
		order []string
		want  []string
	}{
		{
			name:  "full order",
			order: []string{"B1", "B3", "B2"},
			want:  []string{"B1", "B3", "B2", OverflowKey},
		},
		{
			name:  "overflow listed first",
			order: []string{OverflowKey, "B2", "B1", "B3"},
			want:  []string{"B2", "B1", "B3", OverflowKey},
		},
		{
			name:  "partial order keeps the rest",
			order: []string{"B1"},
			want:  []string{"B1", "B3", "B2", OverflowKey},
		},
		{
			name:  "unknown and duplicate keys ignored",
			order: []string{"nope", "B2", "B2"},
			want:  []string{"B2", "B3", "B1", OverflowKey},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry()
			r.AddVisible(entry("B1"), PositionFront)
			r.AddVisible(entry("B2"), PositionFront)
			r.AddVisible(entry("B3"), PositionFront)
			r.AddVisible(NewOverflow(), PositionFront)

			r.Reorder(tt.order)
			assertKeys(t, "visible", r.VisibleKeys(), tt.want)
		})
	}
}

func TestClear(t *testing.T) {
	r := newTestRegistry()
	r.AddVisible(entry("B1"), PositionFront)
	r.AddVisible(entry("B2"), PositionFront)
	r.Suppress("B1")
	r.Select("B2")

	r.Clear()
	if r.Len() != 0 || len(r.Suppressed()) != 0 || r.SelectedKey() != "" {
		t.Errorf("Clear left state behind: visible=%v suppressed=%v selected=%q",
			r.VisibleKeys(), r.Suppressed(), r.SelectedKey())
	}
}

func TestParseLocation(t *testing.T) {
	for _, in := range []string{"left", "LEFT", " Left "} {
		loc, err := ParseLocation(in)
		if err != nil || loc != LocationLeft {
			t.Errorf("ParseLocation(%q) = %v, %v", in, loc, err)
		}
	}
	if _, err := ParseLocation("top"); err == nil {
		t.Error("ParseLocation(top) should fail")
	}
	if LocationLeft.Opposite() != LocationRight {
		t.Error("Opposite of left should be right")
	}
}
