package bubble

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// OverflowKey is the identity of the synthetic trailing overflow entry.
const OverflowKey = "Overflow"

// Location is the screen edge the bar is docked to.
type Location int

const (
	LocationLeft Location = iota
	LocationRight
)

// String returns the lowercase name of the location.
func (l Location) String() string {
	switch l {
	case LocationLeft:
		return "left"
	case LocationRight:
		return "right"
	default:
		return "unknown"
	}
}

// Opposite returns the other docking edge.
func (l Location) Opposite() Location {
	if l == LocationLeft {
		return LocationRight
	}
	return LocationLeft
}

// ParseLocation converts "left" / "right" (any case) into a Location.
func ParseLocation(s string) (Location, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return LocationLeft, nil
	case "right":
		return LocationRight, nil
	default:
		return LocationLeft, fmt.Errorf("unknown location %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Location) UnmarshalText(b []byte) error {
	loc, err := ParseLocation(string(b))
	if err != nil {
		return err
	}
	*l = loc
	return nil
}

// Descriptor is the raw bubble metadata pushed by the remote authority.
// It is turned into a presentable Entry by an icon materializer.
type Descriptor struct {
	Key           string `json:"key"`
	PackageName   string `json:"package"`
	ShortcutID    string `json:"shortcut,omitempty"`
	AppName       string `json:"app_name,omitempty"`
	IconPath      string `json:"icon,omitempty"`
	Tint          string `json:"tint,omitempty"` // "#rrggbb", used when no icon file exists
	Title         string `json:"title,omitempty"`
	Message       string `json:"message,omitempty"`
	UnseenContent bool   `json:"unseen,omitempty"`
}

// Payload is the presentation bundle produced by materialization.
type Payload struct {
	Icon     image.Image
	Badge    image.Image
	DotColor color.RGBA
	DotPath  string
	AppName  string
	Flyout   Flyout
}

// Flyout is the text shown next to a freshly updated bubble.
type Flyout struct {
	Title   string
	Message string
}

// Entry is a presentable bubble. Its key is immutable; the payload is
// mutated in place on updates so anything bound to the entry stays valid.
type Entry struct {
	key        string
	descriptor Descriptor

	Payload   Payload
	HasUnseen bool
	overflow  bool
}

// NewEntry creates an entry for a materialized descriptor.
func NewEntry(d Descriptor, p Payload) *Entry {
	return &Entry{
		key:        d.Key,
		descriptor: d,
		Payload:    p,
		HasUnseen:  d.UnseenContent,
	}
}

// NewOverflow creates the overflow placeholder.
func NewOverflow() *Entry {
	return &Entry{
		key:        OverflowKey,
		descriptor: Descriptor{Key: OverflowKey, AppName: "More"},
		Payload:    Payload{AppName: "More", DotPath: "circle"},
		overflow:   true,
	}
}

// Key returns the immutable identity of the entry.
func (e *Entry) Key() string { return e.key }

// IsOverflow reports whether e is the overflow placeholder.
func (e *Entry) IsOverflow() bool { return e.overflow }

// Descriptor returns the descriptor the entry was last materialized from.
func (e *Entry) Descriptor() Descriptor { return e.descriptor }

// Update copies the payload and descriptor of src into e. The key of src
// must match; mismatched keys are ignored and reported as false.
func (e *Entry) Update(src *Entry) bool {
	if src == nil || src.key != e.key {
		return false
	}
	e.descriptor = src.descriptor
	e.Payload = src.Payload
	e.HasUnseen = src.HasUnseen
	return true
}

// String implements fmt.Stringer for log output.
func (e *Entry) String() string {
	if e == nil {
		return "<nil>"
	}
	return e.key
}
