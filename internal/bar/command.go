package bar

import (
	"sync"
	"time"

	"github.com/Dallionking/bubblebar/internal/bubble"
)

// CommandKind names a notification sent to the bubble-state authority.
type CommandKind string

const (
	CmdShowSelected     CommandKind = "show_selected"
	CmdCollapse         CommandKind = "collapse"
	CmdDismissOne       CommandKind = "dismiss_one"
	CmdDismissAll       CommandKind = "dismiss_all"
	CmdSetLocation      CommandKind = "set_location"
	CmdStartDrag        CommandKind = "start_drag"
	CmdStopDrag         CommandKind = "stop_drag"
	CmdMoveToFullscreen CommandKind = "move_to_fullscreen"
)

// Location sources reported with CmdSetLocation.
const (
	SourceDrag     = "drag"
	SourceKeyboard = "keyboard"
	SourceRestore  = "restore"
)

// Command is a fire-and-forget notification. The authority may answer with
// a delta that disagrees with it; the authority wins.
type Command struct {
	Kind     CommandKind      `json:"kind"`
	Key      string           `json:"key,omitempty"`
	Location *bubble.Location `json:"location,omitempty"`
	Source   string           `json:"source,omitempty"`
	X        float64          `json:"x,omitempty"`
	Y        float64          `json:"y,omitempty"`
	SentAt   time.Time        `json:"sent_at"`
}

// Authority receives commands. Send must not block the caller.
type Authority interface {
	Send(cmd Command)
}

// ShowSelected asks the authority to expand onto key.
func ShowSelected(key string) Command {
	return Command{Kind: CmdShowSelected, Key: key}
}

// Collapse tells the authority the bar collapsed.
func Collapse() Command {
	return Command{Kind: CmdCollapse}
}

// DismissOne dismisses one bubble.
func DismissOne(key string) Command {
	return Command{Kind: CmdDismissOne, Key: key}
}

// DismissAll dismisses every bubble.
func DismissAll() Command {
	return Command{Kind: CmdDismissAll}
}

// SetLocation reports a new docking edge and what caused it.
func SetLocation(loc bubble.Location, source string) Command {
	return Command{Kind: CmdSetLocation, Location: &loc, Source: source}
}

// StartDrag reports that key (or the whole bar when key is empty) is being
// dragged.
func StartDrag(key string) Command {
	return Command{Kind: CmdStartDrag, Key: key}
}

// StopDrag reports the end of a drag and the location it left the bar at.
func StopDrag(loc bubble.Location) Command {
	return Command{Kind: CmdStopDrag, Location: &loc}
}

// MoveToFullscreen asks the authority to open key full screen, dropped at
// (x, y).
func MoveToFullscreen(key string, x, y float64) Command {
	return Command{Kind: CmdMoveToFullscreen, Key: key, X: x, Y: y}
}

// Recorder is an in-memory Authority. It is safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	cmds []Command
}

// Send implements Authority.
func (r *Recorder) Send(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, cmd)
}

// Commands returns every command recorded so far.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.cmds))
	copy(out, r.cmds)
	return out
}

// Kinds returns the kinds of the recorded commands in order.
func (r *Recorder) Kinds() []CommandKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]CommandKind, len(r.cmds))
	for i, c := range r.cmds {
		out[i] = c.Kind
	}
	return out
}

// Reset forgets recorded commands.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = nil
}

// Tee fans commands out to several authorities.
type Tee []Authority

// Send implements Authority.
func (t Tee) Send(cmd Command) {
	for _, a := range t {
		if a != nil {
			a.Send(cmd)
		}
	}
}

type discard struct{}

func (discard) Send(Command) {}
