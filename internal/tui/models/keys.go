package models

import "github.com/charmbracelet/bubbles/key"

// KeyMap binds keys to bar requests and model toggles.
type KeyMap struct {
	Toggle     key.Binding
	Stash      key.Binding
	Next       key.Binding
	Prev       key.Binding
	Select     key.Binding
	Dismiss    key.Binding
	DismissAll key.Binding
	Flip       key.Binding
	Log        key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle:     key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e/enter", "expand or collapse")),
		Stash:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stash or unstash")),
		Next:       key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/l", "select next bubble")),
		Prev:       key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/h", "select previous bubble")),
		Select:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "select bubble by position")),
		Dismiss:    key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "dismiss selected bubble")),
		DismissAll: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "dismiss all bubbles")),
		Flip:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "move bar to the other side")),
		Log:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "show or hide activity")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Bindings lists every binding in help order.
func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{
		k.Toggle, k.Stash, k.Next, k.Prev, k.Select,
		k.Dismiss, k.DismissAll, k.Flip, k.Log, k.Help, k.Quit,
	}
}
