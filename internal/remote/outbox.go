package remote

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/Dallionking/bubblebar/internal/bar"
)

// Outbox implements bar.Authority by writing each command as a file the
// authority picks up.
type Outbox struct {
	dir *Dir
	now func() time.Time
	log zerolog.Logger
}

// NewOutbox creates an outbox over path.
func NewOutbox(path string, log zerolog.Logger) (*Outbox, error) {
	dir, err := NewDir(path)
	if err != nil {
		return nil, err
	}
	return &Outbox{dir: dir, now: time.Now, log: log.With().Str("component", "outbox").Logger()}, nil
}

// Send writes cmd. Failures are logged; commands are fire-and-forget.
func (o *Outbox) Send(cmd bar.Command) {
	if cmd.SentAt.IsZero() {
		cmd.SentAt = o.now()
	}
	name, err := o.dir.Write(cmd, cmd.SentAt)
	if err != nil {
		o.log.Error().Err(err).Str("kind", string(cmd.Kind)).Msg("command not written")
		return
	}
	o.log.Debug().Str("kind", string(cmd.Kind)).Str("key", cmd.Key).Str("file", name).Msg("command sent")
}

// Commands reads back the commands not yet consumed by the authority, in
// the order they were sent.
func (o *Outbox) Commands() ([]bar.Command, error) {
	names, err := o.dir.Pending()
	if err != nil {
		return nil, err
	}
	out := make([]bar.Command, 0, len(names))
	for _, name := range names {
		var cmd bar.Command
		if err := o.dir.Read(name, &cmd); err != nil {
			o.log.Warn().Err(err).Str("file", name).Msg("unreadable command skipped")
			continue
		}
		out = append(out, cmd)
	}
	return out, nil
}

// Dir exposes the underlying directory.
func (o *Outbox) Dir() *Dir { return o.dir }
