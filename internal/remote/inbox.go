package remote

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/Dallionking/bubblebar/internal/bar"
)

// Submitter accepts deltas for materialization; *bar.Adapter implements it.
type Submitter interface {
	Submit(d bar.Delta) uint64
}

// Inbox feeds delta files written by the authority into the bar, in file
// name order. Each file is moved to processed/ once submitted, or to failed/
// when it cannot be decoded.
type Inbox struct {
	dir      *Dir
	sink     Submitter
	debounce time.Duration
	log      zerolog.Logger
}

// NewInbox creates an inbox over path.
func NewInbox(path string, sink Submitter, debounce time.Duration, log zerolog.Logger) (*Inbox, error) {
	dir, err := NewDir(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 50 * time.Millisecond
	}
	return &Inbox{
		dir:      dir,
		sink:     sink,
		debounce: debounce,
		log:      log.With().Str("component", "inbox").Logger(),
	}, nil
}

// Dir exposes the underlying directory.
func (in *Inbox) Dir() *Dir { return in.dir }

// Drain submits every pending delta file and returns how many were
// submitted.
func (in *Inbox) Drain() (int, error) {
	names, err := in.dir.Pending()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, name := range names {
		var d bar.Delta
		if err := in.dir.Read(name, &d); err != nil {
			in.log.Warn().Err(err).Str("file", name).Msg("undecodable delta moved to failed")
			if err := in.dir.Move(name, "failed"); err != nil {
				return n, err
			}
			continue
		}
		if d.Source == "" {
			d.Source = "remote"
		}
		seq := in.sink.Submit(d)
		if err := in.dir.Move(name, "processed"); err != nil {
			return n, err
		}
		in.log.Debug().Str("file", name).Uint64("seq", seq).Msg("delta submitted")
		n++
	}
	return n, nil
}

// Run drains the backlog, then watches the directory and drains again
// after each burst of writes settles. It returns when ctx is done.
func (in *Inbox) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fsw.Close()
	if err := fsw.Add(in.dir.Path()); err != nil {
		return fmt.Errorf("watch directory %s: %w", in.dir.Path(), err)
	}

	if _, err := in.Drain(); err != nil {
		in.log.Error().Err(err).Msg("draining backlog")
	}
	in.log.Info().Str("dir", in.dir.Path()).Msg("watching for deltas")

	// Debounce timer to coalesce rapid filesystem events.
	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if strings.HasPrefix(name, tmpPrefix) || !strings.HasSuffix(name, ".json") {
				continue
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
				continue
			}
			debounce.Reset(in.debounce)

		case <-debounce.C:
			if _, err := in.Drain(); err != nil {
				in.log.Error().Err(err).Msg("draining inbox")
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			in.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// Post writes d into the inbox at path, as the authority would.
func Post(path string, d bar.Delta, now time.Time) (string, error) {
	dir, err := NewDir(path)
	if err != nil {
		return "", err
	}
	return dir.Write(d, now)
}
