package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dallionking/bubblebar/internal/bar"
	"github.com/Dallionking/bubblebar/internal/bubble"
	"github.com/Dallionking/bubblebar/internal/config"
	"github.com/Dallionking/bubblebar/internal/drag"
	"github.com/Dallionking/bubblebar/internal/flags"
	"github.com/Dallionking/bubblebar/internal/icon"
	"github.com/Dallionking/bubblebar/internal/layout"
	"github.com/Dallionking/bubblebar/internal/tui/components"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// barOptions converts the config into controller options. The screen size
// is filled in once the terminal reports it.
func barOptions(cfg *config.Config) (bar.Options, error) {
	loc, err := bubble.ParseLocation(cfg.Screen.Location)
	if err != nil {
		return bar.Options{}, fmt.Errorf("screen.location: %w", err)
	}
	params := layout.DefaultParams()
	params.IconSize = cfg.Layout.IconSize
	params.Spacing = cfg.Layout.Spacing
	params.CollapsedOffset = cfg.Layout.CollapsedOffset
	params.CollapsedScale = cfg.Layout.CollapsedScale
	params.Padding = cfg.Layout.Padding
	params.MaxStacked = cfg.Layout.MaxStacked
	params.HandleWidth = cfg.Layout.HandleWidth
	params.HandleHeight = cfg.Layout.HandleHeight

	return bar.Options{
		Layout: params,
		Timing: bar.Timing{
			Expand:     ms(cfg.Animation.ExpandMs),
			Stash:      ms(cfg.Animation.StashMs),
			Arrow:      ms(cfg.Animation.ArrowMs),
			Population: ms(cfg.Animation.PopulationMs),
		},
		Drag: drag.Config{
			LongPress:      ms(cfg.Drag.LongPressMs),
			Slop:           cfg.Drag.Slop,
			VelocityWindow: ms(cfg.Drag.VelocityWindowMs),
		},
		Spring: bar.Spring{
			FPS:              cfg.Animation.FPS,
			AngularFrequency: cfg.Animation.SpringFreq,
			Damping:          cfg.Animation.SpringDamp,
		},
		Flags:            cfg.FlagTable(),
		Screen:           bar.Screen{Bottom: cfg.Screen.Bottom},
		Location:         loc,
		EdgeFraction:     cfg.Drag.EdgeFraction,
		DismissHeight:    cfg.Drag.DismissHeight,
		FullscreenHeight: cfg.Drag.FullscreenHeight,
	}, nil
}

// stageZones mirrors the controller's drop zones for drawing.
func stageZones(opts bar.Options) components.Zones {
	return components.Zones{
		EdgeFraction:      opts.EdgeFraction,
		DismissHeight:     opts.DismissHeight,
		FullscreenHeight:  opts.FullscreenHeight,
		FullscreenEnabled: opts.Flags.Enabled(flags.BubbleToFullscreen),
	}
}

// zoneResolver resolves drops against the rendered strips, falling back to
// plain edge geometry.
func zoneResolver(z components.Zones) *components.ZoneResolver {
	return &components.ZoneResolver{
		Edge: drag.EdgeResolver{
			EdgeFraction:      z.EdgeFraction,
			DismissHeight:     z.DismissHeight,
			FullscreenHeight:  z.FullscreenHeight,
			FullscreenEnabled: z.FullscreenEnabled,
		},
	}
}

func iconOptions(cfg *config.Config, paths *config.Paths) icon.Options {
	return icon.Options{Dir: paths.Icons, Size: cfg.Icons.Size, BadgeSize: cfg.Icons.BadgeSize}
}

// startFeed runs src on its own goroutine until the returned stop is called.
// stop closes the queue before waiting, so a producer blocked on a full queue
// nobody drains any more still returns.
func startFeed(ctx context.Context, q *bar.Queue, src func(context.Context) error, log zerolog.Logger) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := src(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("inbox stopped")
		}
	}()
	return func() {
		cancel()
		q.Close()
		<-done
	}
}
