package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dallionking/bubblebar/internal/bar"
	"github.com/Dallionking/bubblebar/internal/config"
	"github.com/Dallionking/bubblebar/internal/flags"
	"github.com/Dallionking/bubblebar/internal/icon"
	"github.com/Dallionking/bubblebar/internal/persist"
	"github.com/Dallionking/bubblebar/internal/remote"
	"github.com/Dallionking/bubblebar/internal/tui/models"
	"github.com/Dallionking/bubblebar/internal/tui/styles"
	"github.com/Dallionking/bubblebar/internal/tui/views"
)

var runFresh bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the bubble bar",
	Long: `Open the interactive bubble bar.

Deltas written to the inbox directory by the authority (or by
'bubblebar send') appear as bubbles. Every user action is written to the
outbox directory as a command for the authority to act on.

Mouse:
  tap the bar        expand or collapse
  tap a bubble       select it
  long-press, drag   move a bubble or the whole bar; drop on a side strip
                     to dock there or on the bottom strip to dismiss

Press ? inside the bar for the key bindings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		if errs := config.Validate(e.cfg); len(errs) > 0 {
			msgs := make([]string, 0, len(errs))
			for _, ve := range errs {
				msgs = append(msgs, ve.Error())
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		if err := config.EnsureDirectories(e.paths); err != nil {
			return err
		}

		log, closer, err := e.newLogger(true, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer closer.Close()

		opts, err := barOptions(e.cfg)
		if err != nil {
			return err
		}
		zones := stageZones(opts)
		resolver := zoneResolver(zones)
		opts.Resolver = resolver

		outbox, err := remote.NewOutbox(e.paths.Outbox, log)
		if err != nil {
			return err
		}
		feed := &bar.Recorder{}
		ctrl, err := bar.NewController(opts, bar.Tee{outbox, feed}, log)
		if errors.Is(err, bar.ErrDisabled) {
			fmt.Println(styles.Dim("The bubble bar is turned off (" + flags.BubbleBar + "). Enable it with 'bubblebar flags " + flags.BubbleBar + "=true'."))
			return nil
		}
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		mat := icon.NewFileMaterializer(iconOptions(e.cfg, e.paths), log)
		store := persist.Open(e.paths.State, log)
		keep := e.cfg.FlagTable().Enabled(flags.PersistState)
		if keep && !runFresh {
			snap, err := store.Load()
			switch {
			case err == nil:
				ctrl.Restore(ctx, snap, mat, time.Now())
			case !errors.Is(err, persist.ErrNoState):
				log.Warn().Err(err).Msg("saved state unreadable, starting empty")
			}
		}

		pool := icon.NewPool(e.cfg.Icons.Workers, log)
		defer pool.Close()

		queue := bar.NewQueue(256)
		feedCtx, stopFeed := context.WithCancel(ctx)
		defer stopFeed()
		adapter := bar.NewAdapter(feedCtx, mat, pool, queue, log)
		inbox, err := remote.NewInbox(e.paths.Inbox.Pending, adapter, ms(e.cfg.Remote.DebounceMs), log)
		if err != nil {
			return err
		}
		if e.file != "" {
			err := config.Watch(e.file, func(cfg *config.Config, err error) {
				if err == nil {
					if errs := config.Validate(cfg); len(errs) > 0 {
						err = errs[0]
					}
				}
				if err != nil {
					log.Warn().Err(err).Msg("config change ignored")
					return
				}
				next, err := barOptions(cfg)
				if err != nil {
					log.Warn().Err(err).Msg("config change ignored")
					return
				}
				if err := queue.Post(feedCtx, bar.Configure{Timing: next.Timing, Layout: next.Layout}); err != nil {
					log.Debug().Err(err).Msg("config change dropped")
				}
			})
			if err != nil {
				log.Warn().Err(err).Msg("config file not watched")
			}
		}

		stopInbox := startFeed(feedCtx, queue, inbox.Run, log)

		model := models.NewBarModel(models.BarOptions{
			Controller: ctrl,
			Queue:      queue,
			Pending:    adapter.Pending,
			Feed:       feed,
			Resolver:   resolver,
			Zones:      zones,
			FPS:        e.cfg.Animation.FPS,
			Log:        log,
		})
		final, runErr := views.RunBar(ctx, model)

		stopFeed()
		stopInbox()

		if keep {
			if err := store.Save(final.Controller().Snapshot(time.Now())); err != nil {
				log.Error().Err(err).Msg("saving bar state")
			}
		}
		return runErr
	},
}

func init() {
	runCmd.Flags().BoolVar(&runFresh, "fresh", false, "ignore the saved bar state")
	rootCmd.AddCommand(runCmd)
}
