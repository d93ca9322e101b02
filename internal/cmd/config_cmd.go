package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dallionking/bubblebar/internal/config"
	"github.com/Dallionking/bubblebar/internal/tui/styles"
)

// --- config (parent) ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `View the effective bubblebar configuration.

When run without subcommands, displays the settings after defaults, the
config file and BUBBLEBAR_* environment overrides are layered.

Subcommands:
  path       Print the config file in use
  validate   Check every setting is in range`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		cfg := e.cfg

		fmt.Println(styles.Title.Render("Configuration"))
		fmt.Println()
		row("FILE", orDash(e.file))
		row("ROOT", e.paths.Root)
		fmt.Println()
		fmt.Println(styles.Divider(50))
		fmt.Println()

		fmt.Println(styles.Bold("Layout"))
		row("  ICON", fmt.Sprintf("%g", cfg.Layout.IconSize))
		row("  SPACING", fmt.Sprintf("%g", cfg.Layout.Spacing))
		row("  STACKED", fmt.Sprintf("%d at scale %g, offset %g", cfg.Layout.MaxStacked, cfg.Layout.CollapsedScale, cfg.Layout.CollapsedOffset))
		row("  HANDLE", fmt.Sprintf("%gx%g", cfg.Layout.HandleWidth, cfg.Layout.HandleHeight))
		fmt.Println()

		fmt.Println(styles.Bold("Animation"))
		row("  DURATIONS", fmt.Sprintf("expand=%dms stash=%dms arrow=%dms population=%dms",
			cfg.Animation.ExpandMs, cfg.Animation.StashMs, cfg.Animation.ArrowMs, cfg.Animation.PopulationMs))
		row("  SPRING", fmt.Sprintf("freq=%g damping=%g @%dfps", cfg.Animation.SpringFreq, cfg.Animation.SpringDamp, cfg.Animation.FPS))
		fmt.Println()

		fmt.Println(styles.Bold("Drag"))
		row("  LONG PRESS", fmt.Sprintf("%dms", cfg.Drag.LongPressMs))
		row("  SLOP", fmt.Sprintf("%g", cfg.Drag.Slop))
		row("  ZONES", fmt.Sprintf("edge=%g dismiss=%g fullscreen=%g",
			cfg.Drag.EdgeFraction, cfg.Drag.DismissHeight, cfg.Drag.FullscreenHeight))
		fmt.Println()

		fmt.Println(styles.Bold("Directories"))
		row("  STATE", e.paths.State)
		row("  ICONS", e.paths.Icons)
		row("  INBOX", e.paths.Inbox.Pending)
		row("  OUTBOX", e.paths.Outbox)
		row("  LOG", orDash(e.paths.LogFile))
		return nil
	},
}

// --- config path ---

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		if e.file == "" {
			fmt.Println(e.paths.ConfigFile + " " + styles.Dim("(not created, run bubblebar init)"))
			return nil
		}
		fmt.Println(e.file)
		return nil
	},
}

// --- config validate ---

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every setting is in range",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		errs := config.Validate(e.cfg)
		if len(errs) == 0 {
			fmt.Println(styles.Green("valid"))
			return nil
		}
		for _, ve := range errs {
			fmt.Println("  " + styles.Red("✗") + " " + ve.Error())
		}
		return fmt.Errorf("%d invalid settings", len(errs))
	},
}

func row(label, value string) {
	fmt.Println(styles.Label.Width(14).Render(label) + styles.Value.Render(value))
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
