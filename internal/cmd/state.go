package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Dallionking/bubblebar/internal/bar"
	"github.com/Dallionking/bubblebar/internal/bubble"
	"github.com/Dallionking/bubblebar/internal/icon"
	"github.com/Dallionking/bubblebar/internal/persist"
	"github.com/Dallionking/bubblebar/internal/tui/styles"
	"github.com/Dallionking/bubblebar/internal/tui/views"
)

var (
	stateJSON    bool
	statePreview bool
	stateClear   bool
	stateWidth   int
	stateHeight  int
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the saved bar state",
	Long: `Print the bar state saved when the bar last closed.

Flags:
  --json      output the snapshot as JSON
  --preview   render the restored bar once, without a TUI
  --clear     forget the saved state`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		store := persist.Open(e.paths.State, zerolog.Nop())
		if stateClear {
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Println(styles.Green("cleared") + " " + styles.Dim(store.Dir()))
			return nil
		}

		snap, err := store.Load()
		if errors.Is(err, persist.ErrNoState) {
			if stateJSON {
				fmt.Println("null")
				return nil
			}
			fmt.Println(styles.Dim("No saved state yet."))
			return nil
		}
		if err != nil {
			return err
		}

		switch {
		case stateJSON:
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		case statePreview:
			return previewState(cmd.Context(), e, snap)
		}
		printState(snap)
		return nil
	},
}

func printState(snap persist.Snapshot) {
	fmt.Println(styles.Title.Render("Bar State"))
	fmt.Println()
	fmt.Println(styles.Label.Render("SAVED") + "      " + styles.Value.Render(snap.SavedAt.Local().Format("2006-01-02 15:04:05")))
	fmt.Println(styles.Label.Render("DOCK") + "       " + styles.Value.Render(snap.Location.String()))
	fmt.Println(styles.Label.Render("SELECTED") + "   " + styles.Value.Render(orDash(snap.Selected)))
	fmt.Println()
	fmt.Println(styles.Divider(50))
	fmt.Println()

	fmt.Println(styles.Bold(fmt.Sprintf("Visible (%d)", len(snap.Visible))))
	for i, d := range snap.Visible {
		marker := " "
		if d.Key == snap.Selected {
			marker = styles.Cyan("▸")
		}
		fmt.Printf("  %s %d. %-20s %s\n", marker, i+1, styles.Bold(d.Key), styles.Dim(describe(d)))
	}
	if len(snap.Suppressed) > 0 {
		fmt.Println()
		fmt.Println(styles.Bold(fmt.Sprintf("Suppressed (%d)", len(snap.Suppressed))))
		for _, d := range snap.Suppressed {
			fmt.Printf("    %-20s %s\n", styles.Bold(d.Key), styles.Dim(describe(d)))
		}
	}
}

// previewState restores snap into a throwaway controller and renders it.
func previewState(ctx context.Context, e *env, snap persist.Snapshot) error {
	opts, err := barOptions(e.cfg)
	if err != nil {
		return err
	}
	ctrl, err := bar.NewController(opts, nil, zerolog.Nop())
	if err != nil {
		return err
	}
	mat := icon.NewFileMaterializer(iconOptions(e.cfg, e.paths), zerolog.Nop())
	ctrl.Restore(ctx, snap, mat, snap.SavedAt)
	fmt.Println(views.RenderOnce(ctrl, stageZones(opts), stateWidth, stateHeight))
	return nil
}

func describe(d bubble.Descriptor) string {
	name := d.AppName
	if name == "" {
		name = d.PackageName
	}
	if d.Title != "" {
		return name + ": " + d.Title
	}
	return name
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	stateCmd.Flags().BoolVar(&stateJSON, "json", false, "output as JSON")
	stateCmd.Flags().BoolVar(&statePreview, "preview", false, "render the restored bar once")
	stateCmd.Flags().BoolVar(&stateClear, "clear", false, "forget the saved state")
	stateCmd.Flags().IntVar(&stateWidth, "width", 80, "preview width in columns")
	stateCmd.Flags().IntVar(&stateHeight, "height", 14, "preview height in rows")
	rootCmd.AddCommand(stateCmd)
}
