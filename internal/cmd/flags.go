package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dallionking/bubblebar/internal/config"
	"github.com/Dallionking/bubblebar/internal/flags"
	"github.com/Dallionking/bubblebar/internal/tui/styles"
)

var flagsJSON bool

var flagsCmd = &cobra.Command{
	Use:   "flags [name=true|false ...]",
	Short: "List or set feature flags",
	Long: `Show the feature flags read at startup, or change them.

With arguments, each name=value pair is written to the config file. A
running bar picks up changes on its next start.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}

		if len(args) > 0 {
			if err := setFlags(e, args); err != nil {
				return err
			}
		}

		table := e.cfg.FlagTable()
		if flagsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(table.Map())
		}

		fmt.Println(styles.Title.Render("Feature Flags"))
		fmt.Println()
		for _, name := range table.Names() {
			state := styles.Red("off")
			if table.Enabled(name) {
				state = styles.Green("on ")
			}
			fmt.Printf("  %s  %s\n", state, styles.Bold(name))
		}
		return nil
	},
}

func setFlags(e *env, args []string) error {
	known := flags.New(nil)
	if e.cfg.Flags == nil {
		e.cfg.Flags = map[string]bool{}
	}
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected name=value, got %q", arg)
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if !known.Known(name) {
			return fmt.Errorf("unknown flag %q", name)
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("flag %s: %w", name, err)
		}
		e.cfg.Flags[name] = v
	}

	target := e.file
	if target == "" {
		target = e.paths.ConfigFile
	}
	if err := config.Save(e.cfg, target); err != nil {
		return err
	}
	fmt.Println(styles.Green("saved") + " " + styles.Dim(target))
	fmt.Println()
	return nil
}

func init() {
	flagsCmd.Flags().BoolVar(&flagsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(flagsCmd)
}
