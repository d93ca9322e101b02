package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dallionking/bubblebar/internal/config"
	"github.com/Dallionking/bubblebar/internal/tui/styles"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data directory and a default config",
	Long: `Initialize the bubblebar data directory.

Creates the state, icon, inbox and outbox directories and writes a
bubblebar.json holding every default, ready to edit. An existing config is
kept unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		if err := config.EnsureDirectories(e.paths); err != nil {
			return err
		}

		target := e.paths.ConfigFile
		if cfgFile != "" {
			target = cfgFile
		}
		_, statErr := os.Stat(target)
		switch {
		case statErr == nil && !initForce:
			fmt.Println(styles.Dim("kept existing " + target))
		default:
			if err := config.Save(config.Default(), target); err != nil {
				return err
			}
			fmt.Println(styles.Green("wrote") + " " + target)
		}

		fmt.Println()
		for _, d := range e.paths.Dirs() {
			fmt.Println("  " + styles.Label.Render("DIR") + "  " + styles.Value.Render(d))
		}
		fmt.Println()
		fmt.Println(styles.Dim("Next: bubblebar run"))
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config with the defaults")
	rootCmd.AddCommand(initCmd)
}
