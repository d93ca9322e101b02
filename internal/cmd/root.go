package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Dallionking/bubblebar/internal/config"
	"github.com/Dallionking/bubblebar/internal/logging"
)

var (
	cfgFile string
	dataDir string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "bubblebar",
	Short: "Floating bubble bar for the terminal",
	Long: `Bubblebar: a dockable bar of app bubbles

Bubbles arrive as deltas from an authority process, are collected into a
bar docked to the left or right of the screen and can be expanded,
stashed, dragged and dismissed with the mouse or the keyboard.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || os.Getenv("NO_COLOR") != "" {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("bubblebar " + Version)
		fmt.Println("Run 'bubblebar --help' for available commands")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./bubblebar.json, then the data directory)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", "", "data directory (default is the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")
}

// env is the loaded configuration shared by every command.
type env struct {
	cfg   *config.Config
	file  string
	paths *config.Paths
}

// loadEnv resolves the data directory and reads the config layered over
// the defaults.
func loadEnv() (*env, error) {
	dir := dataDir
	if dir == "" {
		d, err := config.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	cfg, file, err := config.Load(cfgFile, dir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &env{cfg: cfg, file: file, paths: config.NewPaths(cfg, dir)}, nil
}

// newLogger builds the command logger. toFile sends logs to the configured
// log file, for commands that hand the terminal to the TUI.
func (e *env) newLogger(toFile bool, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	level := e.cfg.Log.Level
	if verbose {
		level = "debug"
	}
	opts := logging.Options{Level: level, Console: true, Stderr: stderr}
	if toFile {
		if e.paths.LogFile == "" {
			return zerolog.Nop(), io.NopCloser(nil), nil
		}
		opts.File = e.paths.LogFile
	} else if !verbose {
		opts.Level = "warn"
	}
	return logging.New(opts)
}
