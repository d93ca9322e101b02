package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dallionking/bubblebar/internal/health"
)

var (
	doctorJSON     bool
	doctorCategory string
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Aliases: []string{"health"},
	Short:   "Run configuration and storage health checks",
	Long: `Run diagnostic checks against the bubblebar setup.

Checks are grouped into categories:
  config    - config file, value ranges, feature flags
  storage   - state directory, saved state, icon directory
  remote    - inbox and outbox directories

Use --category to run only one group. The command exits non-zero when a
check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		log, closer, err := e.newLogger(false, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer closer.Close()

		checker := health.NewChecker(e.cfg, e.file, e.paths, log)
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		var report *health.Report
		if doctorCategory != "" {
			report = checker.RunCategory(ctx, doctorCategory)
		} else {
			report = checker.RunAll(ctx)
		}

		if doctorJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			fmt.Print(health.FormatReport(report))
		}
		if !report.Healthy {
			return fmt.Errorf("%d checks failed", report.Failed)
		}
		return nil
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output the report as JSON")
	doctorCmd.Flags().StringVar(&doctorCategory, "category", "", "run checks in a category: config, storage, or remote")
	rootCmd.AddCommand(doctorCmd)
}
