package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dallionking/bubblebar/internal/bar"
	"github.com/Dallionking/bubblebar/internal/remote"
	"github.com/Dallionking/bubblebar/internal/tui/styles"
)

var sendCmd = &cobra.Command{
	Use:   "send <delta.json|->",
	Short: "Push a delta into the inbox",
	Long: `Write a delta into the inbox directory, as the authority would.

The delta is read from the named file, or from stdin when the argument is
"-". A running bar picks it up within the configured debounce.

Example:
  echo '{"added":[{"key":"mail","package":"com.mail","title":"Inbox","tint":"#4fc1ff"}],"selected":"mail"}' | bubblebar send -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}

		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		var d bar.Delta
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return fmt.Errorf("decoding delta: %w", err)
		}
		if d.Empty() {
			return fmt.Errorf("delta is empty")
		}

		name, err := remote.Post(e.paths.Inbox.Pending, d, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.Green("queued")+" "+styles.Dim(name))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
