package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/opsdash/internal/activity"
	"github.com/ziadkadry99/opsdash/internal/assistant"
	"github.com/ziadkadry99/opsdash/internal/fixtures"
	"github.com/ziadkadry99/opsdash/internal/tui"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Open the copilot workspace in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		database, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		pack, err := fixtures.Load()
		if err != nil {
			return err
		}

		// The terminal belongs to the UI, so the assistant logs nowhere.
		opts := assistantOptions(cfg, activity.NewStore(database), nil)
		opts.SessionID = "tui-" + uuid.NewString()
		s := assistant.New(pack, opts)
		defer s.Close()

		return tui.Run(s)
	},
}

func init() {
	rootCmd.AddCommand(workspaceCmd)
}
