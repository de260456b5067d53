package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/opsdash/internal/activity"
)

var (
	activitySource string
	activityLimit  int
	activityPrune  time.Duration
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "List or prune the recorded activity log",
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
		store := activity.NewStore(database)

		if activityPrune > 0 {
			n, err := store.DeleteBefore(cmd.Context(), time.Now().Add(-activityPrune))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries older than %s\n", n, activityPrune)
			return nil
		}

		entries, err := store.Query(cmd.Context(), activity.QueryFilter{
			Source: activity.Source(activitySource),
			Limit:  activityLimit,
		})
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tSOURCE\tLEVEL\tTEXT")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Timestamp.Format(time.DateTime), e.Source, e.Level, e.Text)
		}
		return tw.Flush()
	},
}

func init() {
	activityCmd.Flags().StringVar(&activitySource, "source", "", "only entries from this source (system, assistant, dashboard, detail, workspace)")
	activityCmd.Flags().IntVar(&activityLimit, "limit", 50, "maximum entries to list")
	activityCmd.Flags().DurationVar(&activityPrune, "prune", 0, "delete entries older than this duration instead of listing")
	rootCmd.AddCommand(activityCmd)
}
