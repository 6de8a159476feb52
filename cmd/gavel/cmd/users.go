package cmd

import (
	"github.com/spf13/cobra"
)

var (
	eventsLabel string
	eventsCount int
)

var userCmd = &cobra.Command{
	Use:   "user <marketplace> [owner]",
	Short: "Shows a user's reputation record, defaulting to your own",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}

		var owner string
		if len(args) == 2 {
			owner = args[1]
		} else {
			kp, err := loadKeypair()
			if err != nil {
				return err
			}
			owner = kp.Identity().Hex()
		}

		res, err := client.GetUser(args[0], owner)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Shows the market node's event journal, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		res, err := client.GetEvents(eventsLabel, eventsCount)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsLabel, "label", "", "Filters events by label")
	eventsCmd.Flags().IntVar(&eventsCount, "count", 50, "Number of events to show")
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(eventsCmd)
}
