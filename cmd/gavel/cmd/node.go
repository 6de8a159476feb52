package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/tomb.v2"

	"github.com/seradyn/gavel"
	"github.com/seradyn/gavel/marketd/api"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Returns status information about the market node",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		status, err := client.Status()
		if err != nil {
			return err
		}
		return printJSON(status)
	},
}

var startStandalone bool

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts the gavel daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		tmb := new(tomb.Tomb)

		go func() {
			sigC := make(chan os.Signal, 1)
			signal.Notify(sigC, syscall.SIGTERM, syscall.SIGINT)
			select {
			case sig := <-sigC:
				cmdLogger.Info("caught signal, shutting down", "signal", sig.String())
				tmb.Kill(nil)
				return
			case <-tmb.Dying():
				return
			}
		}()

		return api.Start(tmb, gavel.Config.Network, gavel.Config.Prefix, apiKey, ledgerURL, ledgerAPIKey, startStandalone)
	},
}

func init() {
	startCmd.Flags().BoolVar(&startStandalone, "standalone", false, "Runs against an in-memory asset ledger")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(startCmd)
}
