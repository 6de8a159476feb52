package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/seradyn/gavel"
	"github.com/seradyn/gavel/ledger"
	"github.com/seradyn/gavel/log"
	"github.com/seradyn/gavel/marketd"
)

var (
	prefix       string
	network      string
	serverURL    string
	apiKey       string
	ledgerURL    string
	ledgerAPIKey string
	keyFile      string
	verbose      bool
)

var cmdLogger = log.ModuleLogger("cmd")

var rootCmd = &cobra.Command{
	Use:          "gavel",
	Short:        "A penny-auction marketplace node",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetVerbose(verbose)

		net, err := ledger.NetworkFromName(network)
		if err != nil {
			return errors.Wrap(err, "invalid network")
		}
		ledger.SetCurrNetwork(net)

		dd, err := marketd.NewDataDir(prefix)
		if err != nil {
			return errors.Wrap(err, "invalid prefix")
		}
		if err := dd.EnsureNetwork(net.Name); err != nil {
			return errors.Wrap(err, "error creating network directory")
		}

		if keyFile == "" {
			keyFile = dd.KeyFilePath(net.Name)
		}

		gavel.Config.Prefix = dd.NetworkPath(net.Name)
		gavel.Config.Network = net
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&prefix, "prefix", "~/.gavel", "Sets gavel's data directory")
	rootCmd.PersistentFlags().StringVarP(&network, "network", "n", "main", "Sets gavel's network")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server-url", "u", "", "Sets a custom market node url")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Sets the market node's API key.")
	rootCmd.PersistentFlags().StringVar(&ledgerURL, "ledger-url", "", "Sets an alternate URL to the asset ledger node.")
	rootCmd.PersistentFlags().StringVar(&ledgerAPIKey, "ledger-api-key", "", "Sets the asset ledger node's API key.")
	rootCmd.PersistentFlags().StringVarP(&keyFile, "key-file", "k", "", "Sets the signing key file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enables debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
