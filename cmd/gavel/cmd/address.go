package cmd

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/seradyn/gavel/ledger"
	"github.com/seradyn/gavel/market"
)

// Derivations run entirely offline so addresses can be computed
// without a running node.

var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Derives record addresses offline",
}

var marketplaceAddressCmd = &cobra.Command{
	Use:   "marketplace <admin> <credit-mint> <name>",
	Short: "Derives a marketplace address",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		admin, err := ledger.ParseIdentity(args[0])
		if err != nil {
			return errors.Wrap(err, "invalid admin")
		}
		creditMint, err := ledger.ParseIdentity(args[1])
		if err != nil {
			return errors.Wrap(err, "invalid credit mint")
		}
		addr, bump := market.MarketplaceAddress(admin, creditMint, args[2])
		return printAddress(addr, bump)
	},
}

var listingAddressCmd = &cobra.Command{
	Use:   "listing <marketplace> <asset> [seed]",
	Short: "Derives a listing address",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		marketplace, err := ledger.ParseIdentity(args[0])
		if err != nil {
			return errors.Wrap(err, "invalid marketplace")
		}
		asset, err := ledger.ParseIdentity(args[1])
		if err != nil {
			return errors.Wrap(err, "invalid asset")
		}
		var seed uint64
		if len(args) == 3 {
			seed, err = strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return errors.Wrap(err, "invalid seed")
			}
		}
		addr, bump := market.ListingAddress(marketplace, asset, seed)
		return printAddress(addr, bump)
	},
}

var userAddressCmd = &cobra.Command{
	Use:   "user <marketplace> <owner>",
	Short: "Derives a user account address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		marketplace, err := ledger.ParseIdentity(args[0])
		if err != nil {
			return errors.Wrap(err, "invalid marketplace")
		}
		owner, err := ledger.ParseIdentity(args[1])
		if err != nil {
			return errors.Wrap(err, "invalid owner")
		}
		addr, bump := market.UserAccountAddress(marketplace, owner)
		return printAddress(addr, bump)
	},
}

var treasuryAddressCmd = &cobra.Command{
	Use:   "treasury <marketplace>",
	Short: "Derives a marketplace's treasury address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		marketplace, err := ledger.ParseIdentity(args[0])
		if err != nil {
			return errors.Wrap(err, "invalid marketplace")
		}
		addr, bump := market.TreasuryAddress(marketplace)
		return printAddress(addr, bump)
	},
}

func printAddress(addr ledger.Identity, bump uint8) error {
	return printJSON(map[string]interface{}{
		"address": addr.Hex(),
		"bech32":  addr.String(),
		"bump":    bump,
	})
}

func init() {
	addressCmd.AddCommand(marketplaceAddressCmd)
	addressCmd.AddCommand(listingAddressCmd)
	addressCmd.AddCommand(userAddressCmd)
	addressCmd.AddCommand(treasuryAddressCmd)
	rootCmd.AddCommand(addressCmd)
}
