package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/seradyn/gavel/gjson"
	"github.com/seradyn/gavel/marketd/api"
)

var (
	listSeed           uint64
	listBidIncrement   uint64
	listTimerExtension uint64
	listStartTime      uint64
	listDuration       uint64
	listBuyoutPrice    uint64
)

var listingCmd = &cobra.Command{
	Use:   "listing",
	Short: "Manages auction listings",
}

var listCmd = &cobra.Command{
	Use:   "create <marketplace> <asset> <collection>",
	Short: "Escrows an asset and opens an auction for it",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		kp, err := loadKeypair()
		if err != nil {
			return err
		}

		res, err := client.CreateListing(args[0], &api.CreateListingReq{
			Seller:         kp.Identity().Hex(),
			Asset:          args[1],
			Collection:     args[2],
			Seed:           gjson.Uint64String(listSeed),
			BidIncrement:   gjson.Uint64String(listBidIncrement),
			TimerExtension: gjson.Uint64String(listTimerExtension),
			StartTime:      gjson.Uint64String(listStartTime),
			Duration:       gjson.Uint64String(listDuration),
			BuyoutPrice:    gjson.Uint64String(listBuyoutPrice),
		})
		if err != nil {
			return errors.Wrap(err, "error creating listing")
		}
		return printJSON(res)
	},
}

var listingGetCmd = &cobra.Command{
	Use:   "get <listing>",
	Short: "Shows a listing's current state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		res, err := client.GetListing(args[0])
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var bidCmd = &cobra.Command{
	Use:   "bid <listing>",
	Short: "Places a bid against the listing's last observed state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		kp, err := loadKeypair()
		if err != nil {
			return err
		}

		// Read the listing first so the bid carries the observed
		// bidder/price pair for the node's compare-and-swap check.
		listing, err := client.GetListing(args[0])
		if err != nil {
			return err
		}

		res, err := client.PlaceBid(args[0], &api.PlaceBidReq{
			Bidder:                kp.Identity().Hex(),
			ExpectedHighestBidder: listing.HighestBidder,
			ExpectedCurrentBid:    listing.CurrentBid,
		})
		if err != nil {
			return errors.Wrap(err, "error placing bid")
		}
		return printJSON(res)
	},
}

var settleCmd = &cobra.Command{
	Use:   "settle <listing>",
	Short: "Settles an expired auction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		res, err := client.Settle(args[0])
		if err != nil {
			return errors.Wrap(err, "error settling listing")
		}
		return printJSON(res)
	},
}

var buyoutCmd = &cobra.Command{
	Use:   "buyout <listing>",
	Short: "Buys a listing outright at its buyout price",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		kp, err := loadKeypair()
		if err != nil {
			return err
		}
		res, err := client.Buyout(args[0], &api.BuyoutReq{
			Buyer: kp.Identity().Hex(),
		})
		if err != nil {
			return errors.Wrap(err, "error buying out listing")
		}
		return printJSON(res)
	},
}

func init() {
	listCmd.Flags().Uint64Var(&listSeed, "seed", 0, "Listing seed, for relisting the same asset")
	listCmd.Flags().Uint64Var(&listBidIncrement, "increment", 1_000_000, "Price increase per bid in native base units")
	listCmd.Flags().Uint64Var(&listTimerExtension, "extension", 150, "Slots added to the deadline per bid")
	listCmd.Flags().Uint64Var(&listStartTime, "start", 0, "Start slot, 0 for now")
	listCmd.Flags().Uint64Var(&listDuration, "duration", 216000, "Auction duration in slots")
	listCmd.Flags().Uint64Var(&listBuyoutPrice, "buyout", 0, "Buyout price in native base units, 0 to disable")
	listingCmd.AddCommand(listCmd)
	listingCmd.AddCommand(listingGetCmd)
	listingCmd.AddCommand(bidCmd)
	listingCmd.AddCommand(settleCmd)
	listingCmd.AddCommand(buyoutCmd)
	rootCmd.AddCommand(listingCmd)
}
