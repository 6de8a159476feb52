package cmd

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/seradyn/gavel/gjson"
	"github.com/seradyn/gavel/market"
	"github.com/seradyn/gavel/marketd/api"
)

var (
	initFee  uint16
	initName string
)

var marketplaceCmd = &cobra.Command{
	Use:   "marketplace",
	Short: "Manages marketplaces",
}

var initializeCmd = &cobra.Command{
	Use:   "initialize <credit-mint>",
	Short: "Creates a marketplace with the default mint tier schedule",
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

		res, err := client.Initialize(&api.InitializeReq{
			Admin:      kp.Identity().Hex(),
			CreditMint: args[0],
			Name:       initName,
			Fee:        initFee,
		})
		if err != nil {
			return errors.Wrap(err, "error initializing marketplace")
		}
		return printJSON(res)
	},
}

var marketplaceGetCmd = &cobra.Command{
	Use:   "get <address>",
	Short: "Shows a marketplace's configuration and tier schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		res, err := client.GetMarketplace(args[0])
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var updateTiersCmd = &cobra.Command{
	Use:   "update-tiers <address>",
	Short: "Replaces a marketplace's mint tier schedule",
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

		tiers := make([]*api.MintTierJSON, 0, market.NumMintTiers)
		for i := 0; i < market.NumMintTiers; i++ {
			fmt.Printf("Tier %d:\n", i+1)
			amount, err := promptUint(fmt.Sprintf("Credits (base units of 1/%d)", market.CreditUnit))
			if err != nil {
				return err
			}
			cost, err := promptUint("Cost (native base units)")
			if err != nil {
				return err
			}
			bonus, err := promptUint("Bonus credits (base units)")
			if err != nil {
				return err
			}
			tiers = append(tiers, &api.MintTierJSON{
				Tier:   uint8(i),
				Amount: gjson.Uint64String(amount),
				Cost:   gjson.Uint64String(cost),
				Bonus:  gjson.Uint64String(bonus),
			})
		}

		res, err := client.UpdateTiers(args[0], &api.UpdateTiersReq{
			Caller: kp.Identity().Hex(),
			Tiers:  tiers,
		})
		if err != nil {
			return errors.Wrap(err, "error updating tiers")
		}
		return printJSON(res)
	},
}

var purchaseCreditsCmd = &cobra.Command{
	Use:   "purchase-credits <marketplace>",
	Short: "Buys bid credits at one of the marketplace's fixed tiers",
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

		m, err := client.GetMarketplace(args[0])
		if err != nil {
			return err
		}

		items := make([]string, len(m.Tiers))
		for i, t := range m.Tiers {
			items[i] = fmt.Sprintf(
				"%d credits + %d bonus for %d native units",
				uint64(t.Amount)/market.CreditUnit,
				uint64(t.Bonus)/market.CreditUnit,
				uint64(t.Cost),
			)
		}
		tierSel := promptui.Select{
			Label: "Credit tier:",
			Items: items,
		}
		i, _, err := tierSel.Run()
		if err != nil {
			return err
		}

		res, err := client.PurchaseCredits(args[0], &api.PurchaseCreditsReq{
			Buyer: kp.Identity().Hex(),
			Tier:  uint8(i),
		})
		if err != nil {
			return errors.Wrap(err, "error purchasing credits")
		}
		return printJSON(res)
	},
}

func promptUint(label string) (uint64, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: validateUint,
	}
	strVal, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(strVal, 10, 64)
}

func validateUint(in string) error {
	_, err := strconv.ParseUint(in, 10, 64)
	if err != nil {
		return errors.New("must be a whole number")
	}
	return nil
}

func init() {
	initializeCmd.Flags().Uint16Var(&initFee, "fee", 250, "Marketplace fee in basis points")
	initializeCmd.Flags().StringVar(&initName, "name", "gavel", "Marketplace name")
	marketplaceCmd.AddCommand(initializeCmd)
	marketplaceCmd.AddCommand(marketplaceGetCmd)
	marketplaceCmd.AddCommand(updateTiersCmd)
	marketplaceCmd.AddCommand(purchaseCreditsCmd)
	rootCmd.AddCommand(marketplaceCmd)
}
