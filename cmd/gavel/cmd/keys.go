package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/seradyn/gavel/keys"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manages signing keys",
}

var keysCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Creates a signing key and writes it to the key file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(keyFile); err == nil {
			return errors.Errorf("key file %s already exists", keyFile)
		}

		mnemonic, err := keys.NewMnemonic()
		if err != nil {
			return err
		}
		kp, err := keys.FromMnemonic(mnemonic, "")
		if err != nil {
			return err
		}
		if err := kp.Save(keyFile); err != nil {
			return errors.Wrap(err, "error writing key file")
		}

		fmt.Println("Your key has been successfully created. Please take note of your seed phrase below.")
		fmt.Println("STORE YOUR SEED PHRASE SECURELY. IT WILL NOT BE SHOWN AGAIN.")
		fmt.Println("")
		fmt.Println(mnemonic)
		fmt.Println("")
		fmt.Println("Identity:", kp.Identity())
		return nil
	},
}

var keysShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Shows the identity of the configured key",
	RunE: func(cmd *cobra.Command, args []string) error {
		kp, err := loadKeypair()
		if err != nil {
			return err
		}
		return printJSON(map[string]string{
			"identity": kp.Identity().Hex(),
			"bech32":   kp.Identity().String(),
		})
	},
}

var keysRestoreCmd = &cobra.Command{
	Use:   "restore <mnemonic...>",
	Short: "Restores a signing key from its seed phrase",
	Args:  cobra.MinimumNArgs(12),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(keyFile); err == nil {
			return errors.Errorf("key file %s already exists", keyFile)
		}

		mnemonic := ""
		for i, word := range args {
			if i > 0 {
				mnemonic += " "
			}
			mnemonic += word
		}

		kp, err := keys.FromMnemonic(mnemonic, "")
		if err != nil {
			return err
		}
		if err := kp.Save(keyFile); err != nil {
			return errors.Wrap(err, "error writing key file")
		}

		fmt.Println("Identity:", kp.Identity())
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysCreateCmd)
	keysCmd.AddCommand(keysShowCmd)
	keysCmd.AddCommand(keysRestoreCmd)
	rootCmd.AddCommand(keysCmd)
}
