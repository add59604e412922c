package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/revwallet/internal/output"
)

func NewAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage local accounts",
	}
	cmd.AddCommand(newAccountNewCmd(), newAccountListCmd(), newAccountImportCmd())
	return cmd
}

func newAccountNewCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			password, err := promptPassword("New account password")
			if err != nil {
				return err
			}
			acct, err := app.Keystore.CreateAccount(name, password)
			if err != nil {
				return err
			}
			output.Success("account created")
			output.Field("ID", "%s", acct.ID)
			if acct.Name != "" {
				output.Field("Name", "%s", acct.Name)
			}
			output.Field("Address", "%s", acct.Address)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "human-readable account name")
	return cmd
}

func newAccountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List local accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			accounts := app.Keystore.List()
			if len(accounts) == 0 {
				output.Info("no accounts; create one with 'revwallet account new'")
				return nil
			}
			for _, a := range accounts {
				name := a.Name
				if name == "" {
					name = "-"
				}
				fmt.Printf("%-36s  %-12s  %s\n", a.ID, name, a.Address)
			}
			return nil
		},
	}
}

func newAccountImportCmd() *cobra.Command {
	var name, keyHex string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a hex-encoded private key",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			password, err := promptPassword("Password for imported account")
			if err != nil {
				return err
			}
			acct, err := app.Keystore.ImportKey(keyHex, name, password)
			if err != nil {
				return err
			}
			output.Success("account imported")
			output.Field("ID", "%s", acct.ID)
			output.Field("Address", "%s", acct.Address)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "human-readable account name")
	cmd.Flags().StringVar(&keyHex, "key", "", "hex-encoded secp256k1 private key")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}
