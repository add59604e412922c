package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/revwallet/internal/output"
	"github.com/altuslabsxyz/revwallet/internal/rev"
)

func NewBalanceCmd() *cobra.Command {
	var (
		accountRef string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the display balance for an account",
		Long: `Show the display balance for an account: the on-chain balance with
every locally-pending transaction already discounted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			acct, ok := app.Keystore.Find(accountRef)
			if !ok {
				return fmt.Errorf("unknown account %q", accountRef)
			}

			display, err := app.Service.GetDisplayBalance(cmd.Context(), acct, force)
			if err != nil {
				return err
			}

			output.Field("Account", "%s", acct.Address)
			output.Field("Balance", "%s", rev.ToDisplay(display, app.Network.TokenDecimals))

			pending := app.Service.Pending(acct)
			if len(pending) > 0 {
				fmt.Println()
				output.Warn("%d pending transaction(s) discounted:", len(pending))
				for _, p := range pending {
					fmt.Printf("  %s  %s  -%s\n", p.DeployID, p.Kind,
						rev.ToDisplay(p.Debit(), app.Network.TokenDecimals))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&accountRef, "account", "", "account (id, name or address)")
	cmd.Flags().BoolVar(&force, "force", false, "bypass the balance cache")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}
