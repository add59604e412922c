package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/revwallet/internal/output"
	"github.com/altuslabsxyz/revwallet/internal/rev"
)

func NewSendCmd() *cobra.Command {
	var (
		fromRef   string
		toAddress string
		amountStr string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send funds to another vault",
		Long: `Send funds to another vault.

The transaction is recorded locally as pending; 'revwallet balance' shows
the debit immediately and 'revwallet watch' tracks confirmation.

Example:
  revwallet send --from alice --to rev1ab... --amount 10.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			from, ok := app.Keystore.Find(fromRef)
			if !ok {
				return fmt.Errorf("unknown account %q", fromRef)
			}
			amount, err := rev.ParseAmount(amountStr, app.Network.TokenDecimals)
			if err != nil {
				return err
			}
			password, err := promptPassword(fmt.Sprintf("Password for %s", fromRef))
			if err != nil {
				return err
			}

			id, err := app.Service.SubmitSend(cmd.Context(), from, password, toAddress, amount)
			if err != nil {
				return err
			}

			output.Success("deploy submitted")
			output.Field("Deploy ID", "%s", id)
			output.Field("Amount", "%s", rev.ToDisplay(amount, app.Network.TokenDecimals))
			output.Field("Fee (max)", "%s", rev.ToDisplay(app.Service.EstimatedSendFee(), app.Network.TokenDecimals))

			display, err := app.Service.GetDisplayBalance(context.Background(), from, false)
			if err == nil {
				output.Field("Balance", "%s", rev.ToDisplay(display, app.Network.TokenDecimals))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromRef, "from", "", "sending account (id, name or address)")
	cmd.Flags().StringVar(&toAddress, "to", "", "destination vault address")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount in display units")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
