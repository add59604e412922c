package main

import (
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/revwallet/internal/output"
)

func NewProposeCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "propose",
		Short:  "Ask the admin node to propose a block (dev networks only)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			msg, err := app.Node.Propose(cmd.Context())
			if err != nil {
				return err
			}
			output.Success("%s", msg)
			return nil
		},
	}
}
