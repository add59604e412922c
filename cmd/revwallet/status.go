package main

import (
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/revwallet/internal/output"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check node connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			output.Field("Network", "%s", app.Network.Name)
			output.Field("Node", "%s", app.Node.Identity())

			if err := app.Node.Status(cmd.Context()); err != nil {
				output.Error("node unreachable: %v", err)
				return err
			}
			output.Success("node is reachable")

			blocks, err := app.Node.LatestBlocks(cmd.Context(), 1)
			if err != nil {
				output.Warn("could not fetch latest block: %v", err)
				return nil
			}
			if len(blocks) > 0 {
				output.Field("Latest block", "#%d %s", blocks[0].BlockNumber, blocks[0].BlockHash)
			}
			return nil
		},
	}
}
