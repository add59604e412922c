package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/revwallet/internal/config"
	"github.com/altuslabsxyz/revwallet/internal/output"
)

func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "Manage configured networks",
	}
	cmd.AddCommand(newNetworksListCmd(), newNetworksAddCmd(), newNetworksUseCmd())
	return cmd
}

func newNetworksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured networks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(effectiveConfigPath())
			if err != nil {
				return err
			}
			for _, n := range cfg.Networks {
				marker := " "
				if n.Name == cfg.DefaultNetwork {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, n.Name)
				output.Field("  validator", "%s", n.ValidatorURL)
				output.Field("  read-only", "%s", n.ReadOnlyURL)
				if n.AdminURL != "" {
					output.Field("  admin", "%s", n.AdminURL)
				}
				if n.IndexerURL != "" {
					output.Field("  indexer", "%s", n.IndexerURL)
				}
				output.Field("  shard", "%s", n.ShardID)
			}
			return nil
		},
	}
}

func newNetworksAddCmd() *cobra.Command {
	var net config.Network

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a network to the configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(effectiveConfigPath())
			if err != nil {
				return err
			}
			net.Name = args[0]
			for _, existing := range cfg.Networks {
				if existing.Name == net.Name {
					return fmt.Errorf("network %q already exists", net.Name)
				}
			}
			cfg.Networks = append(cfg.Networks, net)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg, effectiveConfigPath()); err != nil {
				return err
			}
			output.Success("added network %q", net.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&net.ValidatorURL, "validator-url", "", "validator node URL (deploys)")
	cmd.Flags().StringVar(&net.ReadOnlyURL, "read-only-url", "", "read-only node URL (queries)")
	cmd.Flags().StringVar(&net.AdminURL, "admin-url", "", "admin node URL (propose)")
	cmd.Flags().StringVar(&net.IndexerURL, "indexer-url", "", "deploy indexer URL")
	cmd.Flags().StringVar(&net.ShardID, "shard-id", "root", "shard the deploys target")
	_ = cmd.MarkFlagRequired("validator-url")
	_ = cmd.MarkFlagRequired("read-only-url")
	return cmd
}

func newNetworksUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Set the default network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(effectiveConfigPath())
			if err != nil {
				return err
			}
			if _, err := cfg.Lookup(args[0]); err != nil {
				return err
			}
			cfg.DefaultNetwork = args[0]
			if err := config.Save(cfg, effectiveConfigPath()); err != nil {
				return err
			}
			output.Success("default network is now %q", args[0])
			return nil
		},
	}
}
