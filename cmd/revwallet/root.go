package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/revwallet/internal/output"
)

// Global configuration variables.
var (
	homeDir     string
	configPath  string
	networkName string
	noColor     bool
	verbose     bool
)

// DefaultHomeDir returns the default home directory for wallet data.
func DefaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".revwallet"
	}
	return filepath.Join(home, ".revwallet")
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revwallet",
		Short: "CLI wallet for submitting and tracking deploys",
		Long: `revwallet signs and submits deploys, tracks their confirmation and
shows balances with the pending transactions already discounted.

Examples:
  # Create an account
  revwallet account new --name alice

  # Send funds
  revwallet send --from alice --to rev1... --amount 10.5

  # Show the display balance (chain balance + pending overlay)
  revwallet balance --account alice

  # Watch pending transactions until they confirm
  revwallet watch`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetNoColor(noColor)
		},
	}

	cmd.PersistentFlags().StringVar(&homeDir, "home", DefaultHomeDir(), "wallet home directory")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to networks.toml (default <home>/networks.toml)")
	cmd.PersistentFlags().StringVarP(&networkName, "network", "n", "", "network to use (default from config)")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose engine logging")

	cmd.AddCommand(
		NewAccountCmd(),
		NewSendCmd(),
		NewDeployCmd(),
		NewBalanceCmd(),
		NewStatusCmd(),
		NewWatchCmd(),
		NewNetworksCmd(),
		NewProposeCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// effectiveConfigPath resolves the networks file location.
func effectiveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return filepath.Join(homeDir, "networks.toml")
}
