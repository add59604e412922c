package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/revwallet/internal/output"
)

func NewDeployCmd() *cobra.Command {
	var (
		fromRef   string
		codeFile  string
		phloLimit int64
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy contract code",
		Long: `Deploy contract code from a file.

Example:
  revwallet deploy --from alice --code contract.rho --phlo-limit 500000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			from, ok := app.Keystore.Find(fromRef)
			if !ok {
				return fmt.Errorf("unknown account %q", fromRef)
			}
			code, err := os.ReadFile(codeFile)
			if err != nil {
				return fmt.Errorf("failed to read contract code: %w", err)
			}
			password, err := promptPassword(fmt.Sprintf("Password for %s", fromRef))
			if err != nil {
				return err
			}
			key, err := app.Keystore.Unlock(from.ID, password)
			if err != nil {
				return err
			}

			id, err := app.Service.SubmitContract(cmd.Context(), string(code), phloLimit, key, from)
			if err != nil {
				return err
			}

			output.Success("deploy submitted")
			output.Field("Deploy ID", "%s", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&fromRef, "from", "", "deploying account (id, name or address)")
	cmd.Flags().StringVar(&codeFile, "code", "", "path to the contract code file")
	cmd.Flags().Int64Var(&phloLimit, "phlo-limit", 0, "phlo limit (default: engine default)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}
