package cmd

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the pipeline audit ledger",
}

var ledgerGetCmd = &cobra.Command{
	Use:   "get [record-id]",
	Short: "Show a ledger record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		if a.repository == nil {
			return errors.New("the ledger is disabled, set FD_LEDGER_TABLE")
		}

		event, err := a.repository.GetEvent(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(event)
	},
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
	ledgerCmd.AddCommand(ledgerGetCmd)
}
