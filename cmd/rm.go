package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anvilkit/anvil/internal/ui"
)

var rmCmd = &cobra.Command{
	Use:   "rm <server-path>",
	Short: "Delete a document from the server",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	client, _ := newClient()
	if err := client.DeleteFile(cmd.Context(), args[0]); err != nil {
		return err
	}
	ui.New().Success(fmt.Sprintf("deleted %s", args[0]))
	return nil
}
