package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/anvilkit/anvil/internal/api"
	"github.com/anvilkit/anvil/internal/ui"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run server-side discovery over free-form text",
	Long: `Submits the given file (or stdin) for the server to break into proposed
capability and enabler documents. With --create, the proposals are written
to the server under --dir.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Bool("create", false, "create the proposed documents on the server")
	analyzeCmd.Flags().String("dir", "", "server directory for created documents (required with --create)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	create, _ := cmd.Flags().GetBool("create")
	dir, _ := cmd.Flags().GetString("dir")
	if create && dir == "" {
		return fmt.Errorf("--create requires --dir")
	}

	req := api.AnalyzeRequest{}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		req.Text = string(data)
		req.Path = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		req.Text = string(data)
	}

	client, _ := newClient()
	printer := ui.New()

	analysis, err := client.AnalyzeDocument(cmd.Context(), req)
	if err != nil {
		return err
	}

	if analysis.Summary != "" {
		printer.Info(analysis.Summary)
	}
	for _, d := range analysis.Documents {
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", d.Kind, d.Title)
	}
	if len(analysis.Documents) == 0 {
		printer.Warn("server proposed no documents")
		return nil
	}

	if !create {
		return nil
	}

	result, err := client.CreateFromAnalysis(cmd.Context(), api.CreateRequest{
		Documents: analysis.Documents,
		TargetDir: dir,
	})
	if err != nil {
		return err
	}
	for _, path := range result.Created {
		printer.Success("created " + path)
	}
	return nil
}
