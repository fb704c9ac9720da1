package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anvilkit/anvil/internal/document"
	"github.com/anvilkit/anvil/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate local document files without contacting the server",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().String("kind", "", "document kind: capability or enabler (default: inferred from the filename)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	printer := ui.New()
	failures := 0

	for _, file := range args {
		kind, err := docKind(cmd, file)
		if err != nil {
			printer.Error(err.Error())
			failures++
			continue
		}
		data, err := os.ReadFile(file)
		if err != nil {
			printer.Error(err.Error())
			failures++
			continue
		}
		doc, err := document.Parse(data, kind)
		if err != nil {
			printer.Error(fmt.Sprintf("%s: %v", file, err))
			failures++
			continue
		}
		printer.Success(fmt.Sprintf("%s (%s %s)", file, doc.ID, doc.Title))
	}

	if failures > 0 {
		return fmt.Errorf("%d file(s) failed validation", failures)
	}
	return nil
}
