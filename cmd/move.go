package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anvilkit/anvil/internal/document"
	"github.com/anvilkit/anvil/internal/editor"
	"github.com/anvilkit/anvil/internal/ui"
)

var moveCmd = &cobra.Command{
	Use:   "move <path>",
	Short: "Move a capability to another directory, or reparent an enabler",
	Long: `With --to, moves a capability file and its enabler files to another
directory. The capability file moves first; if that fails nothing else is
touched. Child enabler files then move one by one. A child failure does not
roll back the files already moved — the remaining children still move, and
--retry re-runs just the failed steps.

With --capability, reparents an enabler file under a different capability;
the server updates both parents' enabler tables.`,
	Args: cobra.ExactArgs(1),
	RunE: runMove,
}

func init() {
	moveCmd.Flags().String("to", "", "target server directory (capability move)")
	moveCmd.Flags().String("capability", "", "new parent capability id (enabler reparent)")
	moveCmd.Flags().Int("retry", 0, "retry failed child moves up to n times")
	moveCmd.MarkFlagsOneRequired("to", "capability")
	moveCmd.MarkFlagsMutuallyExclusive("to", "capability")
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	if newParent, _ := cmd.Flags().GetString("capability"); newParent != "" {
		return runReparent(cmd, args[0], newParent)
	}

	capPath := args[0]
	targetDir, _ := cmd.Flags().GetString("to")
	retries, _ := cmd.Flags().GetInt("retry")

	client, cfg := newClient()
	journal := openJournal(cfg)
	defer journal.Close()
	printer := ui.New()

	// The capability file carries its own id; read it rather than asking
	// the caller.
	f, err := client.GetFile(cmd.Context(), capPath)
	if err != nil {
		return err
	}
	doc, err := document.Parse([]byte(f.Content), document.KindCapability)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", capPath, err)
	}

	mover := &editor.Mover{Store: client, Journal: journal}
	plan, err := mover.Plan(cmd.Context(), capPath, doc.ID, targetDir)
	if err != nil {
		return err
	}

	report, err := mover.Execute(cmd.Context(), plan)
	if err != nil {
		return err
	}
	for i := 0; report.PartiallyFailed() && i < retries; i++ {
		printer.Info(fmt.Sprintf("retrying %d failed step(s)...", len(report.Failed)))
		report = mover.Retry(cmd.Context(), report)
	}

	printer.MoveReport(report)
	if report.PartiallyFailed() {
		return fmt.Errorf("%d file(s) failed to move", len(report.Failed))
	}
	return nil
}

// runReparent loads an enabler, points it at a new parent capability, and
// saves through the session so the reparenting endpoint carries the previous
// parent id.
func runReparent(cmd *cobra.Command, enablerPath, newParent string) error {
	client, cfg := newClient()
	journal := openJournal(cfg)
	defer journal.Close()

	session := newSession(cmd, client, journal)
	if err := session.Load(cmd.Context(), enablerPath, document.KindEnabler); err != nil {
		return err
	}
	session.Document().CapabilityID = newParent

	res, err := session.Save(cmd.Context())
	if err != nil {
		return err
	}
	ui.New().Saved(res)
	return nil
}
