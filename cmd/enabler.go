package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anvilkit/anvil/internal/api"
	"github.com/anvilkit/anvil/internal/document"
	"github.com/anvilkit/anvil/internal/ident"
	"github.com/anvilkit/anvil/internal/ui"
)

var enablerCmd = &cobra.Command{
	Use:   "enabler",
	Short: "List and create enabler documents",
}

var enablerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List enablers in the active workspace",
	RunE:  runEnablerList,
}

var enablerShowCmd = &cobra.Command{
	Use:   "show <enabler-id>",
	Short: "Show one enabler",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnablerShow,
}

var enablerNewCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create an enabler document under a capability",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEnablerNew,
}

func init() {
	enablerListCmd.Flags().String("capability", "", "only enablers of this capability id")
	enablerNewCmd.Flags().String("capability", "", "parent capability id (required)")
	enablerNewCmd.Flags().String("dir", "", "server directory for the new file")
	_ = enablerNewCmd.MarkFlagRequired("capability")
	enablerCmd.AddCommand(enablerListCmd, enablerShowCmd, enablerNewCmd)
	rootCmd.AddCommand(enablerCmd)
}

func runEnablerList(cmd *cobra.Command, _ []string) error {
	client, _ := newClient()
	caps, err := client.ListCapabilitiesWithDependencies(cmd.Context())
	if err != nil {
		return err
	}

	filter, _ := cmd.Flags().GetString("capability")
	var enbs []api.EnablerSummary
	for _, c := range caps {
		if filter != "" && c.ID != filter {
			continue
		}
		enbs = append(enbs, c.Enablers...)
	}
	ui.New().EnablerList(enbs)
	return nil
}

func runEnablerShow(cmd *cobra.Command, args []string) error {
	client, _ := newClient()
	caps, err := client.ListCapabilitiesWithDependencies(cmd.Context())
	if err != nil {
		return err
	}
	for _, c := range caps {
		for _, e := range c.Enablers {
			if e.ID != args[0] {
				continue
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n", e.ID, e.Name)
			if e.Description != "" {
				fmt.Fprintln(w, e.Description)
			}
			fmt.Fprintf(w, "capability: %s (%s)\n", c.ID, c.Name)
			fmt.Fprintf(w, "status: %s  approval: %s  priority: %s\n", e.Status, e.Approval, e.Priority)
			if e.Path != "" {
				fmt.Fprintln(w, e.Path)
			}
			return nil
		}
	}
	return fmt.Errorf("enabler %q not found", args[0])
}

func runEnablerNew(cmd *cobra.Command, args []string) error {
	client, cfg := newClient()
	journal := openJournal(cfg)
	defer journal.Close()

	existing, err := knownIDs(cmd, client)
	if err != nil {
		return err
	}
	capabilityID, _ := cmd.Flags().GetString("capability")

	doc := &document.Document{
		Kind:         document.KindEnabler,
		Title:        strings.Join(args, " "),
		ID:           ident.Enabler(existing),
		Status:       document.StatusDraft,
		Approval:     document.ApprovalNotApproved,
		Priority:     document.PriorityMedium,
		CapabilityID: capabilityID,
	}

	s := newSession(cmd, client, journal)
	s.NewDocument(doc)
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = s.StickySaveDir()
	}
	s.SetTargetDir(dir)

	res, err := s.Save(cmd.Context())
	if err != nil {
		return err
	}
	ui.New().Saved(res)
	return nil
}
