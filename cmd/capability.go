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

var capabilityCmd = &cobra.Command{
	Use:   "capability",
	Short: "List, inspect, and create capability documents",
}

var capabilityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List capabilities in the active workspace",
	RunE:  runCapabilityList,
}

var capabilityShowCmd = &cobra.Command{
	Use:   "show <capability-id>",
	Short: "Show one capability with its enablers and dependencies",
	Args:  cobra.ExactArgs(1),
	RunE:  runCapabilityShow,
}

var capabilityNewCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Create a capability document on the server",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCapabilityNew,
}

func init() {
	capabilityNewCmd.Flags().String("dir", "", "server directory for the new file")
	capabilityNewCmd.Flags().String("system", "", "owning system")
	capabilityNewCmd.Flags().String("component", "", "owning component")
	capabilityCmd.AddCommand(capabilityListCmd, capabilityShowCmd, capabilityNewCmd)
	rootCmd.AddCommand(capabilityCmd)
}

func runCapabilityList(cmd *cobra.Command, _ []string) error {
	client, _ := newClient()
	caps, err := client.ListCapabilities(cmd.Context())
	if err != nil {
		return err
	}
	ui.New().CapabilityList(caps)
	return nil
}

func runCapabilityShow(cmd *cobra.Command, args []string) error {
	client, _ := newClient()
	caps, err := client.ListCapabilitiesWithDependencies(cmd.Context())
	if err != nil {
		return err
	}
	for i := range caps {
		if caps[i].ID == args[0] {
			ui.New().CapabilityShow(&caps[i])
			return nil
		}
	}
	return fmt.Errorf("capability %q not found", args[0])
}

func runCapabilityNew(cmd *cobra.Command, args []string) error {
	client, cfg := newClient()
	journal := openJournal(cfg)
	defer journal.Close()

	existing, err := knownIDs(cmd, client)
	if err != nil {
		return err
	}

	system, _ := cmd.Flags().GetString("system")
	component, _ := cmd.Flags().GetString("component")
	doc := &document.Document{
		Kind:      document.KindCapability,
		Title:     strings.Join(args, " "),
		ID:        ident.Capability(existing),
		Status:    document.StatusDraft,
		Approval:  document.ApprovalNotApproved,
		Priority:  document.PriorityMedium,
		System:    system,
		Component: component,
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

// knownIDs collects every document id the server already knows, so new ids
// are generated against the full set.
func knownIDs(cmd *cobra.Command, client *api.Client) ([]string, error) {
	caps, err := client.ListCapabilitiesWithDependencies(cmd.Context())
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, c := range caps {
		ids = append(ids, c.ID)
		for _, e := range c.Enablers {
			ids = append(ids, e.ID)
		}
	}
	return ids, nil
}
