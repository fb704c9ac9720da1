package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anvilkit/anvil/internal/ui"
	"github.com/anvilkit/anvil/internal/workspace"
)

var workspaceCmd = &cobra.Command{
	Use:     "workspace",
	Aliases: []string{"ws"},
	Short:   "Manage server workspaces",
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces, marking the active one",
	RunE:  runWorkspaceList,
}

var workspaceCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a workspace",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWorkspaceCreate,
}

var workspaceUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a workspace's name, description, or project paths",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceUpdate,
}

var workspaceDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a workspace",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceDelete,
}

var workspaceActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Make a workspace the active one",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkspaceActivate,
}

func init() {
	workspaceCreateCmd.Flags().String("description", "", "workspace description")
	workspaceCreateCmd.Flags().StringSlice("path", nil, "project path (repeatable)")
	workspaceUpdateCmd.Flags().String("name", "", "new name")
	workspaceUpdateCmd.Flags().String("description", "", "new description")
	workspaceUpdateCmd.Flags().StringSlice("path", nil, "replacement project paths (repeatable)")
	workspaceCmd.AddCommand(workspaceListCmd, workspaceCreateCmd, workspaceUpdateCmd, workspaceDeleteCmd, workspaceActivateCmd)
	rootCmd.AddCommand(workspaceCmd)
}

func runWorkspaceList(cmd *cobra.Command, _ []string) error {
	client, _ := newClient()
	wss, err := client.ListWorkspaces(cmd.Context())
	if err != nil {
		return err
	}
	ui.New().WorkspaceList(wss)
	return nil
}

func runWorkspaceCreate(cmd *cobra.Command, args []string) error {
	client, _ := newClient()
	desc, _ := cmd.Flags().GetString("description")
	paths, _ := cmd.Flags().GetStringSlice("path")

	ws := workspace.Workspace{
		Name:         strings.Join(args, " "),
		Description:  desc,
		ProjectPaths: projectPaths(paths),
	}
	created, err := client.CreateWorkspace(cmd.Context(), ws)
	if err != nil {
		return err
	}
	ui.New().Success("created workspace " + created.ID)
	return nil
}

func runWorkspaceUpdate(cmd *cobra.Command, args []string) error {
	client, _ := newClient()

	wss, err := client.ListWorkspaces(cmd.Context())
	if err != nil {
		return err
	}
	var ws *workspace.Workspace
	for i := range wss {
		if wss[i].ID == args[0] {
			ws = &wss[i]
			break
		}
	}
	if ws == nil {
		return fmt.Errorf("workspace %q not found", args[0])
	}

	if name, _ := cmd.Flags().GetString("name"); name != "" {
		ws.Name = name
	}
	if desc, _ := cmd.Flags().GetString("description"); desc != "" {
		ws.Description = desc
	}
	if paths, _ := cmd.Flags().GetStringSlice("path"); len(paths) > 0 {
		ws.ProjectPaths = projectPaths(paths)
	}

	if err := client.UpdateWorkspace(cmd.Context(), *ws); err != nil {
		return err
	}
	ui.New().Success("updated workspace " + ws.ID)
	return nil
}

func runWorkspaceDelete(cmd *cobra.Command, args []string) error {
	client, _ := newClient()
	if err := client.DeleteWorkspace(cmd.Context(), args[0]); err != nil {
		return err
	}
	ui.New().Success("deleted workspace " + args[0])
	return nil
}

func runWorkspaceActivate(cmd *cobra.Command, args []string) error {
	client, _ := newClient()
	if err := client.ActivateWorkspace(cmd.Context(), args[0]); err != nil {
		return err
	}
	ui.New().Success("activated workspace " + args[0])
	return nil
}

func projectPaths(paths []string) []workspace.ProjectPath {
	pps := make([]workspace.ProjectPath, len(paths))
	for i, p := range paths {
		pps[i] = workspace.ProjectPath{Path: p}
	}
	return pps
}
