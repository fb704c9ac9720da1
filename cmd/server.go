package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anvilkit/anvil/internal/api"
	"github.com/anvilkit/anvil/internal/ui"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Inspect and update the server configuration",
}

var serverConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the server configuration",
	RunE:  runServerConfig,
}

var serverConfigSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update server configuration fields",
	RunE:  runServerConfigSet,
}

func init() {
	serverConfigSetCmd.Flags().String("default-owner", "", "default document owner")
	serverConfigSetCmd.Flags().String("swplan-path", "", "software plan template path")
	serverConfigCmd.AddCommand(serverConfigSetCmd)
	serverCmd.AddCommand(serverConfigCmd)
	rootCmd.AddCommand(serverCmd)
}

func runServerConfig(cmd *cobra.Command, _ []string) error {
	client, _ := newClient()
	cfg, err := client.GetConfig(cmd.Context())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "version:       %s\n", cfg.Version)
	fmt.Fprintf(w, "default owner: %s\n", cfg.DefaultOwner)
	fmt.Fprintf(w, "swplan path:   %s\n", cfg.SWPlanPath)
	return nil
}

func runServerConfigSet(cmd *cobra.Command, _ []string) error {
	client, _ := newClient()
	cfg, err := client.GetConfig(cmd.Context())
	if err != nil {
		return err
	}

	changed := false
	if owner, _ := cmd.Flags().GetString("default-owner"); owner != "" {
		cfg.DefaultOwner = owner
		changed = true
	}
	if path, _ := cmd.Flags().GetString("swplan-path"); path != "" {
		cfg.SWPlanPath = path
		changed = true
	}
	if !changed {
		fmt.Fprintln(os.Stderr, "nothing to change; pass --default-owner or --swplan-path")
		return nil
	}

	if err := client.SaveConfig(cmd.Context(), api.ServerConfig{
		DefaultOwner: cfg.DefaultOwner,
		SWPlanPath:   cfg.SWPlanPath,
	}); err != nil {
		return err
	}
	ui.New().Success("server configuration updated")
	return nil
}
