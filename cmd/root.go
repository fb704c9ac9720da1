package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/anvilkit/anvil/internal/api"
	"github.com/anvilkit/anvil/internal/config"
	"github.com/anvilkit/anvil/internal/editor"
	"github.com/anvilkit/anvil/internal/oplog"
	"github.com/anvilkit/anvil/internal/ui"
	"github.com/anvilkit/anvil/internal/workspace"
)

var rootCmd = &cobra.Command{
	Use:   "anvil",
	Short: "Capability and enabler document toolkit",
	Long:  "Anvil edits, validates, and organizes capability and enabler documents against an Anvil server.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .anvil.yaml)")
	rootCmd.PersistentFlags().String("server", "", "server base URL")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	_ = viper.BindPFlag("server_url", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".anvil")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("ANVIL")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}

// newClient builds the REST client from the loaded configuration.
func newClient() (*api.Client, config.Config) {
	cfg := config.Load()
	return api.New(cfg.ServerURL, cfg.RequestTimeout()), cfg
}

// newSession builds an editor session wired with the journal, the local
// preference file, and the active workspace id. Preference or workspace
// lookup failures degrade to a session without stickiness rather than
// failing the command.
func newSession(cmd *cobra.Command, client *api.Client, journal *oplog.Journal) *editor.Session {
	ecfg := editor.Config{Store: client, Journal: journal}

	if path, err := workspace.DefaultPrefsPath(); err == nil {
		if prefs, err := workspace.LoadPrefs(path); err == nil {
			ecfg.Prefs = prefs
			ecfg.PrefsPath = path
		}
	}
	if ws, err := client.ActiveWorkspace(cmd.Context()); err == nil {
		ecfg.WorkspaceID = ws.ID
	}
	return editor.NewSession(ecfg)
}

// openJournal opens the operation journal if one is configured. A nil
// journal is a valid no-op sink.
func openJournal(cfg config.Config) *oplog.Journal {
	path := cfg.OplogPath
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		ui.New().Warn(fmt.Sprintf("cannot create oplog directory: %v", err))
		return nil
	}
	j, err := oplog.Open(path)
	if err != nil {
		ui.New().Warn(fmt.Sprintf("cannot open oplog: %v", err))
		return nil
	}
	return j
}
