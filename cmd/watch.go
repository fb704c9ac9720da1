package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/anvilkit/anvil/internal/config"
	"github.com/anvilkit/anvil/internal/notify"
	"github.com/anvilkit/anvil/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream live file-change notifications from the server",
	Long: `Connects to the server's notification socket and prints every file
change as it happens. Reconnects automatically on connection loss, giving up
after repeated failures.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	printer := ui.New()

	var logf func(string, ...any)
	if cfg.Verbose {
		logf = func(format string, args ...any) {
			printer.Info(fmt.Sprintf(format, args...))
		}
	}

	client := notify.New(cfg.SocketURL, notify.Options{Logf: logf})
	defer client.Close()

	cancel := client.Subscribe(func(msg notify.Message) {
		switch msg.Type {
		case notify.TypeConnected:
			printer.ConnectionState("connected")
		case notify.TypeFileChange:
			printer.FileChanged(msg.ChangeType, msg.FilePath)
		}
	})
	defer cancel()

	printer.ConnectionState("connecting")
	if err := client.Connect(); err != nil {
		printer.Warn(fmt.Sprintf("initial connect failed, retrying: %v", err))
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	printer.Info("stopping")
	return nil
}
