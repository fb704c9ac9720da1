package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anvilkit/anvil/internal/document"
	"github.com/anvilkit/anvil/internal/editor"
	"github.com/anvilkit/anvil/internal/ui"
)

var editCmd = &cobra.Command{
	Use:   "edit <server-path>",
	Short: "Edit a document in $EDITOR, pushing each local save to the server",
	Long: `Fetches the document, writes it to a temporary file, and opens your editor.
Every time the temp file is saved the content is validated and pushed back.
A title change renames the server file on the next push.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("kind", "", "document kind: capability or enabler (default: inferred from the filename)")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	serverPath := args[0]
	kind, err := docKind(cmd, serverPath)
	if err != nil {
		return err
	}

	client, cfg := newClient()
	journal := openJournal(cfg)
	defer journal.Close()
	printer := ui.New()

	session := newSession(cmd, client, journal)
	if err := session.Load(cmd.Context(), serverPath, kind); err != nil {
		return err
	}

	tmp, err := writeTempDoc(serverPath, session.Raw())
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	watcher, err := editor.NewFileWatcher(tmp)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}

	// Push every debounced local save until the editor exits.
	pushDone := make(chan struct{})
	go func() {
		defer close(pushDone)
		for range watcher.Changes {
			pushLocalFile(cmd, session, tmp, printer)
		}
	}()

	if err := launchEditor(cfg.Editor, tmp); err != nil {
		watcher.Stop()
		<-pushDone
		return err
	}

	watcher.Stop()
	<-pushDone

	// Final push in case the last save raced the editor exiting.
	pushLocalFile(cmd, session, tmp, printer)
	return nil
}

// pushLocalFile reads the temp file into the session's raw buffer and saves.
// Validation failures are reported but do not stop the edit loop.
func pushLocalFile(cmd *cobra.Command, session *editor.Session, tmp string, printer *ui.Printer) {
	data, err := os.ReadFile(tmp)
	if err != nil {
		printer.Error(fmt.Sprintf("read %s: %v", tmp, err))
		return
	}
	if session.Mode() == editor.ModeStructured {
		if err := session.SwitchMode(); err != nil {
			printer.Error(err.Error())
			return
		}
	}
	session.SetRaw(string(data))

	res, err := session.Save(cmd.Context())
	if err != nil {
		printer.Error(err.Error())
		return
	}
	printer.Saved(res)
}

// docKind resolves the document kind from the --kind flag or the filename
// convention (<slug>-capability.md / <slug>-enabler.md).
func docKind(cmd *cobra.Command, serverPath string) (document.Kind, error) {
	flag, _ := cmd.Flags().GetString("kind")
	switch flag {
	case "capability":
		return document.KindCapability, nil
	case "enabler":
		return document.KindEnabler, nil
	case "":
	default:
		return "", fmt.Errorf("unknown kind %q", flag)
	}

	base := strings.TrimSuffix(filepath.Base(serverPath), ".md")
	switch {
	case strings.HasSuffix(base, "-capability"):
		return document.KindCapability, nil
	case strings.HasSuffix(base, "-enabler"):
		return document.KindEnabler, nil
	}
	return "", fmt.Errorf("cannot infer kind from %q; pass --kind", serverPath)
}

func writeTempDoc(serverPath, content string) (string, error) {
	f, err := os.CreateTemp("", "anvil-*-"+filepath.Base(serverPath))
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// launchEditor runs the configured editor, falling back to $EDITOR then vi.
func launchEditor(configured, path string) error {
	name := configured
	if name == "" {
		name = os.Getenv("EDITOR")
	}
	if name == "" {
		name = "vi"
	}
	parts := strings.Fields(name)
	parts = append(parts, path)

	c := exec.Command(parts[0], parts[1:]...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
