package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/anvilkit/anvil/internal/config"
	"github.com/anvilkit/anvil/internal/oplog"
)

var oplogCmd = &cobra.Command{
	Use:   "oplog",
	Short: "View the JSONL operation journal",
	Long: `Reads and formats the JSONL operation journal configured as oplog_path.

With --follow (-f), watches the file for new events (like tail -f).`,
	RunE: runOplog,
}

func init() {
	oplogCmd.Flags().String("file", "", "journal file (default: configured oplog_path)")
	oplogCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	rootCmd.AddCommand(oplogCmd)
}

func runOplog(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("file")
	follow, _ := cmd.Flags().GetBool("follow")

	if path == "" {
		path = config.Load().OplogPath
	}
	if path == "" {
		return fmt.Errorf("oplog: no journal file; set oplog_path or pass --file")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("oplog: open %s: %w", path, err)
	}
	defer f.Close()

	// Print all existing events.
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		printOplogEvent(cmd.OutOrStdout(), line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("oplog: read %s: %w", path, err)
	}

	if !follow {
		return nil
	}

	return tailFollow(cmd.OutOrStdout(), f, path)
}

// tailFollow watches the file for new data using fsnotify and prints new events.
func tailFollow(w io.Writer, f *os.File, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("oplog: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("oplog: watch %s: %w", path, err)
	}

	reader := bufio.NewReader(f)
	for event := range watcher.Events {
		if event.Op&fsnotify.Write == 0 {
			continue
		}
		// Read all new lines available.
		for {
			line, err := reader.ReadString('\n')
			line = strings.TrimSpace(line)
			if line != "" {
				printOplogEvent(w, line)
			}
			if err != nil {
				break
			}
		}
	}
	return nil
}

// printOplogEvent decodes a JSONL line and prints a human-readable representation.
func printOplogEvent(w io.Writer, line string) {
	var evt oplog.Event
	if err := json.Unmarshal([]byte(line), &evt); err != nil {
		fmt.Fprintf(w, "??? %s\n", line)
		return
	}

	ts := evt.Timestamp.Format(time.TimeOnly)
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", ts))
	parts = append(parts, evt.Kind)

	if evt.Workspace != "" {
		parts = append(parts, fmt.Sprintf("ws=%s", evt.Workspace))
	}
	if evt.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", evt.Path))
	}
	if evt.Data != nil {
		if m, ok := evt.Data.(map[string]any); ok {
			parts = append(parts, formatDataMap(m))
		} else {
			data, _ := json.Marshal(evt.Data)
			parts = append(parts, string(data))
		}
	}

	fmt.Fprintln(w, strings.Join(parts, " "))
}

// formatDataMap formats a data map as key=value pairs sorted by key.
func formatDataMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", k, m[k])
	}
	return b.String()
}
