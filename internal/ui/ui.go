// Package ui provides stderr-based terminal output for anvil.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/anvilkit/anvil/internal/api"
	"github.com/anvilkit/anvil/internal/editor"
	"github.com/anvilkit/anvil/internal/workspace"
)

// ANSI color codes.
const (
	reset   = "\033[0m"
	bold    = "\033[1m"
	dim     = "\033[2m"
	blue    = "\033[34m"
	yellow  = "\033[33m"
	green   = "\033[32m"
	red     = "\033[31m"
	cyan    = "\033[36m"
	magenta = "\033[35m"
)

type Printer struct{}

func New() *Printer {
	return &Printer{}
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(os.Stderr, red+bold+"error: "+reset+"%s\n", msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintf(os.Stderr, dim+"%s"+reset+"\n", msg)
}

func (p *Printer) Success(msg string) {
	fmt.Fprintf(os.Stderr, green+bold+"✓ "+reset+"%s\n", msg)
}

func (p *Printer) Warn(msg string) {
	fmt.Fprintf(os.Stderr, yellow+bold+"⚠ "+reset+"%s\n", msg)
}

// Saved reports a completed save, including any rename or move that rode
// along with it.
func (p *Printer) Saved(res *editor.SaveResult) {
	if res.Renamed {
		fmt.Fprintf(os.Stderr, green+"✓ saved"+reset+" %s "+dim+"(renamed)"+reset+"\n", res.Path)
	} else {
		fmt.Fprintf(os.Stderr, green+"✓ saved"+reset+" %s\n", res.Path)
	}
	if res.Move != nil {
		p.MoveReport(res.Move)
	}
}

// MoveReport prints the per-file outcome of a capability move.
func (p *Printer) MoveReport(r *editor.MoveReport) {
	for _, step := range r.Completed {
		fmt.Fprintf(os.Stderr, "  "+green+"✓"+reset+" %s "+dim+"→"+reset+" %s\n", step.From, step.To)
	}
	for _, f := range r.Failed {
		fmt.Fprintf(os.Stderr, "  "+red+"✗"+reset+" %s "+dim+"→"+reset+" %s — %v\n", f.From, f.To, f.Err)
	}
	if r.PartiallyFailed() {
		fmt.Fprintf(os.Stderr, yellow+bold+"⚠ move partially failed"+reset+" — %d of %d file(s) did not move; run `anvil move --retry`\n",
			len(r.Failed), len(r.Completed)+len(r.Failed))
	} else {
		fmt.Fprintf(os.Stderr, green+bold+"✓ move complete"+reset+" — %d file(s)\n", len(r.Completed))
	}
}

// CapabilityList prints the capability index as an aligned table.
func (p *Printer) CapabilityList(caps []api.CapabilitySummary) {
	if len(caps) == 0 {
		fmt.Fprintln(os.Stderr, dim+"(no capabilities)"+reset)
		return
	}
	fmt.Fprintf(os.Stderr, bold+"%-14s %-36s %-16s %s"+reset+"\n", "ID", "NAME", "STATUS", "PATH")
	for _, c := range caps {
		fmt.Fprintf(os.Stderr, "%-14s %-36s %s%-16s%s %s\n",
			c.ID, truncate(c.Name, 36), statusColor(c.Status), c.Status, reset, dim+c.Path+reset)
	}
}

// CapabilityShow prints one capability with its enablers and dependency
// edges.
func (p *Printer) CapabilityShow(c *api.CapabilityDetail) {
	fmt.Fprintf(os.Stderr, bold+cyan+"%s"+reset+" %s\n", c.ID, c.Name)
	fmt.Fprintf(os.Stderr, "status: %s%s%s  approval: %s  priority: %s\n",
		statusColor(c.Status), c.Status, reset, c.Approval, c.Priority)
	if c.Path != "" {
		fmt.Fprintf(os.Stderr, dim+"%s"+reset+"\n", c.Path)
	}

	if len(c.Enablers) > 0 {
		fmt.Fprintf(os.Stderr, "\n"+bold+"enablers:"+reset+"\n")
		for _, e := range c.Enablers {
			fmt.Fprintf(os.Stderr, "  %s%s%s %-36s %s%s%s\n",
				dim, e.ID, reset, truncate(e.Name, 36), statusColor(e.Status), e.Status, reset)
		}
	}
	if len(c.InternalUpstream) > 0 {
		fmt.Fprintf(os.Stderr, "\n"+bold+"upstream:"+reset+"\n")
		for _, d := range c.InternalUpstream {
			fmt.Fprintf(os.Stderr, "  %s %s\n", d.ID, dim+d.Description+reset)
		}
	}
	if len(c.InternalDownstream) > 0 {
		fmt.Fprintf(os.Stderr, "\n"+bold+"downstream:"+reset+"\n")
		for _, d := range c.InternalDownstream {
			fmt.Fprintf(os.Stderr, "  %s %s\n", d.ID, dim+d.Description+reset)
		}
	}
}

// EnablerList prints the enabler index as an aligned table.
func (p *Printer) EnablerList(enbs []api.EnablerSummary) {
	if len(enbs) == 0 {
		fmt.Fprintln(os.Stderr, dim+"(no enablers)"+reset)
		return
	}
	fmt.Fprintf(os.Stderr, bold+"%-14s %-36s %-14s %s"+reset+"\n", "ID", "NAME", "CAPABILITY", "STATUS")
	for _, e := range enbs {
		fmt.Fprintf(os.Stderr, "%-14s %-36s %-14s %s%s%s\n",
			e.ID, truncate(e.Name, 36), e.CapabilityID, statusColor(e.Status), e.Status, reset)
	}
}

// WorkspaceList prints all workspaces, marking the active one.
func (p *Printer) WorkspaceList(wss []workspace.Workspace) {
	if len(wss) == 0 {
		fmt.Fprintln(os.Stderr, dim+"(no workspaces)"+reset)
		return
	}
	for _, ws := range wss {
		marker := "  "
		if ws.IsActive {
			marker = green + bold + "* " + reset
		}
		fmt.Fprintf(os.Stderr, "%s%-24s %s%s%s", marker, ws.Name, dim, ws.ID, reset)
		if ws.Description != "" {
			fmt.Fprintf(os.Stderr, "  %s", ws.Description)
		}
		fmt.Fprintln(os.Stderr)
		for _, pp := range ws.ProjectPaths {
			fmt.Fprintf(os.Stderr, "    %s%s%s\n", dim, pp.Path, reset)
		}
	}
}

// FileChanged prints a live file-change notification from the server.
func (p *Printer) FileChanged(changeType, path string) {
	var symbol, color string
	switch changeType {
	case "add":
		symbol, color = "+", green
	case "unlink":
		symbol, color = "-", red
	default:
		symbol, color = "~", yellow
	}
	fmt.Fprintf(os.Stderr, color+symbol+reset+" %s\n", path)
}

// ConnectionState prints a change in the notification socket state.
func (p *Printer) ConnectionState(state string) {
	switch state {
	case "connected":
		fmt.Fprintf(os.Stderr, green+"● connected"+reset+"\n")
	case "connecting":
		fmt.Fprintf(os.Stderr, yellow+"● connecting..."+reset+"\n")
	default:
		fmt.Fprintf(os.Stderr, red+"● disconnected"+reset+"\n")
	}
}

func statusColor(status string) string {
	switch {
	case strings.Contains(status, "Implemented"):
		return green
	case strings.Contains(status, "Draft"):
		return dim
	case strings.Contains(status, "Development"), strings.Contains(status, "Progress"):
		return blue
	case strings.Contains(status, "Retired"), strings.Contains(status, "Deprecated"):
		return red
	default:
		return yellow
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
