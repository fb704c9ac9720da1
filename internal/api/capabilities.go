package api

import (
	"context"
	"fmt"
	"net/http"
)

// CapabilitySummary is the server's listing row for one capability file.
type CapabilitySummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Approval  string `json:"approval"`
	Priority  string `json:"priority"`
	Owner     string `json:"owner,omitempty"`
	System    string `json:"system,omitempty"`
	Component string `json:"component,omitempty"`
	Path      string `json:"path"`
}

// EnablerSummary is the server's listing row for one enabler file.
type EnablerSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status"`
	Approval     string `json:"approval"`
	Priority     string `json:"priority"`
	CapabilityID string `json:"capabilityId"`
	Path         string `json:"path"`
}

// DependencyLink is a reference edge to another capability.
type DependencyLink struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
}

// CapabilityDetail is a capability with its enablers and dependency edges
// resolved, as returned by /api/capabilities-with-dependencies.
type CapabilityDetail struct {
	CapabilitySummary
	Enablers           []EnablerSummary `json:"enablers"`
	InternalUpstream   []DependencyLink `json:"internalUpstream"`
	InternalDownstream []DependencyLink `json:"internalDownstream"`
}

// ListCapabilities fetches the capability index for the active workspace.
func (c *Client) ListCapabilities(ctx context.Context) ([]CapabilitySummary, error) {
	var caps []CapabilitySummary
	if err := c.do(ctx, "listing capabilities", http.MethodGet, "/api/capabilities", nil, &caps); err != nil {
		return nil, err
	}
	return caps, nil
}

// ListCapabilitiesWithDependencies fetches capabilities with enablers and
// dependency edges resolved.
func (c *Client) ListCapabilitiesWithDependencies(ctx context.Context) ([]CapabilityDetail, error) {
	var caps []CapabilityDetail
	if err := c.do(ctx, "listing capabilities with dependencies", http.MethodGet, "/api/capabilities-with-dependencies", nil, &caps); err != nil {
		return nil, err
	}
	return caps, nil
}

// EnablerFile pairs an enabler path with content for a compound save.
type EnablerFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// CapabilitySaveRequest is the payload for a compound capability save: the
// capability's own content plus any enabler files to write in the same
// server-side operation.
type CapabilitySaveRequest struct {
	Content  string        `json:"content"`
	Enablers []EnablerFile `json:"enablers,omitempty"`
}

// SaveCapabilityWithEnablers writes a capability file and its enabler files
// in one request.
func (c *Client) SaveCapabilityWithEnablers(ctx context.Context, path string, req CapabilitySaveRequest) error {
	op := fmt.Sprintf("saving capability %s", path)
	return c.do(ctx, op, http.MethodPost, "/api/capability-with-enablers/"+escapePath(path), req, nil)
}

// EnablerSaveRequest is the payload for an enabler save that may also move
// the enabler under a different parent capability.
type EnablerSaveRequest struct {
	Content              string `json:"content"`
	CapabilityID         string `json:"capabilityId"`
	PreviousCapabilityID string `json:"previousCapabilityId,omitempty"`
}

// SaveEnablerWithReparenting writes an enabler file, updating both parents'
// enabler tables when the capability id changed.
func (c *Client) SaveEnablerWithReparenting(ctx context.Context, path string, req EnablerSaveRequest) error {
	op := fmt.Sprintf("saving enabler %s", path)
	return c.do(ctx, op, http.MethodPost, "/api/enabler-with-reparenting/"+escapePath(path), req, nil)
}
