package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/anvilkit/anvil/internal/workspace"
)

// ListWorkspaces fetches all workspaces known to the server.
func (c *Client) ListWorkspaces(ctx context.Context) ([]workspace.Workspace, error) {
	var list []workspace.Workspace
	if err := c.do(ctx, "listing workspaces", http.MethodGet, "/api/workspaces", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ActiveWorkspace returns the single active workspace, or an *APIError when
// the server reports none.
func (c *Client) ActiveWorkspace(ctx context.Context) (*workspace.Workspace, error) {
	list, err := c.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].IsActive {
			return &list[i], nil
		}
	}
	return nil, &APIError{Op: "finding active workspace", Message: "server has no active workspace"}
}

// CreateWorkspace registers a new workspace and returns it with the
// server-assigned id.
func (c *Client) CreateWorkspace(ctx context.Context, ws workspace.Workspace) (*workspace.Workspace, error) {
	var created workspace.Workspace
	op := fmt.Sprintf("creating workspace %q", ws.Name)
	if err := c.do(ctx, op, http.MethodPost, "/api/workspaces", ws, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateWorkspace replaces the stored definition of ws (matched by id).
func (c *Client) UpdateWorkspace(ctx context.Context, ws workspace.Workspace) error {
	op := fmt.Sprintf("updating workspace %q", ws.Name)
	return c.do(ctx, op, http.MethodPut, "/api/workspaces/"+url.PathEscape(ws.ID), ws, nil)
}

// DeleteWorkspace removes the workspace with the given id.
func (c *Client) DeleteWorkspace(ctx context.Context, id string) error {
	op := fmt.Sprintf("deleting workspace %s", id)
	return c.do(ctx, op, http.MethodDelete, "/api/workspaces/"+url.PathEscape(id), nil, nil)
}

// ActivateWorkspace makes the workspace with the given id the active one.
// The server deactivates the previous one in the same operation.
func (c *Client) ActivateWorkspace(ctx context.Context, id string) error {
	op := fmt.Sprintf("activating workspace %s", id)
	return c.do(ctx, op, http.MethodPost, "/api/workspaces/"+url.PathEscape(id)+"/activate", nil, nil)
}
