package api

import (
	"context"
	"fmt"
	"net/http"
)

// File is one markdown document as stored on the server, addressed by its
// workspace-relative path.
type File struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// GetFile fetches the raw content of the file at path.
func (c *Client) GetFile(ctx context.Context, path string) (*File, error) {
	var f File
	op := fmt.Sprintf("loading %s", path)
	if err := c.do(ctx, op, http.MethodGet, "/api/file/"+escapePath(path), nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// SaveFile writes content to the file at path, creating it if needed.
func (c *Client) SaveFile(ctx context.Context, path, content string) error {
	op := fmt.Sprintf("saving %s", path)
	in := struct {
		Content string `json:"content"`
	}{Content: content}
	return c.do(ctx, op, http.MethodPost, "/api/file/"+escapePath(path), in, nil)
}

// DeleteFile removes the file at path.
func (c *Client) DeleteFile(ctx context.Context, path string) error {
	op := fmt.Sprintf("deleting %s", path)
	return c.do(ctx, op, http.MethodDelete, "/api/file/"+escapePath(path), nil, nil)
}

// RenameFile moves the file at oldPath to newPath. The server treats this
// as a plain filesystem rename; content is untouched.
func (c *Client) RenameFile(ctx context.Context, oldPath, newPath string) error {
	op := fmt.Sprintf("renaming %s to %s", oldPath, newPath)
	in := struct {
		NewPath string `json:"newPath"`
	}{NewPath: newPath}
	return c.do(ctx, op, http.MethodPut, "/api/file/rename/"+escapePath(oldPath), in, nil)
}
