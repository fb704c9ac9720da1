package api

import (
	"context"
	"net/http"
)

// ServerConfig is the server-side application configuration exposed at
// /api/config.
type ServerConfig struct {
	Version      string `json:"version,omitempty"`
	DefaultOwner string `json:"defaultOwner,omitempty"`
	SWPlanPath   string `json:"swPlanPath,omitempty"`
}

// GetConfig fetches the server configuration.
func (c *Client) GetConfig(ctx context.Context) (*ServerConfig, error) {
	var cfg ServerConfig
	if err := c.do(ctx, "loading server config", http.MethodGet, "/api/config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig replaces the server configuration.
func (c *Client) SaveConfig(ctx context.Context, cfg ServerConfig) error {
	return c.do(ctx, "saving server config", http.MethodPost, "/api/config", cfg, nil)
}
