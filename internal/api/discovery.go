package api

import (
	"context"
	"net/http"
)

// AnalyzeRequest submits free-form source material (meeting notes, an
// existing document, a brief) for the server to break into proposed
// capability and enabler documents.
type AnalyzeRequest struct {
	Text string `json:"text"`
	Path string `json:"path,omitempty"`
}

// ProposedDocument is one document suggested by a discovery analysis.
type ProposedDocument struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Analysis is the result of a discovery run.
type Analysis struct {
	Summary   string             `json:"summary,omitempty"`
	Documents []ProposedDocument `json:"documents"`
}

// AnalyzeDocument runs server-side discovery over the supplied text.
func (c *Client) AnalyzeDocument(ctx context.Context, req AnalyzeRequest) (*Analysis, error) {
	var out Analysis
	if err := c.do(ctx, "analyzing document", http.MethodPost, "/api/discovery/analyze", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRequest asks the server to materialize proposed documents under
// targetDir.
type CreateRequest struct {
	Documents []ProposedDocument `json:"documents"`
	TargetDir string             `json:"targetDir"`
}

// CreateResult lists the paths the server created.
type CreateResult struct {
	Created []string `json:"created"`
}

// CreateFromAnalysis writes the proposed documents to the server.
func (c *Client) CreateFromAnalysis(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	var out CreateResult
	if err := c.do(ctx, "creating documents from analysis", http.MethodPost, "/api/discovery/create", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
