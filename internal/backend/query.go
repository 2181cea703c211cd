package backend

import (
	"context"
	"fmt"
	"net/http"
)

type QueryRequest struct {
	Query               string  `json:"query"`
	ChatID              string  `json:"chat_id"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

type QueryResponse struct {
	Response string `json:"response"`
}

// Query sends one user question and returns the grounded answer text.
func (c *Client) Query(ctx context.Context, req QueryRequest) (string, error) {
	var resp QueryResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chat", req, &resp); err != nil {
		return "", fmt.Errorf("failed to query chat %s: %w", req.ChatID, err)
	}
	return resp.Response, nil
}
