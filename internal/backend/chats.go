package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"rag-chat/internal/models"
)

type listChatsResponse struct {
	Chats []models.DirectoryEntry `json:"chats"`
}

type createChatResponse struct {
	ID string `json:"id"`
}

type loadChatResponse struct {
	Messages []models.Message `json:"messages"`
}

// ListChats fetches the full session directory.
func (c *Client) ListChats(ctx context.Context) ([]models.DirectoryEntry, error) {
	var resp listChatsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/chats", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	if resp.Chats == nil {
		resp.Chats = []models.DirectoryEntry{}
	}
	return resp.Chats, nil
}

// CreateChat asks the backend for a new session and returns its id.
func (c *Client) CreateChat(ctx context.Context) (string, error) {
	var resp createChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/chats", nil, &resp); err != nil {
		return "", fmt.Errorf("failed to create chat: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("failed to create chat: backend returned empty id")
	}
	return resp.ID, nil
}

// LoadChat fetches a session transcript. Extra message fields are dropped.
func (c *Client) LoadChat(ctx context.Context, id string) ([]models.Message, error) {
	var resp loadChatResponse
	if err := c.doJSON(ctx, http.MethodGet, "/chats/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to load chat %s: %w", id, err)
	}
	messages := make([]models.Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		messages = append(messages, models.Message{Role: m.Role, Content: m.Content})
	}
	return messages, nil
}

// DeleteChat removes a session.
func (c *Client) DeleteChat(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/chats/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete chat %s: %w", id, err)
	}
	return nil
}
