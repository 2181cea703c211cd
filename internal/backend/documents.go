package backend

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"rag-chat/internal/models"
)

const UploadFieldName = "file"

type uploadResponse struct {
	Chunks int `json:"chunks"`
}

// Upload streams a file to the backend as multipart field "file" and returns
// the number of chunks the backend created from it.
func (c *Client) Upload(ctx context.Context, name string, content io.Reader) (int, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile(UploadFieldName, name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, content); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", pr)
	if err != nil {
		pr.Close()
		return 0, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.send(req)
	if err != nil {
		pr.Close()
		return 0, fmt.Errorf("failed to upload %s: %w", name, err)
	}

	var out uploadResponse
	if err := decodeResponse(resp, &out); err != nil {
		return 0, fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return out.Chunks, nil
}

// ListDocuments fetches every uploaded document.
func (c *Client) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	if err := c.doJSON(ctx, http.MethodGet, "/documents", nil, &docs); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	if docs == nil {
		docs = []models.Document{}
	}
	return docs, nil
}

// DeleteDocument removes one document by name.
func (c *Client) DeleteDocument(ctx context.Context, name string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/documents/"+url.PathEscape(name), nil, nil); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", name, err)
	}
	return nil
}
