package directory

import (
	"context"
	"sync"

	"rag-chat/internal/logging"
	"rag-chat/internal/models"
)

// DocumentBackend is the part of the backend contract the document listing
// needs.
type DocumentBackend interface {
	ListDocuments(ctx context.Context) ([]models.Document, error)
	DeleteDocument(ctx context.Context, name string) error
}

// Documents is a transient snapshot of uploaded documents.
type Documents struct {
	backend DocumentBackend

	mu   sync.RWMutex
	docs []models.Document
}

func NewDocuments(backend DocumentBackend) *Documents {
	return &Documents{backend: backend}
}

// List fetches every document and replaces the snapshot. On failure the
// previous snapshot is kept.
func (d *Documents) List(ctx context.Context) ([]models.Document, error) {
	docs, err := d.backend.ListDocuments(ctx)
	if err != nil {
		logging.Error("Failed to fetch documents: %v", err)
		return d.Snapshot(), err
	}

	d.mu.Lock()
	d.docs = append([]models.Document(nil), docs...)
	d.mu.Unlock()

	return d.Snapshot(), nil
}

// Delete removes a document; the snapshot changes only once the backend
// has confirmed.
func (d *Documents) Delete(ctx context.Context, name string) error {
	if err := d.backend.DeleteDocument(ctx, name); err != nil {
		logging.Error("Failed to delete document %s: %v", name, err)
		return err
	}

	d.mu.Lock()
	kept := d.docs[:0:0]
	for _, doc := range d.docs {
		if doc.Name != name {
			kept = append(kept, doc)
		}
	}
	d.docs = kept
	d.mu.Unlock()

	return nil
}

// Snapshot returns a copy of the current listing.
func (d *Documents) Snapshot() []models.Document {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Document(nil), d.docs...)
}
