package directory

import (
	"context"
	"sync"

	"rag-chat/internal/logging"
	"rag-chat/internal/models"
)

// SessionBackend is the part of the backend contract the session directory
// needs.
type SessionBackend interface {
	ListChats(ctx context.Context) ([]models.DirectoryEntry, error)
	CreateChat(ctx context.Context) (string, error)
	DeleteChat(ctx context.Context, id string) error
}

// DeleteResult reports what a successful delete means for navigation.
type DeleteResult struct {
	ID string

	// WasActive is set when the deleted session was the one on screen; the
	// caller must navigate to the new-chat state.
	WasActive bool
}

// Sessions is the snapshot of known chat sessions shown in the sidebar. It is
// refreshed explicitly by navigation rather than kept in sync.
type Sessions struct {
	backend SessionBackend

	mu      sync.RWMutex
	entries []models.DirectoryEntry
}

func NewSessions(backend SessionBackend) *Sessions {
	return &Sessions{backend: backend}
}

// Refresh replaces the snapshot with the backend listing. On failure the
// stale snapshot is kept and returned along with the error.
func (d *Sessions) Refresh(ctx context.Context) ([]models.DirectoryEntry, error) {
	entries, err := d.backend.ListChats(ctx)
	if err != nil {
		logging.Error("Failed to fetch chats: %v", err)
		return d.Entries(), err
	}

	d.mu.Lock()
	d.entries = append([]models.DirectoryEntry(nil), entries...)
	d.mu.Unlock()

	return d.Entries(), nil
}

// Create returns the id of a new backend session.
func (d *Sessions) Create(ctx context.Context) (string, error) {
	id, err := d.backend.CreateChat(ctx)
	if err != nil {
		logging.Error("Failed to create chat: %v", err)
		return "", err
	}
	return id, nil
}

// Delete removes a session on the backend, then from the snapshot. On
// failure the snapshot is unchanged.
func (d *Sessions) Delete(ctx context.Context, id, activeID string) (DeleteResult, error) {
	if err := d.backend.DeleteChat(ctx, id); err != nil {
		logging.Error("Failed to delete chat %s: %v", id, err)
		return DeleteResult{}, err
	}

	d.mu.Lock()
	kept := d.entries[:0:0]
	for _, e := range d.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	d.entries = kept
	d.mu.Unlock()

	return DeleteResult{ID: id, WasActive: id != "" && id == activeID}, nil
}

// Entries returns a copy of the current snapshot.
func (d *Sessions) Entries() []models.DirectoryEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.DirectoryEntry(nil), d.entries...)
}
