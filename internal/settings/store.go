package settings

import (
	"encoding/json"
	"errors"

	"rag-chat/internal/logging"
	"rag-chat/internal/models"
	"rag-chat/internal/storage"
)

// Key is the fixed storage key of the settings record.
const Key = "chatSettings"

// Store persists RetrievalSettings as a single JSON record.
type Store struct {
	kv storage.KV
}

func NewStore(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// Load returns the persisted settings merged over the defaults and clamped.
// Missing or malformed data yields the defaults; errors are logged, never
// returned.
func (s *Store) Load() models.RetrievalSettings {
	defaults := models.DefaultRetrievalSettings()

	data, err := s.kv.Get(Key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			logging.Error("Failed to read settings, using defaults: %v", err)
		}
		return defaults
	}

	// Decoding over the defaults keeps any field the record omits (or holds as null)
	merged := defaults
	if err := json.Unmarshal(data, &merged); err != nil {
		logging.Error("Failed to parse settings, using defaults: %v", err)
		return defaults
	}

	return merged.Clamp()
}

// Save overwrites the persisted record with the full settings object. It is
// fire-and-forget: a write failure is logged only.
func (s *Store) Save(settings models.RetrievalSettings) {
	data, err := json.Marshal(settings)
	if err != nil {
		logging.Error("Failed to marshal settings: %v", err)
		return
	}
	if err := s.kv.Set(Key, data); err != nil {
		logging.Error("Failed to save settings: %v", err)
	}
}
