package models

import (
	"encoding/json"
	"math"
	"time"
)

// Document is a backend-owned uploaded file as seen in the listing.
type Document struct {
	Name      string
	SizeBytes int64
	CreatedAt time.Time
}

type documentWire struct {
	Name      string  `json:"name"`
	Size      int64   `json:"size"`
	CreatedAt float64 `json:"created_at"`
}

// UnmarshalJSON decodes the listing shape {name, size, created_at} where
// created_at is Unix seconds, possibly fractional.
func (d *Document) UnmarshalJSON(data []byte) error {
	var w documentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	sec, frac := math.Modf(w.CreatedAt)
	d.Name = w.Name
	d.SizeBytes = w.Size
	if d.SizeBytes < 0 {
		d.SizeBytes = 0
	}
	d.CreatedAt = time.Unix(int64(sec), int64(frac*1e9))
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(documentWire{
		Name:      d.Name,
		Size:      d.SizeBytes,
		CreatedAt: float64(d.CreatedAt.UnixNano()) / 1e9,
	})
}
