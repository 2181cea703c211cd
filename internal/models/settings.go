package models

import "math"

const (
	DefaultSimilarityThreshold = 0.25
	DefaultMaxContextMessages  = 6

	MinSimilarityThreshold = 0.0
	MaxSimilarityThreshold = 1.0
	MinContextMessages     = 0
	MaxContextMessages     = 20

	// SimilarityThresholdStep is the slider increment in the settings screen.
	SimilarityThresholdStep = 0.05
)

// RetrievalSettings controls how the backend selects supporting document
// content for a query. They apply to every session at the moment a query is
// issued.
type RetrievalSettings struct {
	SimilarityThreshold float64 `json:"similarityThreshold"`
	MaxContextMessages  int     `json:"maxContextMessages"`
}

func DefaultRetrievalSettings() RetrievalSettings {
	return RetrievalSettings{
		SimilarityThreshold: DefaultSimilarityThreshold,
		MaxContextMessages:  DefaultMaxContextMessages,
	}
}

// Clamp forces both values into their declared ranges. A NaN threshold falls
// back to the default.
func (s RetrievalSettings) Clamp() RetrievalSettings {
	switch {
	case math.IsNaN(s.SimilarityThreshold):
		s.SimilarityThreshold = DefaultSimilarityThreshold
	case s.SimilarityThreshold < MinSimilarityThreshold:
		s.SimilarityThreshold = MinSimilarityThreshold
	case s.SimilarityThreshold > MaxSimilarityThreshold:
		s.SimilarityThreshold = MaxSimilarityThreshold
	}

	if s.MaxContextMessages < MinContextMessages {
		s.MaxContextMessages = MinContextMessages
	}
	if s.MaxContextMessages > MaxContextMessages {
		s.MaxContextMessages = MaxContextMessages
	}
	return s
}
