package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is an RFC3339 time on the wire.
type Timestamp = time.Time

// Card represents an individual flashcard inside a deck record.
type Card struct {
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	SampleSentence string     `json:"sampleSentence,omitempty"`
	IsKnown        bool       `json:"isKnown"`
	LastReviewed   *Timestamp `json:"lastReviewed"`
	CreatedAt      Timestamp  `json:"createdAt"`
}

// CardMap is a deck's cards keyed by card id. Some legacy records stored
// cards as a JSON array; those are normalized to a mapping with card_{i}
// keys at decode time so nothing downstream has to branch on the shape.
type CardMap map[string]Card

func (m *CardMap) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*m = nil
		return nil
	}

	if trimmed[0] == '[' {
		var legacy []Card
		if err := json.Unmarshal(data, &legacy); err != nil {
			return err
		}
		normalized := make(CardMap, len(legacy))
		for i, card := range legacy {
			normalized[fmt.Sprintf("card_%d", i)] = card
		}
		*m = normalized
		return nil
	}

	var byID map[string]Card
	if err := json.Unmarshal(data, &byID); err != nil {
		return err
	}
	*m = CardMap(byID)
	return nil
}

// Clone makes a per-entry copy so a fork never shares structure with its
// source record.
func (m CardMap) Clone() CardMap {
	if m == nil {
		return nil
	}
	out := make(CardMap, len(m))
	for id, card := range m {
		out[id] = card
	}
	return out
}
