package model

import "time"

// Snapshot describes a compiled searcher automaton persisted to object storage.
// DictionaryID is nil for snapshots taken from ad-hoc searchers.
type Snapshot struct {
	ID           string    `json:"id"`
	DictionaryID *string   `json:"dictionary_id,omitempty"`
	KeywordCount int       `json:"keyword_count"`
	NodeCount    int       `json:"node_count"`
	StoragePath  string    `json:"storage_path"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}
