package model

import (
	"time"

	"searchapi/internal/bjtime"
)

// Dictionary represents a named keyword collection in the system.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Dictionary struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	RevisedOn  bjtime.Date `json:"revised_on"`
	EntryCount int         `json:"entry_count"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// DictionaryEntry is one keyword of a dictionary together with the name
// reported when the keyword matches. An empty Name falls back to the keyword.
type DictionaryEntry struct {
	Keyword string `json:"keyword"`
	Name    string `json:"name,omitempty"`
}
