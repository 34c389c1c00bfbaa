package repository

import (
	"context"

	"searchapi/internal/bjtime"
	"searchapi/internal/model"
)

// DictionaryRepository defines data access for dictionaries using SQL queries only.
// No business logic here — strictly persistence operations.
type DictionaryRepository interface {
	// Create inserts a new dictionary record together with its entries.
	// The caller should provide required fields (e.g., ID, CreatedAt) according to the database schema defaults.
	// Returns the stored dictionary (may include values set by the DB).
	Create(ctx context.Context, dict *model.Dictionary, entries []model.DictionaryEntry) (*model.Dictionary, error)

	// FindByID returns a dictionary by its ID.
	FindByID(ctx context.Context, id string) (*model.Dictionary, error)

	// FindByName returns a dictionary by its unique name.
	FindByName(ctx context.Context, name string) (*model.Dictionary, error)

	// ListEntries returns the entries of a dictionary in insertion order.
	ListEntries(ctx context.Context, id string) ([]model.DictionaryEntry, error)

	// ReplaceEntries swaps the entry set of a dictionary atomically and
	// updates the revision date. Returns the updated dictionary.
	ReplaceEntries(ctx context.Context, id string, revisedOn bjtime.Date, entries []model.DictionaryEntry) (*model.Dictionary, error)

	// List returns a paginated list of dictionaries and total rows count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Dictionary], error)

	// Delete removes a dictionary by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
