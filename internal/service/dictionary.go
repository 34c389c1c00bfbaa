package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"searchapi/internal/apperrors"
	"searchapi/internal/bjtime"
	"searchapi/internal/limitpack"
	"searchapi/internal/model"
	"searchapi/internal/repository"
	"searchapi/internal/textsearch"
)

// DictionaryListResult is the service-level DTO for paginated dictionaries.
type DictionaryListResult struct {
	Items []model.Dictionary `json:"data"`
	Total int                `json:"total"`
}

// DictionaryService defines the use cases for handling dictionaries.
type DictionaryService interface {
	// Create stores a new dictionary with its entries. The entry set must
	// compile into a searcher; invalid keywords are rejected up front.
	Create(ctx context.Context, name string, revisedOn bjtime.Date, entries []model.DictionaryEntry) (*model.Dictionary, error)

	// List returns dictionaries using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DictionaryListResult, error)

	// Get returns a single dictionary by its ID.
	Get(ctx context.Context, id string) (*model.Dictionary, error)

	// GetEntries returns the entries of a dictionary in insertion order.
	GetEntries(ctx context.Context, id string) ([]model.DictionaryEntry, error)

	// Update replaces the entry set of a dictionary and bumps its revision date.
	Update(ctx context.Context, id string, revisedOn bjtime.Date, entries []model.DictionaryEntry) (*model.Dictionary, error)

	// Delete removes a dictionary by ID together with its entries.
	Delete(ctx context.Context, id string) error
}

// dictionaryService is a concrete implementation of DictionaryService.
type dictionaryService struct {
	repo repository.DictionaryRepository
}

// NewDictionaryService constructs a new DictionaryService.
func NewDictionaryService(repo repository.DictionaryRepository) DictionaryService {
	return &dictionaryService{repo: repo}
}

func (s *dictionaryService) Create(ctx context.Context, name string, revisedOn bjtime.Date, entries []model.DictionaryEntry) (*model.Dictionary, error) {
	if name == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "dictionary name is required")
	}
	if err := compileCheck(entries); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !isNoRows(err) {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, err, "look up dictionary name")
	}
	if existing != nil {
		return nil, apperrors.New(apperrors.CodeConflict, "dictionary %q already exists", limitpack.Clip(name, 64))
	}

	now := time.Now().UTC()
	dict := &model.Dictionary{
		ID:        uuid.New().String(),
		Name:      name,
		RevisedOn: revisedOn,
		CreatedAt: now,
		UpdatedAt: now,
	}
	stored, err := s.repo.Create(ctx, dict, entries)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, err, "save dictionary")
	}
	return stored, nil
}

// List returns paginated dictionaries without exposing repository types.
func (s *dictionaryService) List(ctx context.Context, limit, offset int) (*DictionaryListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, err, "list dictionaries")
	}
	return &DictionaryListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *dictionaryService) Get(ctx context.Context, id string) (*model.Dictionary, error) {
	if id == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "id is required")
	}
	dict, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.New(apperrors.CodeDictionaryNotFound, "dictionary %s not found", id)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabase, err, "find dictionary")
	}
	return dict, nil
}

func (s *dictionaryService) GetEntries(ctx context.Context, id string) ([]model.DictionaryEntry, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListEntries(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, err, "list dictionary entries")
	}
	return entries, nil
}

func (s *dictionaryService) Update(ctx context.Context, id string, revisedOn bjtime.Date, entries []model.DictionaryEntry) (*model.Dictionary, error) {
	if id == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "id is required")
	}
	if err := compileCheck(entries); err != nil {
		return nil, err
	}

	updated, err := s.repo.ReplaceEntries(ctx, id, revisedOn, entries)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.New(apperrors.CodeDictionaryNotFound, "dictionary %s not found", id)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabase, err, "update dictionary")
	}
	return updated, nil
}

func (s *dictionaryService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, err, "delete dictionary")
	}
	return nil
}

// compileCheck builds a throwaway searcher to reject entry sets that could
// not serve a dictionary-backed session later.
func compileCheck(entries []model.DictionaryEntry) error {
	_, err := buildSearcher(entries)
	return err
}

func toEntries(entries []model.DictionaryEntry) []textsearch.Entry {
	out := make([]textsearch.Entry, len(entries))
	for i, e := range entries {
		out[i] = textsearch.Entry{Keyword: e.Keyword, Name: e.Name}
	}
	return out
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
