package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"searchapi/internal/apperrors"
	"searchapi/internal/model"
	"searchapi/internal/parallel"
	"searchapi/internal/registry"
	"searchapi/internal/repository"
	"searchapi/internal/textsearch"
)

// CreateSearcherRequest selects the automaton source for a new session.
// Exactly one of Entries, DictionaryID or SnapshotID must be set.
type CreateSearcherRequest struct {
	Entries      []model.DictionaryEntry
	DictionaryID string
	SnapshotID   string
	TTLSec       int
}

// SearcherService defines the use cases for live searcher sessions.
type SearcherService interface {
	// Create compiles an automaton from the requested source and registers a
	// session for it.
	Create(ctx context.Context, req CreateSearcherRequest) (*registry.Session, error)

	// Get returns the session metadata for a live searcher.
	Get(ctx context.Context, id string) (*registry.Session, error)

	// Free drops a searcher session and its cached automaton.
	Free(ctx context.Context, id string) error

	// Match runs the searcher over text and reports keyword occurrences.
	Match(ctx context.Context, id, text string) ([]textsearch.Match, error)

	// MatchLines reports the lines of text that contain at least one keyword.
	MatchLines(ctx context.Context, id, text string) ([]textsearch.LineMatch, error)

	// Substitute replaces keyword occurrences in text with their names.
	Substitute(ctx context.Context, id, text string) (string, error)

	// MatchBatch runs Match over several texts concurrently. jobs bounds the
	// worker count, <= 0 means one worker per text.
	MatchBatch(ctx context.Context, id string, texts []string, jobs int) ([][]textsearch.Match, error)

	// Snapshot persists the searcher's automaton as a snapshot object.
	Snapshot(ctx context.Context, id string) (*model.Snapshot, error)

	// QuickMatch compiles a throwaway searcher from entries and matches text.
	QuickMatch(ctx context.Context, entries []model.DictionaryEntry, text string) ([]textsearch.Match, error)

	// QuickSubstitute compiles a throwaway searcher from entries and
	// substitutes keyword occurrences in text.
	QuickSubstitute(ctx context.Context, entries []model.DictionaryEntry, text string) (string, error)
}

// searcherService keeps compiled automata in process memory while session
// metadata lives in the registry store. With a shared store, dictionary and
// snapshot sessions are rebuilt on cache misses; inline sessions cannot be.
type searcherService struct {
	sessions registry.Store
	dicts    repository.DictionaryRepository
	snaps    SnapshotService
	ttl      time.Duration

	mu    sync.RWMutex
	cache map[string]*textsearch.Searcher
}

// NewSearcherService constructs a new SearcherService. defaultTTL <= 0 falls
// back to registry.DefaultTTL.
func NewSearcherService(sessions registry.Store, dicts repository.DictionaryRepository, snaps SnapshotService, defaultTTL time.Duration) SearcherService {
	if defaultTTL <= 0 {
		defaultTTL = registry.DefaultTTL
	}
	return &searcherService{
		sessions: sessions,
		dicts:    dicts,
		snaps:    snaps,
		ttl:      defaultTTL,
		cache:    make(map[string]*textsearch.Searcher),
	}
}

func (s *searcherService) Create(ctx context.Context, req CreateSearcherRequest) (*registry.Session, error) {
	sources := 0
	if len(req.Entries) > 0 {
		sources++
	}
	if req.DictionaryID != "" {
		sources++
	}
	if req.SnapshotID != "" {
		sources++
	}
	if sources != 1 {
		return nil, apperrors.New(apperrors.CodeInvalidInput,
			"exactly one of entries, dictionary_id or snapshot_id must be set")
	}

	var (
		searcher *textsearch.Searcher
		kind     registry.SourceKind
		ref      string
		err      error
	)
	switch {
	case req.DictionaryID != "":
		searcher, err = s.buildFromDictionary(ctx, req.DictionaryID)
		kind, ref = registry.SourceDictionary, req.DictionaryID
	case req.SnapshotID != "":
		searcher, err = s.buildFromSnapshot(ctx, req.SnapshotID)
		kind, ref = registry.SourceSnapshot, req.SnapshotID
	default:
		searcher, err = buildSearcher(req.Entries)
		kind, ref = registry.SourceInline, ""
	}
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(req.TTLSec) * time.Second
	if req.TTLSec <= 0 {
		ttl = s.ttl
	}
	sess := registry.New(kind, ref, searcher.KeywordCount(), searcher.NodeCount(), ttl)
	if err := s.sessions.Set(ctx, sess); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRegistry, err, "store session")
	}

	s.mu.Lock()
	s.cache[sess.ID] = searcher
	s.mu.Unlock()

	return sess, nil
}

func (s *searcherService) Get(ctx context.Context, id string) (*registry.Session, error) {
	if id == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "id is required")
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, registry.ErrExpired) {
			s.drop(ctx, id)
			return nil, apperrors.New(apperrors.CodeSearcherExpired, "searcher %s expired", id)
		}
		return nil, apperrors.Wrap(apperrors.CodeRegistry, err, "load session")
	}
	if sess == nil {
		return nil, apperrors.New(apperrors.CodeSearcherNotFound, "searcher %s not found", id)
	}
	return sess, nil
}

// Free removes an expired session without error; only a missing one is reported.
func (s *searcherService) Free(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeSearcherExpired) {
			return nil
		}
		return err
	}
	s.drop(ctx, sess.ID)
	return nil
}

func (s *searcherService) Match(ctx context.Context, id, text string) ([]textsearch.Match, error) {
	searcher, _, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return searcher.Match(text)
}

func (s *searcherService) MatchLines(ctx context.Context, id, text string) ([]textsearch.LineMatch, error) {
	searcher, _, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	return searcher.MatchLines(text)
}

func (s *searcherService) Substitute(ctx context.Context, id, text string) (string, error) {
	searcher, _, err := s.resolve(ctx, id)
	if err != nil {
		return "", err
	}
	return searcher.Substitute(text)
}

func (s *searcherService) MatchBatch(ctx context.Context, id string, texts []string, jobs int) ([][]textsearch.Match, error) {
	searcher, _, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	tasks := make([]parallel.Task[[]textsearch.Match], len(texts))
	for i, text := range texts {
		text := text
		tasks[i] = func(context.Context) ([]textsearch.Match, error) {
			return searcher.Match(text)
		}
	}
	return parallel.JoinAll(ctx, jobs, tasks)
}

func (s *searcherService) Snapshot(ctx context.Context, id string) (*model.Snapshot, error) {
	searcher, sess, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := searcher.Encode()
	if err != nil {
		return nil, err
	}

	var dictID *string
	if sess.Kind == registry.SourceDictionary {
		ref := sess.SourceRef
		dictID = &ref
	}
	return s.snaps.Save(ctx, payload, dictID, sess.KeywordCount, sess.NodeCount)
}

func (s *searcherService) QuickMatch(ctx context.Context, entries []model.DictionaryEntry, text string) ([]textsearch.Match, error) {
	searcher, err := buildSearcher(entries)
	if err != nil {
		return nil, err
	}
	return searcher.Match(text)
}

func (s *searcherService) QuickSubstitute(ctx context.Context, entries []model.DictionaryEntry, text string) (string, error) {
	searcher, err := buildSearcher(entries)
	if err != nil {
		return "", err
	}
	return searcher.Substitute(text)
}

// resolve loads the session and its automaton, rebuilding the automaton from
// the session source when another instance created it.
func (s *searcherService) resolve(ctx context.Context, id string) (*textsearch.Searcher, *registry.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	searcher, ok := s.cache[sess.ID]
	s.mu.RUnlock()
	if ok {
		return searcher, sess, nil
	}

	if !sess.Rehydratable() {
		s.drop(ctx, sess.ID)
		return nil, nil, apperrors.New(apperrors.CodeSearcherExpired,
			"inline searcher %s is not available on this instance", sess.ID)
	}

	switch sess.Kind {
	case registry.SourceDictionary:
		searcher, err = s.buildFromDictionary(ctx, sess.SourceRef)
	case registry.SourceSnapshot:
		searcher, err = s.buildFromSnapshot(ctx, sess.SourceRef)
	}
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.cache[sess.ID] = searcher
	s.mu.Unlock()

	return searcher, sess, nil
}

func (s *searcherService) buildFromDictionary(ctx context.Context, dictionaryID string) (*textsearch.Searcher, error) {
	if _, err := s.dicts.FindByID(ctx, dictionaryID); err != nil {
		if isNoRows(err) {
			return nil, apperrors.New(apperrors.CodeDictionaryNotFound, "dictionary %s not found", dictionaryID)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabase, err, "find dictionary")
	}
	entries, err := s.dicts.ListEntries(ctx, dictionaryID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, err, "list dictionary entries")
	}
	return buildSearcher(entries)
}

func (s *searcherService) buildFromSnapshot(ctx context.Context, snapshotID string) (*textsearch.Searcher, error) {
	_, payload, err := s.snaps.Load(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	return textsearch.Decode(payload)
}

// drop removes the session and the cached automaton; both removals are
// idempotent.
func (s *searcherService) drop(ctx context.Context, id string) {
	_ = s.sessions.Delete(ctx, id)
	s.mu.Lock()
	delete(s.cache, id)
	s.mu.Unlock()
}

func buildSearcher(entries []model.DictionaryEntry) (*textsearch.Searcher, error) {
	return textsearch.NewFromEntries(toEntries(entries))
}
