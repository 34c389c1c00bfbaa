package service

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	"searchapi/internal/apperrors"
	"searchapi/internal/model"
	"searchapi/internal/registry"
	repoMocks "searchapi/internal/repository/mocks"
	"searchapi/internal/storage"
	storeMocks "searchapi/internal/storage/mocks"
	"searchapi/internal/textsearch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newSearcherFixture wires a searcher service over an in-process session
// store with mocked repository and storage edges.
func newSearcherFixture() (SearcherService, *registry.MemoryStore, *repoMocks.MockDictionaryRepository, *storeMocks.MockStorage, *repoMocks.MockSnapshotRepository) {
	sessions := registry.NewMemoryStore()
	mDicts := new(repoMocks.MockDictionaryRepository)
	mStore := new(storeMocks.MockStorage)
	mSnapRepo := new(repoMocks.MockSnapshotRepository)
	snaps := NewSnapshotService(mStore, mSnapRepo)
	svc := NewSearcherService(sessions, mDicts, snaps, time.Hour)
	return svc, sessions, mDicts, mStore, mSnapRepo
}

var inlineEntries = []model.DictionaryEntry{{Keyword: "abc", Name: "X"}}

func TestSearcherService_CreateInline(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _, _, _ := newSearcherFixture()

	sess, err := svc.Create(ctx, CreateSearcherRequest{Entries: inlineEntries})
	require.NoError(t, err)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, registry.SourceInline, sess.Kind)
	assert.Equal(t, 1, sess.KeywordCount)
	assert.Equal(t, 4, sess.NodeCount) // root + a + ab + abc
	assert.Equal(t, 1, sessions.Len())

	matches, err := svc.Match(ctx, sess.ID, "zabcz")
	require.NoError(t, err)
	assert.Equal(t, []textsearch.Match{{Name: "X", Start: 1, End: 4}}, matches)
}

func TestSearcherService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _ := newSearcherFixture()

	tests := []struct {
		name string
		req  CreateSearcherRequest
	}{
		{name: "no source", req: CreateSearcherRequest{}},
		{name: "two sources", req: CreateSearcherRequest{DictionaryID: "d", SnapshotID: "s"}},
		{name: "entries and dictionary", req: CreateSearcherRequest{Entries: inlineEntries, DictionaryID: "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput), "got %v", err)
		})
	}
}

func TestSearcherService_CreateFromDictionary(t *testing.T) {
	ctx := context.Background()
	svc, _, mDicts, _, _ := newSearcherFixture()

	mDicts.On("FindByID", ctx, "dict-id").Return(&model.Dictionary{ID: "dict-id"}, nil)
	mDicts.On("ListEntries", ctx, "dict-id").Return(inlineEntries, nil)

	sess, err := svc.Create(ctx, CreateSearcherRequest{DictionaryID: "dict-id"})
	require.NoError(t, err)

	assert.Equal(t, registry.SourceDictionary, sess.Kind)
	assert.Equal(t, "dict-id", sess.SourceRef)

	out, err := svc.Substitute(ctx, sess.ID, "zabcz")
	require.NoError(t, err)
	assert.Equal(t, "zXz", out)
	mDicts.AssertExpectations(t)
}

func TestSearcherService_CreateFromMissingDictionary(t *testing.T) {
	ctx := context.Background()
	svc, _, mDicts, _, _ := newSearcherFixture()

	mDicts.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

	_, err := svc.Create(ctx, CreateSearcherRequest{DictionaryID: "missing"})
	assert.True(t, apperrors.Is(err, apperrors.CodeDictionaryNotFound), "got %v", err)
}

func TestSearcherService_CreateFromSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, _, _, mStore, mSnapRepo := newSearcherFixture()

	payload := encodeFixture(t)
	mSnapRepo.On("FindByID", ctx, "snap-id").
		Return(&model.Snapshot{ID: "snap-id", StoragePath: "snapshots/snap-id.json"}, nil)
	mStore.On("Get", ctx, "snapshots/snap-id.json").
		Return(io.NopCloser(bytes.NewReader(payload)), storage.ObjectInfo{}, nil)

	sess, err := svc.Create(ctx, CreateSearcherRequest{SnapshotID: "snap-id"})
	require.NoError(t, err)

	assert.Equal(t, registry.SourceSnapshot, sess.Kind)
	assert.Equal(t, "snap-id", sess.SourceRef)

	matches, err := svc.Match(ctx, sess.ID, "zabcz")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSearcherService_GetAndFree(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _, _, _ := newSearcherFixture()

	sess, err := svc.Create(ctx, CreateSearcherRequest{Entries: inlineEntries})
	require.NoError(t, err)

	got, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	require.NoError(t, svc.Free(ctx, sess.ID))
	assert.Equal(t, 0, sessions.Len())

	_, err = svc.Get(ctx, sess.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeSearcherNotFound))

	err = svc.Free(ctx, sess.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeSearcherNotFound))
}

func TestSearcherService_ExpiredSession(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _, _, _ := newSearcherFixture()

	sess := registry.New(registry.SourceInline, "", 1, 4, time.Hour)
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, sessions.Set(ctx, sess))

	_, err := svc.Match(ctx, sess.ID, "zabcz")
	assert.True(t, apperrors.Is(err, apperrors.CodeSearcherExpired), "got %v", err)

	// Expired sessions are dropped on first touch.
	_, err = svc.Get(ctx, sess.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeSearcherNotFound))

	// Freeing an already-expired searcher is fine.
	sess2 := registry.New(registry.SourceInline, "", 1, 4, time.Hour)
	sess2.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, sessions.Set(ctx, sess2))
	assert.NoError(t, svc.Free(ctx, sess2.ID))
}

func TestSearcherService_RehydrateFromDictionary(t *testing.T) {
	ctx := context.Background()
	svc, sessions, mDicts, _, _ := newSearcherFixture()

	// Session created by another instance: present in the store, absent from
	// the local automaton cache.
	sess := registry.New(registry.SourceDictionary, "dict-id", 1, 4, time.Hour)
	require.NoError(t, sessions.Set(ctx, sess))

	mDicts.On("FindByID", ctx, "dict-id").Return(&model.Dictionary{ID: "dict-id"}, nil)
	mDicts.On("ListEntries", ctx, "dict-id").Return(inlineEntries, nil).Once()

	matches, err := svc.Match(ctx, sess.ID, "zabcz")
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	// Second call hits the cache; ListEntries is not consulted again.
	_, err = svc.Match(ctx, sess.ID, "zabcz")
	require.NoError(t, err)
	mDicts.AssertExpectations(t)
}

func TestSearcherService_InlineSessionLostOnThisInstance(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _, _, _ := newSearcherFixture()

	sess := registry.New(registry.SourceInline, "", 1, 4, time.Hour)
	require.NoError(t, sessions.Set(ctx, sess))

	_, err := svc.Match(ctx, sess.ID, "zabcz")
	assert.True(t, apperrors.Is(err, apperrors.CodeSearcherExpired), "got %v", err)
	assert.Equal(t, 0, sessions.Len())
}

func TestSearcherService_MatchBatch(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _ := newSearcherFixture()

	sess, err := svc.Create(ctx, CreateSearcherRequest{Entries: inlineEntries})
	require.NoError(t, err)

	texts := []string{"zabcz", "nothing", "abc"}
	results, err := svc.MatchBatch(ctx, sess.ID, texts, 2)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, []textsearch.Match{{Name: "X", Start: 1, End: 4}}, results[0])
	assert.Empty(t, results[1])
	assert.Equal(t, []textsearch.Match{{Name: "X", Start: 0, End: 3}}, results[2])
}

func TestSearcherService_Snapshot(t *testing.T) {
	ctx := context.Background()
	svc, _, mDicts, mStore, mSnapRepo := newSearcherFixture()

	mDicts.On("FindByID", ctx, "dict-id").Return(&model.Dictionary{ID: "dict-id"}, nil)
	mDicts.On("ListEntries", ctx, "dict-id").Return(inlineEntries, nil)

	sess, err := svc.Create(ctx, CreateSearcherRequest{DictionaryID: "dict-id"})
	require.NoError(t, err)

	mStore.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{Key: "snapshots/x.json", Size: 42}, nil)
	mSnapRepo.On("Create", ctx, mock.MatchedBy(func(s *model.Snapshot) bool {
		return s.DictionaryID != nil && *s.DictionaryID == "dict-id" &&
			s.KeywordCount == 1 && s.NodeCount == 4
	})).Return(&model.Snapshot{ID: "snap-id"}, nil)

	snap, err := svc.Snapshot(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "snap-id", snap.ID)
	mSnapRepo.AssertExpectations(t)
}

func TestSearcherService_Quick(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _, _, _ := newSearcherFixture()

	matches, err := svc.QuickMatch(ctx, inlineEntries, "zabcz")
	require.NoError(t, err)
	assert.Equal(t, []textsearch.Match{{Name: "X", Start: 1, End: 4}}, matches)

	out, err := svc.QuickSubstitute(ctx, inlineEntries, "zabcz")
	require.NoError(t, err)
	assert.Equal(t, "zXz", out)

	// One-shot calls leave no session behind.
	assert.Equal(t, 0, sessions.Len())

	// No entries means nothing can match.
	matches, err = svc.QuickMatch(ctx, nil, "zabcz")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

// encodeFixture builds and encodes a one-keyword searcher.
func encodeFixture(t *testing.T) []byte {
	t.Helper()
	sr, err := textsearch.NewFromEntries([]textsearch.Entry{{Keyword: "abc", Name: "X"}})
	require.NoError(t, err)
	require.NoError(t, sr.Compile())
	payload, err := sr.Encode()
	require.NoError(t, err)
	return payload
}
