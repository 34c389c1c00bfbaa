package mocks

import (
	"context"

	"searchapi/internal/model"
	"searchapi/internal/registry"
	"searchapi/internal/service"
	"searchapi/internal/textsearch"
	"github.com/stretchr/testify/mock"
)

type MockSearcherService struct {
	mock.Mock
}

func (m *MockSearcherService) Create(ctx context.Context, req service.CreateSearcherRequest) (*registry.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Session), args.Error(1)
}

func (m *MockSearcherService) Get(ctx context.Context, id string) (*registry.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Session), args.Error(1)
}

func (m *MockSearcherService) Free(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSearcherService) Match(ctx context.Context, id, text string) ([]textsearch.Match, error) {
	args := m.Called(ctx, id, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]textsearch.Match), args.Error(1)
}

func (m *MockSearcherService) MatchLines(ctx context.Context, id, text string) ([]textsearch.LineMatch, error) {
	args := m.Called(ctx, id, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]textsearch.LineMatch), args.Error(1)
}

func (m *MockSearcherService) Substitute(ctx context.Context, id, text string) (string, error) {
	args := m.Called(ctx, id, text)
	return args.String(0), args.Error(1)
}

func (m *MockSearcherService) MatchBatch(ctx context.Context, id string, texts []string, jobs int) ([][]textsearch.Match, error) {
	args := m.Called(ctx, id, texts, jobs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]textsearch.Match), args.Error(1)
}

func (m *MockSearcherService) Snapshot(ctx context.Context, id string) (*model.Snapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Snapshot), args.Error(1)
}

func (m *MockSearcherService) QuickMatch(ctx context.Context, entries []model.DictionaryEntry, text string) ([]textsearch.Match, error) {
	args := m.Called(ctx, entries, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]textsearch.Match), args.Error(1)
}

func (m *MockSearcherService) QuickSubstitute(ctx context.Context, entries []model.DictionaryEntry, text string) (string, error) {
	args := m.Called(ctx, entries, text)
	return args.String(0), args.Error(1)
}
