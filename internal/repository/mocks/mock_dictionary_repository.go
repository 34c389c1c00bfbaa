package mocks

import (
	"context"

	"searchapi/internal/bjtime"
	"searchapi/internal/model"
	"searchapi/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockDictionaryRepository struct {
	mock.Mock
}

func (m *MockDictionaryRepository) Create(ctx context.Context, dict *model.Dictionary, entries []model.DictionaryEntry) (*model.Dictionary, error) {
	args := m.Called(ctx, dict, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dictionary), args.Error(1)
}

func (m *MockDictionaryRepository) FindByID(ctx context.Context, id string) (*model.Dictionary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dictionary), args.Error(1)
}

func (m *MockDictionaryRepository) FindByName(ctx context.Context, name string) (*model.Dictionary, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dictionary), args.Error(1)
}

func (m *MockDictionaryRepository) ListEntries(ctx context.Context, id string) ([]model.DictionaryEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DictionaryEntry), args.Error(1)
}

func (m *MockDictionaryRepository) ReplaceEntries(ctx context.Context, id string, revisedOn bjtime.Date, entries []model.DictionaryEntry) (*model.Dictionary, error) {
	args := m.Called(ctx, id, revisedOn, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dictionary), args.Error(1)
}

func (m *MockDictionaryRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Dictionary], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Dictionary]), args.Error(1)
}

func (m *MockDictionaryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
