package mocks

import (
	"context"

	"searchapi/internal/bjtime"
	"searchapi/internal/model"
	"searchapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDictionaryService struct {
	mock.Mock
}

func (m *MockDictionaryService) Create(ctx context.Context, name string, revisedOn bjtime.Date, entries []model.DictionaryEntry) (*model.Dictionary, error) {
	args := m.Called(ctx, name, revisedOn, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dictionary), args.Error(1)
}

func (m *MockDictionaryService) List(ctx context.Context, limit, offset int) (*service.DictionaryListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DictionaryListResult), args.Error(1)
}

func (m *MockDictionaryService) Get(ctx context.Context, id string) (*model.Dictionary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dictionary), args.Error(1)
}

func (m *MockDictionaryService) GetEntries(ctx context.Context, id string) ([]model.DictionaryEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DictionaryEntry), args.Error(1)
}

func (m *MockDictionaryService) Update(ctx context.Context, id string, revisedOn bjtime.Date, entries []model.DictionaryEntry) (*model.Dictionary, error) {
	args := m.Called(ctx, id, revisedOn, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dictionary), args.Error(1)
}

func (m *MockDictionaryService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
