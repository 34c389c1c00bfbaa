package mocks

import (
	"context"
	"time"

	"searchapi/internal/model"
	"searchapi/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockSnapshotService struct {
	mock.Mock
}

func (m *MockSnapshotService) Save(ctx context.Context, payload []byte, dictionaryID *string, keywordCount, nodeCount int) (*model.Snapshot, error) {
	args := m.Called(ctx, payload, dictionaryID, keywordCount, nodeCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Snapshot), args.Error(1)
}

func (m *MockSnapshotService) Load(ctx context.Context, id string) (*model.Snapshot, []byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Snapshot), args.Get(1).([]byte), args.Error(2)
}

func (m *MockSnapshotService) List(ctx context.Context, limit, offset int) (*service.SnapshotListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SnapshotListResult), args.Error(1)
}

func (m *MockSnapshotService) Get(ctx context.Context, id string) (*model.Snapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Snapshot), args.Error(1)
}

func (m *MockSnapshotService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSnapshotService) PresignDownload(ctx context.Context, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, id, expiry)
	return args.String(0), args.Error(1)
}
