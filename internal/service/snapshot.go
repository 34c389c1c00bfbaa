package service

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"searchapi/internal/apperrors"
	"searchapi/internal/model"
	"searchapi/internal/repository"
	"searchapi/internal/storage"
)

const defaultPresignExpiry = 15 * time.Minute

// SnapshotListResult is the service-level DTO for paginated snapshots.
type SnapshotListResult struct {
	Items []model.Snapshot `json:"data"`
	Total int              `json:"total"`
}

// SnapshotService defines the use cases for handling snapshot objects and
// their metadata rows.
type SnapshotService interface {
	// Save uploads an encoded automaton to object storage, saves metadata to DB,
	// and rolls back storage if DB save fails.
	Save(ctx context.Context, payload []byte, dictionaryID *string, keywordCount, nodeCount int) (*model.Snapshot, error)

	// Load returns snapshot metadata together with the payload bytes.
	Load(ctx context.Context, id string) (*model.Snapshot, []byte, error)

	// List returns snapshots using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*SnapshotListResult, error)

	// Get returns a single snapshot by its ID.
	Get(ctx context.Context, id string) (*model.Snapshot, error)

	// Delete removes a snapshot by ID from both storage and repository.
	Delete(ctx context.Context, id string) error

	// PresignDownload returns a time-limited URL for the snapshot object.
	// expiry <= 0 falls back to a 15 minute default.
	PresignDownload(ctx context.Context, id string, expiry time.Duration) (string, error)
}

// snapshotService is a concrete implementation of SnapshotService.
type snapshotService struct {
	store storage.Storage
	repo  repository.SnapshotRepository
}

// NewSnapshotService constructs a new SnapshotService.
func NewSnapshotService(store storage.Storage, repo repository.SnapshotRepository) SnapshotService {
	return &snapshotService{store: store, repo: repo}
}

func (s *snapshotService) Save(ctx context.Context, payload []byte, dictionaryID *string, keywordCount, nodeCount int) (*model.Snapshot, error) {
	if len(payload) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "snapshot payload is empty")
	}

	id := uuid.New().String()
	key := filepath.ToSlash(filepath.Join("snapshots", id+".json"))

	objInfo, err := s.store.Put(ctx, key, bytes.NewReader(payload), storage.PutObjectOptions{
		Size:        int64(len(payload)),
		ContentType: "application/json",
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, err, "upload snapshot")
	}

	snap := &model.Snapshot{
		ID:           id,
		DictionaryID: dictionaryID,
		KeywordCount: keywordCount,
		NodeCount:    nodeCount,
		StoragePath:  objInfo.Key,
		Size:         objInfo.Size,
		CreatedAt:    time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, snap)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabase, err,
				"db save failed (rollback delete failed: %v)", delErr)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabase, err, "db save failed")
	}
	return stored, nil
}

func (s *snapshotService) Load(ctx context.Context, id string) (*model.Snapshot, []byte, error) {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, _, err := s.store.Get(ctx, snap.StoragePath)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeStorage, err, "fetch snapshot %s", id)
	}
	defer rc.Close()

	payload, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeStorage, err, "read snapshot %s", id)
	}
	return snap, payload, nil
}

// List returns paginated snapshots without exposing repository types.
func (s *snapshotService) List(ctx context.Context, limit, offset int) (*SnapshotListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabase, err, "list snapshots")
	}
	return &SnapshotListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *snapshotService) Get(ctx context.Context, id string) (*model.Snapshot, error) {
	if id == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "id is required")
	}
	snap, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.New(apperrors.CodeSnapshotNotFound, "snapshot %s not found", id)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabase, err, "find snapshot")
	}
	return snap, nil
}

// Delete removes the object from storage first, then deletes its record.
func (s *snapshotService) Delete(ctx context.Context, id string) error {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	// Delete from storage first; if this fails, keep DB row to avoid losing the object reference
	if err := s.store.Delete(ctx, snap.StoragePath); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, err, "delete snapshot object")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap(apperrors.CodeDatabase, err, "delete snapshot row")
	}
	return nil
}

func (s *snapshotService) PresignDownload(ctx context.Context, id string, expiry time.Duration) (string, error) {
	snap, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}
	u, err := s.store.PresignGet(ctx, snap.StoragePath, expiry)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeStorage, err, "presign snapshot %s", id)
	}
	return u, nil
}
