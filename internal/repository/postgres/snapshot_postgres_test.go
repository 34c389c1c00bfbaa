package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"searchapi/internal/model"
	"searchapi/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestSnapshotPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSnapshotPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	dictID := "dict-uuid"
	snap := &model.Snapshot{
		ID:           "snap-uuid",
		DictionaryID: &dictID,
		KeywordCount: 4,
		NodeCount:    11,
		StoragePath:  "snapshots/snap-uuid.json",
		Size:         512,
		CreatedAt:    now,
	}

	rows := sqlmock.NewRows([]string{"id", "dictionary_id", "keyword_count", "node_count", "storage_path", "size", "created_at"}).
		AddRow(snap.ID, dictID, snap.KeywordCount, snap.NodeCount, snap.StoragePath, snap.Size, snap.CreatedAt)

	mock.ExpectQuery("INSERT INTO snapshots").
		WithArgs(snap.ID, snap.DictionaryID, snap.KeywordCount, snap.NodeCount, snap.StoragePath, snap.Size, snap.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, snap)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, snap.ID, result.ID)
	assert.NotNil(t, result.DictionaryID)
	assert.Equal(t, dictID, *result.DictionaryID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSnapshotPostgres(db)
	ctx := context.Background()

	t.Run("found without dictionary", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "dictionary_id", "keyword_count", "node_count", "storage_path", "size", "created_at"}).
			AddRow("snap-id", nil, 2, 5, "snapshots/snap-id.json", 128, time.Now())

		mock.ExpectQuery("SELECT (.+) FROM snapshots WHERE id = ?").
			WithArgs("snap-id").
			WillReturnRows(rows)

		snap, err := repo.FindByID(ctx, "snap-id")

		assert.NoError(t, err)
		assert.NotNil(t, snap)
		assert.Equal(t, "snap-id", snap.ID)
		assert.Nil(t, snap.DictionaryID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM snapshots WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		snap, err := repo.FindByID(ctx, "missing")

		assert.Error(t, err)
		assert.True(t, IsNoRowsError(err))
		assert.Nil(t, snap)
	})
}

func TestSnapshotPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSnapshotPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM snapshots").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows([]string{"id", "dictionary_id", "keyword_count", "node_count", "storage_path", "size", "created_at"}).
		AddRow("snap-id", nil, 2, 5, "snapshots/snap-id.json", 128, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM snapshots ORDER BY").
		WithArgs(10, 0).
		WillReturnRows(rows)

	res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
}

func TestSnapshotPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewSnapshotPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM snapshots WHERE id = ?").
		WithArgs("snap-id").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(ctx, "snap-id")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
