package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"searchapi/internal/bjtime"
	"searchapi/internal/model"
	"searchapi/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestDictionaryPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDictionaryPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	revised := bjtime.NewDate(2024, 3, 15)
	dict := &model.Dictionary{
		ID:        "test-uuid",
		Name:      "blocked-terms",
		RevisedOn: revised,
		CreatedAt: now,
		UpdatedAt: now,
	}
	entries := []model.DictionaryEntry{
		{Keyword: "abc", Name: "alpha"},
		{Keyword: "bc", Name: ""},
	}

	mock.ExpectBegin()
	rows := sqlmock.NewRows([]string{"id", "name", "revised_on", "created_at", "updated_at"}).
		AddRow(dict.ID, dict.Name, revised.Time(), now, now)
	mock.ExpectQuery("INSERT INTO dictionaries").
		WithArgs(dict.ID, dict.Name, dict.RevisedOn, dict.CreatedAt, dict.UpdatedAt).
		WillReturnRows(rows)
	prep := mock.ExpectPrepare("INSERT INTO dictionary_entries")
	prep.ExpectExec().WithArgs(dict.ID, 0, "abc", "alpha").WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs(dict.ID, 1, "bc", "").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.Create(ctx, dict, entries)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, dict.ID, result.ID)
	assert.Equal(t, 2, result.EntryCount)
	assert.True(t, result.RevisedOn.Equal(revised))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDictionaryPostgres_CreateEmptyEntries(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDictionaryPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	dict := &model.Dictionary{ID: "test-uuid", Name: "empty", CreatedAt: now, UpdatedAt: now}

	mock.ExpectBegin()
	rows := sqlmock.NewRows([]string{"id", "name", "revised_on", "created_at", "updated_at"}).
		AddRow(dict.ID, dict.Name, nil, now, now)
	mock.ExpectQuery("INSERT INTO dictionaries").
		WithArgs(dict.ID, dict.Name, dict.RevisedOn, dict.CreatedAt, dict.UpdatedAt).
		WillReturnRows(rows)
	mock.ExpectCommit()

	result, err := repo.Create(ctx, dict, nil)

	assert.NoError(t, err)
	assert.Equal(t, 0, result.EntryCount)
	assert.True(t, result.RevisedOn.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDictionaryPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDictionaryPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "revised_on", "entry_count", "created_at", "updated_at"}).
			AddRow("test-id", "blocked-terms", nil, 3, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM dictionaries d WHERE d.id = ?").
			WithArgs("test-id").
			WillReturnRows(rows)

		dict, err := repo.FindByID(ctx, "test-id")

		assert.NoError(t, err)
		assert.NotNil(t, dict)
		assert.Equal(t, "test-id", dict.ID)
		assert.Equal(t, 3, dict.EntryCount)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM dictionaries d WHERE d.id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		dict, err := repo.FindByID(ctx, "missing")

		assert.Error(t, err)
		assert.True(t, IsNoRowsError(err))
		assert.Nil(t, dict)
	})
}

func TestDictionaryPostgres_FindByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDictionaryPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "name", "revised_on", "entry_count", "created_at", "updated_at"}).
		AddRow("test-id", "blocked-terms", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), 3, time.Now(), time.Now())

	mock.ExpectQuery("SELECT (.+) FROM dictionaries d WHERE d.name = ?").
		WithArgs("blocked-terms").
		WillReturnRows(rows)

	dict, err := repo.FindByName(ctx, "blocked-terms")

	assert.NoError(t, err)
	assert.Equal(t, "test-id", dict.ID)
	assert.Equal(t, "2024-03-15", dict.RevisedOn.String())
}

func TestDictionaryPostgres_ListEntries(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDictionaryPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"keyword", "name"}).
		AddRow("abc", "alpha").
		AddRow("bc", "")

	mock.ExpectQuery("SELECT keyword, name FROM dictionary_entries").
		WithArgs("test-id").
		WillReturnRows(rows)

	entries, err := repo.ListEntries(ctx, "test-id")

	assert.NoError(t, err)
	assert.Equal(t, []model.DictionaryEntry{
		{Keyword: "abc", Name: "alpha"},
		{Keyword: "bc", Name: ""},
	}, entries)
}

func TestDictionaryPostgres_ReplaceEntries(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDictionaryPostgres(db)
	ctx := context.Background()

	revised := bjtime.NewDate(2024, 4, 1)
	now := time.Now().UTC()

	mock.ExpectBegin()
	rows := sqlmock.NewRows([]string{"id", "name", "revised_on", "created_at", "updated_at"}).
		AddRow("test-id", "blocked-terms", revised.Time(), now, now)
	mock.ExpectQuery("UPDATE dictionaries").
		WithArgs("test-id", revised, sqlmock.AnyArg()).
		WillReturnRows(rows)
	mock.ExpectExec("DELETE FROM dictionary_entries").
		WithArgs("test-id").
		WillReturnResult(sqlmock.NewResult(0, 2))
	prep := mock.ExpectPrepare("INSERT INTO dictionary_entries")
	prep.ExpectExec().WithArgs("test-id", 0, "x", "").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.ReplaceEntries(ctx, "test-id", revised, []model.DictionaryEntry{{Keyword: "x"}})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.EntryCount)
	assert.Equal(t, "2024-04-01", result.RevisedOn.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDictionaryPostgres_ReplaceEntriesMissingDictionary(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDictionaryPostgres(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE dictionaries").
		WithArgs("missing", bjtime.Date{}, sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	result, err := repo.ReplaceEntries(ctx, "missing", bjtime.Date{}, nil)

	assert.Error(t, err)
	assert.True(t, IsNoRowsError(err))
	assert.Nil(t, result)
}

func TestDictionaryPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDictionaryPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM dictionaries").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows([]string{"id", "name", "revised_on", "entry_count", "created_at", "updated_at"}).
			AddRow("test-id", "blocked-terms", nil, 2, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM dictionaries d ORDER BY").
			WithArgs(10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
	})
}

func TestDictionaryPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDictionaryPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM dictionaries WHERE id = ?").
		WithArgs("test-id").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(ctx, "test-id")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func IsNoRowsError(err error) bool {
	return err == sql.ErrNoRows
}
