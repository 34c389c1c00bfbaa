package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"searchapi/internal/bjtime"
	"searchapi/internal/model"
	"searchapi/internal/repository"
)

// DictionaryPostgres is a PostgreSQL implementation of repository.DictionaryRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DictionaryPostgres struct {
	db *sql.DB
}

// NewDictionaryPostgres creates a new DictionaryPostgres repository.
func NewDictionaryPostgres(db *sql.DB) *DictionaryPostgres {
	return &DictionaryPostgres{db: db}
}

var _ repository.DictionaryRepository = (*DictionaryPostgres)(nil)

const dictionaryColumns = `
	d.id, d.name, d.revised_on,
	(SELECT COUNT(*) FROM dictionary_entries e WHERE e.dictionary_id = d.id) AS entry_count,
	d.created_at, d.updated_at
`

func scanDictionary(row *sql.Row) (*model.Dictionary, error) {
	var d model.Dictionary
	if err := row.Scan(
		&d.ID,
		&d.Name,
		&d.RevisedOn,
		&d.EntryCount,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new dictionary row and its entries in a single transaction.
func (r *DictionaryPostgres) Create(ctx context.Context, dict *model.Dictionary, entries []model.DictionaryEntry) (*model.Dictionary, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO dictionaries (id, name, revised_on, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, revised_on, created_at, updated_at
	`
	var out model.Dictionary
	row := tx.QueryRowContext(ctx, q,
		dict.ID,
		dict.Name,
		dict.RevisedOn,
		dict.CreatedAt,
		dict.UpdatedAt,
	)
	if err := row.Scan(
		&out.ID,
		&out.Name,
		&out.RevisedOn,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := insertEntries(ctx, tx, out.ID, entries); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	out.EntryCount = len(entries)
	return &out, nil
}

// FindByID fetches a single dictionary by its ID.
func (r *DictionaryPostgres) FindByID(ctx context.Context, id string) (*model.Dictionary, error) {
	q := fmt.Sprintf(`SELECT %s FROM dictionaries d WHERE d.id = $1`, dictionaryColumns)
	return scanDictionary(r.db.QueryRowContext(ctx, q, id))
}

// FindByName fetches a single dictionary by its unique name.
func (r *DictionaryPostgres) FindByName(ctx context.Context, name string) (*model.Dictionary, error) {
	q := fmt.Sprintf(`SELECT %s FROM dictionaries d WHERE d.name = $1`, dictionaryColumns)
	return scanDictionary(r.db.QueryRowContext(ctx, q, name))
}

// ListEntries returns the entries of a dictionary ordered by position.
func (r *DictionaryPostgres) ListEntries(ctx context.Context, id string) ([]model.DictionaryEntry, error) {
	const q = `
		SELECT keyword, name
		FROM dictionary_entries
		WHERE dictionary_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]model.DictionaryEntry, 0)
	for rows.Next() {
		var e model.DictionaryEntry
		if err := rows.Scan(&e.Keyword, &e.Name); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ReplaceEntries swaps the entry set of a dictionary in a single transaction
// and bumps revised_on and updated_at.
func (r *DictionaryPostgres) ReplaceEntries(ctx context.Context, id string, revisedOn bjtime.Date, entries []model.DictionaryEntry) (*model.Dictionary, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const qUpdate = `
		UPDATE dictionaries
		SET revised_on = $2, updated_at = $3
		WHERE id = $1
		RETURNING id, name, revised_on, created_at, updated_at
	`
	var out model.Dictionary
	row := tx.QueryRowContext(ctx, qUpdate, id, revisedOn, time.Now().UTC())
	if err := row.Scan(
		&out.ID,
		&out.Name,
		&out.RevisedOn,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return nil, err
	}

	const qDelete = `DELETE FROM dictionary_entries WHERE dictionary_id = $1`
	if _, err := tx.ExecContext(ctx, qDelete, id); err != nil {
		return nil, err
	}

	if err := insertEntries(ctx, tx, id, entries); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	out.EntryCount = len(entries)
	return &out, nil
}

// List returns dictionaries using LIMIT/OFFSET pagination and a total count.
func (r *DictionaryPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Dictionary], error) {
	// Count total rows
	const qCount = `SELECT COUNT(*) FROM dictionaries`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	qList := fmt.Sprintf(`
		SELECT %s
		FROM dictionaries d
		ORDER BY d.created_at DESC, d.id DESC
		LIMIT $1 OFFSET $2
	`, dictionaryColumns)
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Dictionary, 0)
	for rows.Next() {
		var d model.Dictionary
		if err := rows.Scan(
			&d.ID,
			&d.Name,
			&d.RevisedOn,
			&d.EntryCount,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Dictionary]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a dictionary by ID. Entries go with it via ON DELETE CASCADE.
// It does not return an error if the row does not exist.
func (r *DictionaryPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM dictionaries WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	// Ignore rows affected to keep behavior simple per requirement (no business logic).
	_, _ = res.RowsAffected()
	return nil
}

func insertEntries(ctx context.Context, tx *sql.Tx, dictionaryID string, entries []model.DictionaryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	const q = `
		INSERT INTO dictionary_entries (dictionary_id, position, keyword, name)
		VALUES ($1, $2, $3, $4)
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, dictionaryID, i, e.Keyword, e.Name); err != nil {
			return err
		}
	}
	return nil
}
