package postgres

import (
	"context"
	"database/sql"

	"searchapi/internal/model"
	"searchapi/internal/repository"
)

// SnapshotPostgres is a PostgreSQL implementation of repository.SnapshotRepository.
type SnapshotPostgres struct {
	db *sql.DB
}

// NewSnapshotPostgres creates a new SnapshotPostgres repository.
func NewSnapshotPostgres(db *sql.DB) *SnapshotPostgres {
	return &SnapshotPostgres{db: db}
}

var _ repository.SnapshotRepository = (*SnapshotPostgres)(nil)

// Create inserts a new snapshot row and returns the stored record.
func (r *SnapshotPostgres) Create(ctx context.Context, snap *model.Snapshot) (*model.Snapshot, error) {
	const q = `
		INSERT INTO snapshots (id, dictionary_id, keyword_count, node_count, storage_path, size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, dictionary_id, keyword_count, node_count, storage_path, size, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		snap.ID,
		snap.DictionaryID,
		snap.KeywordCount,
		snap.NodeCount,
		snap.StoragePath,
		snap.Size,
		snap.CreatedAt,
	)
	var out model.Snapshot
	if err := row.Scan(
		&out.ID,
		&out.DictionaryID,
		&out.KeywordCount,
		&out.NodeCount,
		&out.StoragePath,
		&out.Size,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single snapshot by its ID.
func (r *SnapshotPostgres) FindByID(ctx context.Context, id string) (*model.Snapshot, error) {
	const q = `
		SELECT id, dictionary_id, keyword_count, node_count, storage_path, size, created_at
		FROM snapshots
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var s model.Snapshot
	if err := row.Scan(
		&s.ID,
		&s.DictionaryID,
		&s.KeywordCount,
		&s.NodeCount,
		&s.StoragePath,
		&s.Size,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns snapshots using LIMIT/OFFSET pagination and a total count.
func (r *SnapshotPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Snapshot], error) {
	const qCount = `SELECT COUNT(*) FROM snapshots`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, dictionary_id, keyword_count, node_count, storage_path, size, created_at
		FROM snapshots
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Snapshot, 0)
	for rows.Next() {
		var s model.Snapshot
		if err := rows.Scan(
			&s.ID,
			&s.DictionaryID,
			&s.KeywordCount,
			&s.NodeCount,
			&s.StoragePath,
			&s.Size,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Snapshot]{
		Items: items,
		Total: total,
	}, nil
}

// Delete removes a snapshot by ID. It does not return an error if the row does not exist.
func (r *SnapshotPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM snapshots WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
