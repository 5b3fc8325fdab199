package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// Asset is a persisted assignment file record. Rows are write-once; the
// file content itself stays with Telegram, referenced by FileID.
type Asset struct {
	ID         int64     `db:"id"`
	Title      string    `db:"title"`
	FileID     string    `db:"file_id"`
	UploadedBy int64     `db:"uploaded_by"`
	CreatedAt  time.Time `db:"created_at"`
}

// AssetRepo persists assignment records in Postgres.
type AssetRepo struct {
	db *sqlx.DB
}

// NewAssetRepo builds a repository on the shared pool.
func NewAssetRepo(db *sqlx.DB) *AssetRepo {
	return &AssetRepo{db: db}
}

// ListRecent returns all assets ordered by creation time, newest first.
// An empty roster yields an empty slice, not an error.
func (r *AssetRepo) ListRecent(ctx context.Context) ([]Asset, error) {
	var assets []Asset
	if err := r.db.SelectContext(ctx, &assets,
		`SELECT id, title, file_id, uploaded_by, created_at
		 FROM assets ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, wrapStore("assets.list", err)
	}
	return assets, nil
}

// Get fetches a single asset by id.
func (r *AssetRepo) Get(ctx context.Context, id int64) (Asset, error) {
	var a Asset
	err := r.db.GetContext(ctx, &a,
		`SELECT id, title, file_id, uploaded_by, created_at
		 FROM assets WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Asset{}, ErrNotFound
	}
	if err != nil {
		return Asset{}, wrapStore("assets.get", err)
	}
	return a, nil
}

// Create inserts a new asset and returns the stored record with its
// assigned id and UTC creation time.
func (r *AssetRepo) Create(ctx context.Context, title, fileID string, uploadedBy int64) (Asset, error) {
	a := Asset{
		Title:      title,
		FileID:     fileID,
		UploadedBy: uploadedBy,
		CreatedAt:  time.Now().UTC(),
	}
	if err := r.db.GetContext(ctx, &a.ID,
		`INSERT INTO assets (title, file_id, uploaded_by, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		a.Title, a.FileID, a.UploadedBy, a.CreatedAt); err != nil {
		return Asset{}, wrapStore("assets.create", err)
	}
	return a, nil
}
