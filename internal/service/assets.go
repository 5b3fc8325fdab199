package service

import (
	"context"

	"github.com/classworks/classbot/internal/logger"
	"github.com/classworks/classbot/internal/storage"
	"log/slog"
)

// AssetStore is the persistence contract the asset service depends on.
type AssetStore interface {
	ListRecent(ctx context.Context) ([]storage.Asset, error)
	Get(ctx context.Context, id int64) (storage.Asset, error)
	Create(ctx context.Context, title, fileID string, uploadedBy int64) (storage.Asset, error)
}

// Assets wraps the asset repository with service-level logging.
type Assets struct {
	store AssetStore
}

// NewAssets builds the asset service.
func NewAssets(store AssetStore) *Assets {
	return &Assets{store: store}
}

// ListRecent returns all assets, newest first.
func (s *Assets) ListRecent(ctx context.Context) ([]storage.Asset, error) {
	assets, err := s.store.ListRecent(ctx)
	if err != nil {
		logger.Error(ctx, "service.assets", "list",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return nil, err
	}
	logger.Debug(ctx, "service.assets", "list",
		slog.String("status", "ok"),
		slog.Int("count", len(assets)),
	)
	return assets, nil
}

// Get fetches one asset by id.
func (s *Assets) Get(ctx context.Context, id int64) (storage.Asset, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		logger.Error(ctx, "service.assets", "get",
			slog.String("status", "fail"),
			slog.Int64("asset_id", id),
			slog.String("err", err.Error()),
		)
		return storage.Asset{}, err
	}
	return a, nil
}

// Create persists a new write-once asset record.
func (s *Assets) Create(ctx context.Context, title, fileID string, uploadedBy int64) (storage.Asset, error) {
	a, err := s.store.Create(ctx, title, fileID, uploadedBy)
	if err != nil {
		logger.Error(ctx, "service.assets", "create",
			slog.String("status", "fail"),
			slog.Int64("user_id", uploadedBy),
			slog.String("title", logger.SanitizeLimit(title, 128)),
			slog.String("err", err.Error()),
		)
		return storage.Asset{}, err
	}
	logger.Info(ctx, "service.assets", "create",
		slog.String("status", "ok"),
		slog.Int64("asset_id", a.ID),
		slog.Int64("user_id", uploadedBy),
		slog.String("title", logger.SanitizeLimit(title, 128)),
	)
	return a, nil
}
