package service

import (
	"context"

	"github.com/classworks/classbot/internal/logger"
	"github.com/classworks/classbot/internal/storage"
	"log/slog"
)

// UserStore is the directory contract the user service depends on.
type UserStore interface {
	EnsureRegistered(ctx context.Context, u storage.User) error
	IsBlocked(ctx context.Context, id int64) (bool, error)
	AllIDs(ctx context.Context) ([]int64, error)
}

// Users wraps the roster repository with service-level logging.
type Users struct {
	store UserStore
}

// NewUsers builds the user service.
func NewUsers(store UserStore) *Users {
	return &Users{store: store}
}

// Register records a first-contact identity. Repeat calls are no-ops and
// keep the fields from the first registration.
func (s *Users) Register(ctx context.Context, u storage.User) error {
	if err := s.store.EnsureRegistered(ctx, u); err != nil {
		logger.Error(ctx, "service.users", "register",
			slog.String("status", "fail"),
			slog.Int64("user_id", u.ID),
			slog.String("err", err.Error()),
		)
		return err
	}
	logger.Debug(ctx, "service.users", "register",
		slog.String("status", "ok"),
		slog.Int64("user_id", u.ID),
	)
	return nil
}

// IsBlocked reads the blocked flag fresh from the store.
func (s *Users) IsBlocked(ctx context.Context, id int64) (bool, error) {
	blocked, err := s.store.IsBlocked(ctx, id)
	if err != nil {
		logger.Error(ctx, "service.users", "blocked.check",
			slog.String("status", "fail"),
			slog.Int64("user_id", id),
			slog.String("err", err.Error()),
		)
		return false, err
	}
	return blocked, nil
}

// AllIDs returns a snapshot of every known, non-blocked identity.
func (s *Users) AllIDs(ctx context.Context) ([]int64, error) {
	ids, err := s.store.AllIDs(ctx)
	if err != nil {
		logger.Error(ctx, "service.users", "roster.snapshot",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return nil, err
	}
	logger.Debug(ctx, "service.users", "roster.snapshot",
		slog.String("status", "ok"),
		slog.Int("count", len(ids)),
	)
	return ids, nil
}
