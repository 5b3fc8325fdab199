package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// User is a roster entry for a chat identity. Rows are created on first
// contact and never deleted; only the blocked flag is mutated, and that
// happens outside this bot.
type User struct {
	ID        int64     `db:"id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Username  string    `db:"username"`
	Blocked   bool      `db:"blocked"`
	CreatedAt time.Time `db:"created_at"`
}

// UserRepo persists the user roster in Postgres.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo builds a repository on the shared pool.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// EnsureRegistered inserts a roster row for the identity unless one exists.
// Repeat visits keep the fields from the first call; names are deliberately
// not refreshed.
func (r *UserRepo) EnsureRegistered(ctx context.Context, u User) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, u.ID); err != nil {
		return wrapStore("users.exists", err)
	}
	if exists {
		return nil
	}
	// ON CONFLICT DO NOTHING guards the gap between check and insert; it
	// never updates an existing row.
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, first_name, last_name, username)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		u.ID, u.FirstName, u.LastName, u.Username); err != nil {
		return wrapStore("users.insert", err)
	}
	return nil
}

// IsBlocked reports the blocked flag for a registered identity. The flag is
// read from the store on every call; nothing is cached.
func (r *UserRepo) IsBlocked(ctx context.Context, id int64) (bool, error) {
	var blocked bool
	err := r.db.GetContext(ctx, &blocked,
		`SELECT blocked FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotRegistered
	}
	if err != nil {
		return false, wrapStore("users.blocked", err)
	}
	return blocked, nil
}

// AllIDs returns a snapshot of every known, non-blocked identity.
func (r *UserRepo) AllIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids,
		`SELECT id FROM users WHERE NOT blocked ORDER BY id`); err != nil {
		return nil, wrapStore("users.all", err)
	}
	return ids, nil
}

// Count returns the roster size.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, wrapStore("users.count", err)
	}
	return n, nil
}
