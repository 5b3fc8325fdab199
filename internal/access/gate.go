// Package access decides whether an identity may perform admin actions or
// receive files. Admin membership comes from the startup allow-list and is
// immutable at runtime; the blocked flag is consulted fresh on every call.
package access

import (
	"context"

	"github.com/classworks/classbot/internal/storage"
)

// Directory is the roster contract the gate depends on.
type Directory interface {
	Register(ctx context.Context, u storage.User) error
	IsBlocked(ctx context.Context, id int64) (bool, error)
}

// Identity carries the transport-level fields needed to register a user.
type Identity struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

// Gate performs authorization checks.
type Gate struct {
	admins map[int64]struct{}
	users  Directory
}

// NewGate builds a gate from the fixed admin allow-list.
func NewGate(adminIDs []int64, users Directory) *Gate {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Gate{admins: admins, users: users}
}

// IsAdmin reports allow-list membership.
func (g *Gate) IsAdmin(id int64) bool {
	_, ok := g.admins[id]
	return ok
}

// CanReceiveFiles reports whether the identity may receive documents.
// The identity is registered first, then the blocked flag is checked, so a
// first-ever contact is allowed (blocked defaults to false). A store failure
// is returned to the caller; access is not granted on error.
func (g *Gate) CanReceiveFiles(ctx context.Context, id Identity) (bool, error) {
	if err := g.users.Register(ctx, storage.User{
		ID:        id.ID,
		FirstName: id.FirstName,
		LastName:  id.LastName,
		Username:  id.Username,
	}); err != nil {
		return false, err
	}
	blocked, err := g.users.IsBlocked(ctx, id.ID)
	if err != nil {
		return false, err
	}
	return !blocked, nil
}
