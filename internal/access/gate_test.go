package access

import (
	"context"
	"errors"
	"testing"

	"github.com/classworks/classbot/internal/storage"
)

type fakeDirectory struct {
	users     map[int64]storage.User
	blocked   map[int64]bool
	regErr    error
	registers int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users:   make(map[int64]storage.User),
		blocked: make(map[int64]bool),
	}
}

func (d *fakeDirectory) Register(_ context.Context, u storage.User) error {
	if d.regErr != nil {
		return d.regErr
	}
	d.registers++
	if _, ok := d.users[u.ID]; !ok {
		d.users[u.ID] = u
	}
	return nil
}

func (d *fakeDirectory) IsBlocked(_ context.Context, id int64) (bool, error) {
	if _, ok := d.users[id]; !ok {
		return false, storage.ErrNotRegistered
	}
	return d.blocked[id], nil
}

func TestIsAdmin(t *testing.T) {
	gate := NewGate([]int64{42, 99}, newFakeDirectory())
	if !gate.IsAdmin(42) {
		t.Error("expected 42 to be admin")
	}
	if gate.IsAdmin(7) {
		t.Error("expected 7 not to be admin")
	}
}

func TestCanReceiveFilesRegistersFirstContact(t *testing.T) {
	dir := newFakeDirectory()
	gate := NewGate(nil, dir)

	ok, err := gate.CanReceiveFiles(context.Background(), Identity{ID: 7, FirstName: "Ada"})
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	if !ok {
		t.Error("first-ever contact should be allowed")
	}
	if dir.registers != 1 {
		t.Errorf("registers = %d, expected 1", dir.registers)
	}
}

func TestCanReceiveFilesDeniesBlocked(t *testing.T) {
	dir := newFakeDirectory()
	dir.users[7] = storage.User{ID: 7}
	dir.blocked[7] = true
	gate := NewGate(nil, dir)

	ok, err := gate.CanReceiveFiles(context.Background(), Identity{ID: 7})
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	if ok {
		t.Error("blocked identity must be denied")
	}
}

func TestCanReceiveFilesPropagatesStoreFailure(t *testing.T) {
	dir := newFakeDirectory()
	dir.regErr = storage.ErrStoreUnavailable
	gate := NewGate(nil, dir)

	ok, err := gate.CanReceiveFiles(context.Background(), Identity{ID: 7})
	if !errors.Is(err, storage.ErrStoreUnavailable) {
		t.Fatalf("err = %v, expected store unavailable", err)
	}
	if ok {
		t.Error("access must not be granted on store failure")
	}
}
