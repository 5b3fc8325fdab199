package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRegistered indicates the identity has never been seen by the directory.
	ErrNotRegistered = errors.New("user not registered")
	// ErrNotFound indicates an asset lookup miss.
	ErrNotFound = errors.New("asset not found")
	// ErrStoreUnavailable indicates a persistence I/O failure.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// wrapStore tags a driver error with the unavailable kind while keeping the cause.
func wrapStore(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
