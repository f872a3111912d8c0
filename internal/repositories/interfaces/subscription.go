package interfaces

import "errors"

var (
	ErrNotFound = errors.New("record not found")

	// ErrInvalidRecord marks a stored record whose fields cannot be decoded.
	ErrInvalidRecord = errors.New("invalid record")
)

// Snapshot is one decoded delivery of a live collection. Records that could
// not be decoded are left out and counted in Skipped.
type Snapshot[T any] struct {
	Items   []T
	Skipped int
}

// Subscription streams snapshots until Stop is called or the source fails.
// Updates is closed in both cases; Err tells them apart.
type Subscription[T any] interface {
	Updates() <-chan Snapshot[T]
	Err() error
	Stop()
}
