// Package storage issues time-limited links to objects kept in a bucket,
// such as the licence and registration scans drivers upload.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

type StorageProvider interface {
	GetURL(ctx context.Context, key string, expiration time.Duration) (string, error)
	FileExists(ctx context.Context, key string) (bool, error)
}

// IsURL reports whether a stored document reference is already a full link
// rather than an object key.
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://")
}
