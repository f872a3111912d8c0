package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// LocalStorage builds plain links under a base URL. It is meant for
// development, where documents are served by a static file server.
type LocalStorage struct {
	baseURL string
}

func NewLocalStorage(baseURL string) *LocalStorage {
	return &LocalStorage{baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *LocalStorage) GetURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	if key == "" {
		return "", ErrObjectNotFound
	}
	segments := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/%s", l.baseURL, strings.Join(segments, "/")), nil
}

func (l *LocalStorage) FileExists(ctx context.Context, key string) (bool, error) {
	return key != "", nil
}
