// Package storage keeps uploaded news images either on local disk or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
)

var (
	ErrInvalidKey = errors.New("invalid object key")
	ErrNotFound   = errors.New("object not found")
)

// ObjectStore is the minimal surface the upload and cleanup paths need.
type ObjectStore interface {
	// Put stores body under key and returns the object's public URL.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL recovers the key from a URL previously returned by Put.
	KeyFromURL(url string) (string, bool)
}

// ValidateKey accepts flat object names only.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}

// keyAfter returns what follows "/<segment>/" in rawURL, minus any query.
func keyAfter(rawURL, segment string) (string, bool) {
	marker := "/" + strings.Trim(segment, "/") + "/"
	idx := strings.LastIndex(rawURL, marker)
	if idx < 0 {
		return "", false
	}
	key := rawURL[idx+len(marker):]
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if ValidateKey(key) != nil {
		return "", false
	}
	return key, true
}
