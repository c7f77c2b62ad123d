// Package storage abstracts the receipt blob store. The relational
// database and the blob store share no transaction, so callers are
// responsible for compensating a successful upload when the surrounding
// database work fails.
package storage

import (
	"context"
	"io"
	"strings"
)

// ObjectStore stores and removes receipt blobs.
type ObjectStore interface {
	// Upload writes the blob under key and returns its public URL.
	Upload(ctx context.Context, key string, body io.Reader) (string, error)
	// Delete removes the blob and reports whether the removal succeeded.
	// A false return is not an error to the caller; orphaned blobs are
	// tolerated and harvested out of band.
	Delete(ctx context.Context, key string) bool
}

// KeyFromURL extracts the object key from a stored receipt URL.
// Keys always start with the "receipts/" prefix.
func KeyFromURL(url string) string {
	idx := strings.Index(url, "receipts/")
	if idx < 0 {
		return ""
	}
	return url[idx:]
}
