package testutil

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// FakeObjectStore is an in-memory object store for tests. Uploads and
// deletes are recorded, and either can be made to fail.
type FakeObjectStore struct {
	mu sync.Mutex

	objects map[string][]byte

	UploadErr  error // next Upload returns this error
	DeleteFail bool  // Delete reports failure without removing the blob

	Uploads []string // keys passed to Upload, in order
	Deletes []string // keys passed to Delete, in order
}

// NewFakeObjectStore creates an empty fake object store.
func NewFakeObjectStore() *FakeObjectStore {
	return &FakeObjectStore{objects: map[string][]byte{}}
}

// Upload stores the blob in memory and returns a fake URL for the key.
func (f *FakeObjectStore) Upload(_ context.Context, key string, body io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Uploads = append(f.Uploads, key)
	if f.UploadErr != nil {
		return "", f.UploadErr
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.objects[key] = data
	return fmt.Sprintf("https://fake-bucket.s3.test.amazonaws.com/%s", key), nil
}

// Delete removes the blob and reports whether the removal succeeded.
func (f *FakeObjectStore) Delete(_ context.Context, key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Deletes = append(f.Deletes, key)
	if f.DeleteFail {
		return false
	}
	delete(f.objects, key)
	return true
}

// Has reports whether a blob exists under the given key.
func (f *FakeObjectStore) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

// Count returns the number of stored blobs.
func (f *FakeObjectStore) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}
