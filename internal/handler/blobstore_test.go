package handler

import (
	"context"
	"io"
	"sync"

	"github.com/cliptube/cliptube/internal/storage"
)

// fakeBlobStore keeps uploads in memory for end-to-end handler tests.
type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (b *fakeBlobStore) Upload(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return "https://blobs.test/" + key, nil
}

func (b *fakeBlobStore) Delete(_ context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, url)
	return nil
}

var _ storage.BlobStore = (*fakeBlobStore)(nil)
