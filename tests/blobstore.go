package testutil

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/trezcool/divyang/core"
)

// BlobStore keeps files in memory and counts calls.
type BlobStore struct {
	mu      sync.Mutex
	Files   map[string][]byte
	Calls   int
	Removed []string

	UploadErr error
	RemoveErr error
}

var _ core.BlobStore = (*BlobStore)(nil)

func NewBlobStore() *BlobStore {
	return &BlobStore{Files: make(map[string][]byte)}
}

func (s *BlobStore) Upload(_ context.Context, path string, content io.Reader, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.UploadErr != nil {
		return s.UploadErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	s.Files[path] = data
	return nil
}

func (s *BlobStore) Download(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	data, ok := s.Files[path]
	if !ok {
		return nil, core.ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *BlobStore) PublicURL(path string) string {
	return "https://blobs.test/" + path
}

func (s *BlobStore) Remove(_ context.Context, paths ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	for _, path := range paths {
		delete(s.Files, path)
		s.Removed = append(s.Removed, path)
	}
	return nil
}

func (s *BlobStore) Has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Files[path]
	return ok
}
