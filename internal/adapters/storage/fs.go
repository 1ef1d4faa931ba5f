package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"secureeye/pkg/platform/sentinel"
)

// FSStore keeps images on the local filesystem. Development and test
// backend; single-instance only.
type FSStore struct {
	root string
}

// NewFS creates the root directory if needed and returns the store.
func NewFS(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root %s: %w", root, err)
	}
	return &FSStore{root: root}, nil
}

// Put writes the bytes under a fresh uuid key. Write goes to a temp file
// first and is renamed into place so a crash never leaves a readable
// half-written object.
func (s *FSStore) Put(ctx context.Context, data []byte) (ImageRef, error) {
	key := uuid.NewString() + ".png"
	path := filepath.Join(s.root, key)

	tmp, err := os.CreateTemp(s.root, "upload-*")
	if err != nil {
		return ImageRef{}, fmt.Errorf("stage image: %w", sentinel.ErrUnavailable)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return ImageRef{}, fmt.Errorf("write image: %w", sentinel.ErrUnavailable)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return ImageRef{}, fmt.Errorf("close image: %w", sentinel.ErrUnavailable)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return ImageRef{}, fmt.Errorf("commit image: %w", sentinel.ErrUnavailable)
	}

	return ImageRef{Key: key}, nil
}

// Get reads the bytes back by key. Keys are uuid-generated by Put, so a path
// separator in the key means a forged request, not a miss.
func (s *FSStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key != filepath.Base(key) {
		return nil, sentinel.ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.root, key))
	if os.IsNotExist(err) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", key, sentinel.ErrUnavailable)
	}
	return data, nil
}
