package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps one JSON file per key under <root>/<bucket>/. Writes go
// through a temp file plus rename so readers never observe partial content.
type FileStore struct {
	root string

	// mu serializes Clear and Walk against each other; individual reads
	// and writes need no lock because renames are atomic.
	mu sync.Mutex
}

// NewFileStore creates the bucket directories under root if needed.
func NewFileStore(root string) (*FileStore, error) {
	for _, b := range Buckets {
		if err := os.MkdirAll(filepath.Join(root, string(b)), 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	return &FileStore{root: root}, nil
}

// path resolves the storage path for a sanitized key and re-checks that it
// stays inside the store root.
func (s *FileStore) path(bucket Bucket, key string) (string, error) {
	p := filepath.Join(s.root, string(bucket), key+".json")
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes cache root", ErrInvalidKey, key)
	}
	return p, nil
}

func (s *FileStore) Read(_ context.Context, bucket Bucket, key string) ([]byte, error) {
	p, err := s.path(bucket, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoEntry
	}
	if err != nil {
		return nil, fmt.Errorf("reading cache entry: %w", err)
	}
	return data, nil
}

func (s *FileStore) Write(_ context.Context, bucket Bucket, key string, data []byte) error {
	p, err := s.path(bucket, key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing temp cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publishing cache entry: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, bucket Bucket, key string) error {
	p, err := s.path(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing cache entry: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, b := range Buckets {
		dir := filepath.Join(s.root, string(b))
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("listing cache directory: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			if err := os.Remove(filepath.Join(dir, e.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

func (s *FileStore) Walk(_ context.Context, fn func(bucket Bucket, key string, size int64, data []byte) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range Buckets {
		dir := filepath.Join(s.root, string(b))
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("listing cache directory: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				// Entry vanished between ReadDir and ReadFile.
				continue
			}
			key := strings.TrimSuffix(e.Name(), ".json")
			if err := fn(b, key, int64(len(data)), data); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
