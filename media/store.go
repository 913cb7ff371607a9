// Package media stores uploaded images on local disk, S3 or Google Cloud Storage.
package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store persists objects by key. Keys use forward slashes, e.g. images/2024-01-31/abc.jpg.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Options selects and configures a backend.
type Options struct {
	Backend   string // local, s3 or gcs
	Root      string // local media root
	Bucket    string
	PublicURL string
	Region    string
}

// Open builds the store named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", "local":
		return NewLocalStore(opts.Root, opts.PublicURL), nil
	case "s3":
		return NewS3Store(ctx, opts.Region, opts.Bucket, opts.PublicURL)
	case "gcs":
		return NewGCSStore(ctx, opts.Bucket, opts.PublicURL)
	default:
		return nil, fmt.Errorf("unknown media backend %q", opts.Backend)
	}
}

// LocalStore writes objects under a directory that is also served as static files.
type LocalStore struct {
	root      string
	publicURL string
}

func NewLocalStore(root, publicURL string) *LocalStore {
	return &LocalStore{root: root, publicURL: strings.TrimRight(publicURL, "/")}
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *LocalStore) Put(_ context.Context, key, _ string, r io.Reader) error {
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create media directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create media file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write media file: %w", err)
	}
	return f.Close()
}

// Delete removes the file. A missing file is not an error.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalStore) URL(key string) string {
	return s.publicURL + "/" + key
}
