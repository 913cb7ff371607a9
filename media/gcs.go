package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"
)

type GCSStore struct {
	client    *gcs.Client
	bucket    string
	publicURL string
}

func NewGCSStore(ctx context.Context, bucket, publicURL string) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs media backend requires MEDIA_BUCKET")
	}
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if publicURL == "" || strings.HasPrefix(publicURL, "/") {
		publicURL = "https://storage.googleapis.com/" + bucket
	}
	return &GCSStore{client: c, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (s *GCSStore) Close() error { return s.client.Close() }

func (s *GCSStore) Put(ctx context.Context, key, contentType string, r io.Reader) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (s *GCSStore) URL(key string) string {
	return s.publicURL + "/" + key
}
