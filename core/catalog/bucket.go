package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"improved-initiative/core/library"
	"improved-initiative/core/storage"

	"github.com/minio/minio-go/v7"
)

// BucketSource reads the catalog from object storage.
type BucketSource struct {
	client storage.Client
	bucket string
}

// NewBucketSource creates a BucketSource.
func NewBucketSource(client storage.Client, bucket string) *BucketSource {
	return &BucketSource{client: client, bucket: bucket}
}

func (s *BucketSource) FetchCatalog(ctx context.Context, catalogPath string) ([]library.ListingMeta, error) {
	body, err := s.read(ctx, IndexKey(catalogPath))
	if storage.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog index %s: %w", catalogPath, err)
	}
	var metas []library.ListingMeta
	if err := json.Unmarshal(body, &metas); err != nil {
		return nil, fmt.Errorf("failed to decode catalog index %s: %w", catalogPath, err)
	}
	return metas, nil
}

func (s *BucketSource) Fetch(ctx context.Context, link, id string) ([]byte, error) {
	body, err := s.read(ctx, ItemKey(link, id))
	if storage.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %s%s", ErrNotFound, link, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog item %s%s: %w", link, id, err)
	}
	return body, nil
}

// read loads a whole object. MinIO reports a missing key on first read, not on open.
func (s *BucketSource) read(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}
