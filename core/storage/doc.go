// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so the bundled catalog can live in AWS S3 or a
// self-hosted MinIO instance.
//
// # Client Interface
//
// The Client interface abstracts the underlying provider, making it easy to
// mock storage interactions in unit tests (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: verify or create the catalog bucket (EnsureBucket).
//   - PutObject: publish catalog indexes and items.
//   - GetObject: read them back.
//   - ListObjects / RemoveObject: list and prune published items.
//
// IsNotFound classifies a missing key so readers can treat it as absence.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
