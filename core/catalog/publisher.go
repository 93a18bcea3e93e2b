package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"improved-initiative/core/library"
	"improved-initiative/core/storage"

	"github.com/minio/minio-go/v7"
)

// Entry is one item to publish: its listing plus the full item body.
type Entry struct {
	Meta library.ListingMeta
	Body json.RawMessage
}

// PublishResult summarises one Publish call.
type PublishResult struct {
	Written int `json:"written"`
	Pruned  int `json:"pruned"`
}

// Publisher writes catalog indexes and items to object storage.
type Publisher struct {
	client storage.Client
	bucket string
}

// NewPublisher creates a Publisher.
func NewPublisher(client storage.Client, bucket string) *Publisher {
	return &Publisher{client: client, bucket: bucket}
}

// Publish writes every entry and the listing index for catalogPath. With
// prune set, item objects not part of entries are removed.
func (p *Publisher) Publish(ctx context.Context, catalogPath string, entries []Entry, prune bool) (PublishResult, error) {
	var res PublishResult

	metas := make([]library.ListingMeta, 0, len(entries))
	keep := make(map[string]struct{}, len(entries)+1)
	for _, e := range entries {
		if e.Meta.ID == "" {
			return res, fmt.Errorf("catalog entry %q has no id", e.Meta.Name)
		}
		key := ItemKey(catalogPath, e.Meta.ID)
		if err := p.put(ctx, key, e.Body); err != nil {
			return res, err
		}
		keep[key] = struct{}{}
		meta := e.Meta
		meta.Link = catalogPath
		metas = append(metas, meta)
		res.Written++
	}

	index, err := json.Marshal(metas)
	if err != nil {
		return res, fmt.Errorf("failed to encode catalog index: %w", err)
	}
	indexKey := IndexKey(catalogPath)
	if err := p.put(ctx, indexKey, index); err != nil {
		return res, err
	}
	keep[indexKey] = struct{}{}

	if !prune {
		return res, nil
	}
	prefix := path.Join(Prefix, Slug(catalogPath)) + "/"
	for obj := range p.client.ListObjects(ctx, p.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return res, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		if _, ok := keep[obj.Key]; ok || !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		if err := p.client.RemoveObject(ctx, p.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			return res, fmt.Errorf("failed to remove %s: %w", obj.Key, err)
		}
		res.Pruned++
	}
	return res, nil
}

func (p *Publisher) put(ctx context.Context, key string, body []byte) error {
	_, err := p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
