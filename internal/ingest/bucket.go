// Package ingest pulls historical supplier CSV exports out of an
// S3-compatible bucket and feeds them through the import pipeline.
package ingest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/config"
)

// ProcessFunc handles one downloaded export. Failures are recorded per key
// and do not stop the batch.
type ProcessFunc func(ctx context.Context, key string, csvText string) error

// Summary reports the outcome of one batch ingestion run.
type Summary struct {
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// BucketClient reads supplier exports from an S3-compatible bucket.
type BucketClient struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewBucketClient validates the configuration and connects.
func NewBucketClient(cfg config.BucketConfig) (*BucketClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("bucket endpoint must be provided")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("bucket credentials must be provided")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object storage: %w", err)
	}

	return &BucketClient{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

// ListExports returns the keys of every CSV object under the configured
// prefix.
func (c *BucketClient) ListExports(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	for object := range c.client.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    c.prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("list exports: %w", object.Err)
		}
		if strings.HasSuffix(strings.ToLower(object.Key), ".csv") {
			keys = append(keys, object.Key)
		}
	}
	return keys, nil
}

// FetchExport downloads one export as text.
func (c *BucketClient) FetchExport(ctx context.Context, key string) (string, error) {
	object, err := c.client.GetObject(ctx, c.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", key, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), nil
}

// Ingest downloads and processes every export concurrently, with bounded
// parallelism. Individual file failures are collected in the summary; only
// listing failures abort the run.
func (c *BucketClient) Ingest(ctx context.Context, workers int, process ProcessFunc) (Summary, error) {
	keys, err := c.ListExports(ctx)
	if err != nil {
		return Summary{}, err
	}

	if workers < 1 {
		workers = 4
	}

	summary := Summary{Total: len(keys), Errors: make(map[string]string)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, key := range keys {
		key := key
		g.Go(func() error {
			text, err := c.FetchExport(ctx, key)
			if err == nil {
				err = process(ctx, key, text)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("export ingestion failed")
				summary.Failed++
				summary.Errors[key] = err.Error()
				return nil
			}
			summary.Succeeded++
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}
	if len(summary.Errors) == 0 {
		summary.Errors = nil
	}
	return summary, nil
}
