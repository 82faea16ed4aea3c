// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bucket opens the object store that dumps are written to.
package bucket

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/thanos-io/objstore"
	"github.com/thanos-io/objstore/providers/filesystem"
	"github.com/thanos-io/objstore/providers/gcs"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/datahandler/pkg/types"
)

// Supported bucket types.
const (
	TypeFilesystem = "filesystem"
	TypeGCS        = "gcs"

	component = "datahandler"
)

// ErrUnknownType is returned for a bucket type other than filesystem or gcs.
var ErrUnknownType = errors.New("unknown bucket type")

// GCSConfig is the provider configuration passed to the GCS bucket.
type GCSConfig struct {
	Bucket         string `yaml:"bucket"`
	ServiceAccount string `yaml:"service_account,omitempty"`
}

// Open returns the bucket described by cfg. An empty type means filesystem
// and an empty directory means the current one.
func Open(ctx context.Context, cfg types.BucketConfig, logger log.Logger) (objstore.Bucket, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	switch strings.ToLower(cfg.Type) {
	case "", TypeFilesystem:
		dir := cfg.Dir
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating bucket directory: %w", err)
		}
		bkt, err := filesystem.NewBucket(dir)
		if err != nil {
			return nil, fmt.Errorf("opening filesystem bucket: %w", err)
		}
		return bkt, nil
	case TypeGCS:
		if cfg.Bucket == "" {
			return nil, errors.New("gcs bucket name is required")
		}
		conf, err := yaml.Marshal(GCSConfig{Bucket: cfg.Bucket, ServiceAccount: cfg.ServiceAccount})
		if err != nil {
			return nil, fmt.Errorf("marshaling gcs config: %w", err)
		}
		bkt, err := gcs.NewBucket(ctx, logger, conf, component)
		if err != nil {
			return nil, fmt.Errorf("opening gcs bucket: %w", err)
		}
		return bkt, nil
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Type, ErrUnknownType)
	}
}
