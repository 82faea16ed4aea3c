// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/datahandler/internal/secrets"
	"github.com/pdiddy/datahandler/pkg/types"
)

func TestApplySecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, secrets.GCSServiceAccount), []byte("{\"type\":\"service_account\"}\n"), 0o600))

	tests := []struct {
		name string
		cfg  types.BucketConfig
		want string
	}{
		{"gcs reads secret file", types.BucketConfig{Type: "gcs", Bucket: "b"}, `{"type":"service_account"}`},
		{"gcs type is case insensitive", types.BucketConfig{Type: "GCS", Bucket: "b"}, `{"type":"service_account"}`},
		{"configured account wins", types.BucketConfig{Type: "gcs", ServiceAccount: "inline"}, "inline"},
		{"filesystem needs no secret", types.BucketConfig{Type: "filesystem"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			require.NoError(t, applySecrets(&cfg, dir, nil))
			assert.Equal(t, tt.want, cfg.ServiceAccount)
		})
	}
}

func TestApplySecrets_MissingDir(t *testing.T) {
	cfg := types.BucketConfig{Type: "gcs", Bucket: "b"}
	require.NoError(t, applySecrets(&cfg, filepath.Join(t.TempDir(), "none"), nil))
	assert.Empty(t, cfg.ServiceAccount)
}
