// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads bucket credentials from a directory of plain-text
// files. Each file holds one secret: the filename is the key and the trimmed
// file contents are the value.
//
// Supported key files: gcs-service-account.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// GCSServiceAccount is the key of the GCS service account JSON.
const GCSServiceAccount = "gcs-service-account"

// Secrets maps key names to values.
type Secrets map[string]string

// Get returns the value for key, or "" if it is not set.
func (s Secrets) Get(key string) string {
	return s[key]
}

// Load reads all files in dir. A missing directory is not an error; Load
// returns empty Secrets. Unreadable files are logged at warn level and
// skipped.
func Load(dir string, logger log.Logger) (Secrets, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			level.Warn(logger).Log("msg", "could not read secret", "key", name, "err", err)
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}
