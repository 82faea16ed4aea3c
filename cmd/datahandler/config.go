// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/go-kit/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/datahandler/internal/bucket"
	"github.com/pdiddy/datahandler/internal/logctl"
	"github.com/pdiddy/datahandler/internal/secrets"
	"github.com/pdiddy/datahandler/pkg/types"
)

const appName = "datahandler"

func bindFlag(f *pflag.Flag, key string) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding flag %s: %v", f.Name, err))
	}
}

// setDefaults registers every config key so environment variables and the
// config file can override it.
func setDefaults() {
	load := types.DefaultLoadConfig()
	viper.SetDefault("load.chunk_size", load.ChunkSize)
	viper.SetDefault("load.naming", string(load.Naming))

	dump := types.DefaultDumpConfig()
	viper.SetDefault("dump.folder", dump.Folder)
	viper.SetDefault("dump.indent", dump.Indent)
	viper.SetDefault("dump.mode", string(dump.Mode))
	viper.SetDefault("dump.discard_foreign_keys", dump.DiscardForeignKeys)
	viper.SetDefault("dump.export_name", dump.ExportName)

	lc := types.DefaultLogConfig(appName)
	viper.SetDefault("log.name", lc.Name)
	viper.SetDefault("log.file", lc.File)
	viper.SetDefault("log.format", lc.Format)
	viper.SetDefault("log.time_format", lc.TimeFormat)
	viper.SetDefault("log.level", lc.Level)

	viper.SetDefault("bucket.type", "filesystem")
	viper.SetDefault("bucket.dir", ".")
	viper.SetDefault("bucket.bucket", "")
	viper.SetDefault("bucket.service_account", "")

	viper.SetDefault("catalog", "")
	viper.SetDefault("metrics_file", "")
	viper.SetDefault("secrets_dir", ".secrets")
}

// loadConfig reads the merged flag, environment and file settings.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if !cfg.Load.Naming.Valid() {
		return cfg, fmt.Errorf("unsupported naming %q: use keyed or indexed", cfg.Load.Naming)
	}
	switch cfg.Dump.Mode {
	case types.DumpOverwrite, types.DumpMerge:
	default:
		return cfg, fmt.Errorf("unsupported mode %q: use overwrite or merge", cfg.Dump.Mode)
	}
	return cfg, nil
}

// openLogger builds the run's file logger. The returned logger carries the
// command name under the "cmd" key.
func openLogger(cfg types.LogConfig, cmdName string) (*logctl.Logger, log.Logger, error) {
	l, err := logctl.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return l, log.With(l, "cmd", cmdName), nil
}

// applySecrets fills GCS credentials missing from the config with the
// service account file in dir. Other bucket types need no credentials.
func applySecrets(cfg *types.BucketConfig, dir string, logger log.Logger) error {
	if !strings.EqualFold(cfg.Type, bucket.TypeGCS) || cfg.ServiceAccount != "" {
		return nil
	}
	s, err := secrets.Load(dir, logger)
	if err != nil {
		return err
	}
	cfg.ServiceAccount = s.Get(secrets.GCSServiceAccount)
	return nil
}
