// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DefaultChunkSize is the row limit of one CSV chunk.
const DefaultChunkSize = 1_000_000

// LoadConfig holds settings for the loader.
type LoadConfig struct {
	// ChunkSize is the maximum number of rows per chunk (default 1,000,000).
	// Zero or negative disables splitting.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size" mapstructure:"chunk_size"`

	// Naming selects keyed or indexed chunk naming (default keyed).
	Naming Naming `json:"naming" yaml:"naming" mapstructure:"naming"`
}

// DefaultLoadConfig returns the loader defaults.
func DefaultLoadConfig() LoadConfig {
	return LoadConfig{
		ChunkSize: DefaultChunkSize,
		Naming:    NamingKeyed,
	}
}

// DumpMode selects what the dumper does with an existing object.
type DumpMode string

const (
	// DumpOverwrite replaces existing objects.
	DumpOverwrite DumpMode = "overwrite"
	// DumpMerge appends to the existing array stored under the same key.
	DumpMerge DumpMode = "merge"
)

// DumpConfig holds settings for the dumper.
type DumpConfig struct {
	// Folder is the destination folder inside the bucket. Empty means the root.
	Folder string `json:"folder" yaml:"folder" mapstructure:"folder"`

	// Indent is the number of spaces per nesting level (default 2). A negative
	// value writes compact single-line JSON.
	Indent int `json:"indent" yaml:"indent" mapstructure:"indent"`

	// Mode is overwrite (default) or merge.
	Mode DumpMode `json:"mode" yaml:"mode" mapstructure:"mode"`

	// DiscardForeignKeys restores the legacy merge behaviour where a file that
	// lacks the chunk key is rewritten with only that key. Off by default.
	DiscardForeignKeys bool `json:"discard_foreign_keys" yaml:"discard_foreign_keys" mapstructure:"discard_foreign_keys"`

	// ExportName overrides the pack base name for indexed dumps.
	ExportName string `json:"export_name,omitempty" yaml:"export_name,omitempty" mapstructure:"export_name"`
}

// DefaultDumpConfig returns the dumper defaults.
func DefaultDumpConfig() DumpConfig {
	return DumpConfig{
		Indent: 2,
		Mode:   DumpOverwrite,
	}
}

// LogConfig holds settings for a file logger.
type LogConfig struct {
	// Name identifies the component on every line.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// File is the path of the log file. Lines are appended.
	File string `json:"file" yaml:"file" mapstructure:"file"`

	// Format is "logfmt", "json", or a line template using the {level},
	// {name}, {time} and {msg} placeholders.
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// TimeFormat is a Go time layout for the timestamp.
	TimeFormat string `json:"time_format" yaml:"time_format" mapstructure:"time_format"`

	// Level is the minimum severity: debug, info, warn, error or none.
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

const (
	DefaultLogFile       = "datahandler_activity.log"
	DefaultLogFormat     = "{level}:{name}:{time}:{msg}"
	DefaultLogTimeFormat = "01/02/06:15.04.05"
)

// DefaultLogConfig returns the logger defaults for the named component.
func DefaultLogConfig(name string) LogConfig {
	return LogConfig{
		Name:       name,
		File:       DefaultLogFile,
		Format:     DefaultLogFormat,
		TimeFormat: DefaultLogTimeFormat,
		Level:      "info",
	}
}

// BucketConfig selects the object store the dumper writes to.
type BucketConfig struct {
	// Type is "filesystem" (default) or "gcs".
	Type string `json:"type" yaml:"type" mapstructure:"type"`

	// Dir is the root directory for the filesystem bucket (default ".").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Bucket is the GCS bucket name.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty" mapstructure:"bucket"`

	// ServiceAccount is the GCS service account JSON. When empty it is read
	// from the gcs-service-account file in the secrets directory, and failing
	// that the provider falls back to application default credentials.
	ServiceAccount string `json:"-" yaml:"-" mapstructure:"service_account"`
}

// Config groups all settings read by the CLI.
type Config struct {
	Load   LoadConfig   `json:"load" yaml:"load" mapstructure:"load"`
	Dump   DumpConfig   `json:"dump" yaml:"dump" mapstructure:"dump"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
	Bucket BucketConfig `json:"bucket" yaml:"bucket" mapstructure:"bucket"`
}
