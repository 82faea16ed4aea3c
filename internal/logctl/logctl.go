// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logctl builds file-backed go-kit loggers for the loader and dumper.
// Each call to New opens its own file handle; callers own the returned logger
// and close it when done.
package logctl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/pdiddy/datahandler/pkg/types"
)

const (
	// NameKey is the keyval under which the component name is logged.
	NameKey = "name"
	// TimeKey is the keyval under which the timestamp is logged.
	TimeKey = "ts"
	// MsgKey is the keyval that carries the log message.
	MsgKey = "msg"
)

// Logger is a leveled go-kit logger writing to one or more files.
type Logger struct {
	log.Logger
	out *outputs
}

// New opens cfg.File for appending and returns a logger writing to it.
// Zero fields in cfg take the values of types.DefaultLogConfig.
func New(cfg types.LogConfig) (*Logger, error) {
	cfg = withDefaults(cfg)

	f, err := openAppend(cfg.File)
	if err != nil {
		return nil, err
	}
	out := &outputs{files: []*os.File{f}}

	var base log.Logger
	switch strings.ToLower(cfg.Format) {
	case "logfmt":
		base = log.NewLogfmtLogger(out)
	case "json":
		base = log.NewJSONLogger(out)
	default:
		base = newTemplateLogger(out, cfg.Format)
	}

	l := log.With(base,
		NameKey, cfg.Name,
		TimeKey, log.TimestampFormat(time.Now, cfg.TimeFormat),
	)
	l = level.NewFilter(l, levelOption(cfg.Level))

	return &Logger{Logger: l, out: out}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: log.NewNopLogger(), out: &outputs{}}
}

// Attach adds another output file. Lines logged afterwards go to every
// attached file.
func (l *Logger) Attach(path string) error {
	f, err := openAppend(path)
	if err != nil {
		return err
	}
	l.out.add(f)
	return nil
}

// Files returns the paths of the attached output files, first one first.
func (l *Logger) Files() []string {
	return l.out.names()
}

// Truncate empties the first attached output file. Other outputs are left
// alone. Later lines are appended starting from the empty file.
func (l *Logger) Truncate() error {
	return l.out.truncateFirst()
}

// Close closes every attached output file.
func (l *Logger) Close() error {
	return l.out.close()
}

func withDefaults(cfg types.LogConfig) types.LogConfig {
	def := types.DefaultLogConfig(cfg.Name)
	if cfg.File == "" {
		cfg.File = def.File
	}
	if cfg.Format == "" {
		cfg.Format = def.Format
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = def.TimeFormat
	}
	if cfg.Level == "" {
		cfg.Level = def.Level
	}
	return cfg
}

func levelOption(s string) level.Option {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return level.AllowDebug()
	case "warn", "warning":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	case "none":
		return level.AllowNone()
	default:
		return level.AllowInfo()
	}
}

func openAppend(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// outputs fans each line out to every attached file.
type outputs struct {
	mu    sync.Mutex
	files []*os.File
}

var _ io.Writer = (*outputs)(nil)

func (o *outputs) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, f := range o.files {
		if _, err := f.Write(p); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func (o *outputs) add(f *os.File) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.files = append(o.files, f)
}

func (o *outputs) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	names := make([]string, len(o.files))
	for i, f := range o.files {
		names[i] = f.Name()
	}
	return names
}

func (o *outputs) truncateFirst() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.files) == 0 {
		return nil
	}
	if err := o.files[0].Truncate(0); err != nil {
		return fmt.Errorf("truncating log file: %w", err)
	}
	return nil
}

func (o *outputs) close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	var first error
	for _, f := range o.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	o.files = nil
	return first
}
