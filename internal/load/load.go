// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package load reads CSV files into chunked packs and reads JSON or YAML
// record files back into memory.
package load

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/pdiddy/datahandler/internal/metrics"
	"github.com/pdiddy/datahandler/pkg/types"
)

var (
	// ErrNoHeader is returned for a CSV file without a header line.
	ErrNoHeader = errors.New("csv file has no header line")
	// ErrNotObject is returned when a record file must be an object but is not.
	ErrNotObject = errors.New("record file top level is not an object")
)

// Loader reads input files. Construct with New.
type Loader struct {
	cfg     types.LoadConfig
	logger  log.Logger
	metrics *metrics.Metrics
}

// Option configures a Loader.
type Option func(*Loader)

// WithMetrics counts loaded rows and sealed chunks in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Loader) { l.metrics = m }
}

// New returns a Loader. A nil logger discards log output. An invalid naming
// strategy falls back to keyed.
func New(cfg types.LoadConfig, logger log.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if !cfg.Naming.Valid() {
		cfg.Naming = types.NamingKeyed
	}
	l := &Loader{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CSV reads the file at path and splits its data rows into chunks of at
// most cfg.ChunkSize rows. The first line is the header. Cell values are kept
// as strings. Short lines produce rows without their trailing columns.
//
// With splitting disabled the pack holds exactly one chunk, even for a file
// with no data rows; with splitting enabled such a file yields no chunks.
func (l *Loader) CSV(path string) (*types.Pack, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv file: %w", err)
	}
	defer f.Close()

	level.Info(l.logger).Log("msg", "started reading csv file", "file", path)

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, ErrNoHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	header = append([]string(nil), header...)

	pack := &types.Pack{
		Naming: l.cfg.Naming,
		Base:   baseName(path),
	}
	limit := l.cfg.ChunkSize
	var current []types.Row
	rows := 0

	seal := func() {
		n := len(pack.Chunks) + 1
		chunk := types.Chunk{Value: current}
		if pack.Naming == types.NamingKeyed {
			chunk.Name = types.ChunkName(pack.Base, n)
		}
		pack.Chunks = append(pack.Chunks, chunk)
		l.metrics.ChunkSealed()
		level.Debug(l.logger).Log("msg", "sealed chunk", "chunk", n, "rows", len(current))
		current = nil
	}

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row: %w", err)
		}
		if limit > 0 && len(current) == limit {
			seal()
		}
		current = append(current, makeRow(header, record))
		rows++
	}
	if len(current) > 0 || limit <= 0 {
		if current == nil {
			current = []types.Row{}
		}
		seal()
	}
	l.metrics.AddRows(rows)

	level.Info(l.logger).Log(
		"msg", "extracted csv data",
		"file", path,
		"chunks", len(pack.Chunks),
		"rows", rows,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return pack, nil
}

// makeRow maps header names to cells. Later duplicates of a header name win.
func makeRow(header, record []string) types.Row {
	row := make(types.Row, len(header))
	for i, name := range header {
		if i >= len(record) {
			break
		}
		row[name] = record[i]
	}
	return row
}

// baseName returns the file name of path without directory and extension.
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
