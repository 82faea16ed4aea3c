// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dump writes chunk packs to an object store as one JSON record file
// per chunk. Keyed packs produce "<name>.json" holding {name: chunk}; indexed
// packs produce "<export>_(<i>,<n>).json" holding {"chunk": chunk}, inside an
// "<export>" folder when there is more than one chunk.
//
// In merge mode an existing file is extended instead of replaced: the new
// content is appended to the array already stored under the same key. If
// that value is not an array the chunk is skipped and an error is logged.
package dump

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/thanos-io/objstore"

	"github.com/pdiddy/datahandler/internal/metrics"
	"github.com/pdiddy/datahandler/pkg/types"
)

// IndexedKey is the single top-level key of indexed chunk files.
const IndexedKey = "chunk"

var (
	// ErrUnknownNaming is returned for a pack whose naming strategy is not set.
	ErrUnknownNaming = errors.New("unknown pack naming strategy")
	// ErrInvalidName is returned for a chunk name, export name or folder that
	// would place an object outside the destination folder.
	ErrInvalidName = errors.New("name escapes destination folder")
)

// Recorder receives one entry per chunk the dumper handles.
type Recorder interface {
	Record(ctx context.Context, rec types.DumpRecord) error
}

// Result holds the outcome of one Dump call.
type Result struct {
	Written   int
	Merged    int
	Conflicts int
	// Objects lists the bucket paths written, in chunk order.
	Objects []string
}

// Total returns the number of chunks handled.
func (r Result) Total() int {
	return r.Written + r.Merged + r.Conflicts
}

// HasConflicts reports whether any chunk was skipped on a merge conflict.
func (r Result) HasConflicts() bool {
	return r.Conflicts > 0
}

// Dumper writes packs to a bucket. Construct with New.
type Dumper struct {
	bkt      objstore.Bucket
	cfg      types.DumpConfig
	logger   log.Logger
	metrics  *metrics.Metrics
	recorder Recorder
	progress func()
}

// Option configures a Dumper.
type Option func(*Dumper)

// WithMetrics counts written files and merge conflicts in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dumper) { d.metrics = m }
}

// WithRecorder reports every handled chunk to r.
func WithRecorder(r Recorder) Option {
	return func(d *Dumper) { d.recorder = r }
}

// WithProgress calls fn once after each chunk.
func WithProgress(fn func()) Option {
	return func(d *Dumper) { d.progress = fn }
}

// New returns a Dumper writing to bkt. A nil logger discards log output and
// an empty mode means overwrite.
func New(bkt objstore.Bucket, cfg types.DumpConfig, logger log.Logger, opts ...Option) *Dumper {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if cfg.Mode == "" {
		cfg.Mode = types.DumpOverwrite
	}
	d := &Dumper{bkt: bkt, cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// job is one chunk ready to be written.
type job struct {
	export string
	label  string
	key    string
	object string
	chunk  types.Chunk
}

// Dump writes every chunk of pack. A merge conflict skips that chunk only;
// any bucket or encoding error aborts the call.
func (d *Dumper) Dump(ctx context.Context, pack *types.Pack) (Result, error) {
	start := time.Now()

	if err := checkFolder(d.cfg.Folder); err != nil {
		return Result{}, err
	}

	var (
		jobs []job
		err  error
	)
	switch pack.Naming {
	case types.NamingKeyed:
		jobs, err = d.keyedJobs(pack)
	case types.NamingIndexed:
		jobs, err = d.indexedJobs(pack)
	default:
		return Result{}, fmt.Errorf("%q: %w", pack.Naming, ErrUnknownNaming)
	}
	if err != nil {
		return Result{}, err
	}

	n := len(jobs)
	level.Info(d.logger).Log("msg", "started dumping chunks", "chunks", n, "mode", d.cfg.Mode, "folder", d.cfg.Folder)

	var result Result
	for i, j := range jobs {
		if err := d.write(ctx, j, &result); err != nil {
			return result, fmt.Errorf("dumping chunk %s: %w", j.label, err)
		}
		level.Debug(d.logger).Log("msg", "dumped chunk", "chunk", j.label, "object", j.object, "n", fmt.Sprintf("%d/%d", i+1, n))
		if d.progress != nil {
			d.progress()
		}
	}

	level.Info(d.logger).Log(
		"msg", "dumped chunks",
		"written", result.Written,
		"merged", result.Merged,
		"conflicts", result.Conflicts,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}

func (d *Dumper) keyedJobs(pack *types.Pack) ([]job, error) {
	jobs := make([]job, len(pack.Chunks))
	for i, c := range pack.Chunks {
		name := c.Name
		if name == "" {
			name = types.ChunkName(pack.Base, i+1)
		}
		if err := checkName(name); err != nil {
			return nil, err
		}
		jobs[i] = job{
			export: pack.Base,
			label:  name,
			key:    name,
			object: path.Join(d.cfg.Folder, name+".json"),
			chunk:  c,
		}
	}
	return jobs, nil
}

func (d *Dumper) indexedJobs(pack *types.Pack) ([]job, error) {
	export := d.cfg.ExportName
	if export == "" {
		export = pack.Base
	}
	if err := checkName(export); err != nil {
		return nil, err
	}
	n := len(pack.Chunks)
	dir := d.cfg.Folder
	if n > 1 {
		dir = path.Join(dir, export)
	}

	jobs := make([]job, n)
	for i, c := range pack.Chunks {
		label := IndexedName(export, i+1, n)
		jobs[i] = job{
			export: export,
			label:  label,
			key:    IndexedKey,
			object: path.Join(dir, label+".json"),
			chunk:  c,
		}
	}
	return jobs, nil
}

// checkName rejects names that are not a single path element.
func checkName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return nil
}

// checkFolder rejects folders that climb above the bucket root.
func checkFolder(folder string) error {
	clean := path.Clean(folder)
	if clean == ".." || strings.HasPrefix(clean, "../") || strings.Contains(folder, `\`) {
		return fmt.Errorf("folder %q: %w", folder, ErrInvalidName)
	}
	return nil
}

// IndexedName returns the file stem of chunk i (1-based) of n.
func IndexedName(export string, i, n int) string {
	return fmt.Sprintf("%s_(%d,%d)", export, i, n)
}

func (d *Dumper) write(ctx context.Context, j job, result *Result) error {
	doc := map[string]any{j.key: j.chunk.Value}
	outcome := types.OutcomeWritten

	if d.cfg.Mode == types.DumpMerge {
		existing, found, err := d.readExisting(ctx, j.object)
		if err != nil {
			return err
		}
		if found {
			merged, ok, err := d.merge(existing, j)
			if err != nil {
				return err
			}
			if !ok {
				result.Conflicts++
				d.metrics.MergeConflict()
				return d.record(ctx, j, types.OutcomeConflict)
			}
			doc = merged
			outcome = types.OutcomeMerged
		}
	}

	data, err := encode(doc, d.cfg.Indent)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", j.object, err)
	}
	if err := d.bkt.Upload(ctx, j.object, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("uploading %s: %w", j.object, err)
	}

	if outcome == types.OutcomeMerged {
		result.Merged++
	} else {
		result.Written++
	}
	result.Objects = append(result.Objects, j.object)
	d.metrics.FileWritten(string(outcome))
	return d.record(ctx, j, outcome)
}

func (d *Dumper) record(ctx context.Context, j job, outcome types.DumpOutcome) error {
	if d.recorder == nil {
		return nil
	}
	rec := types.DumpRecord{
		Export:    j.export,
		Chunk:     j.label,
		Object:    j.object,
		Mode:      d.cfg.Mode,
		Outcome:   outcome,
		Rows:      j.chunk.Len(),
		WrittenAt: time.Now().UTC(),
	}
	if err := d.recorder.Record(ctx, rec); err != nil {
		return fmt.Errorf("recording %s: %w", j.object, err)
	}
	return nil
}
