// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package load

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-kit/log/level"
	"go.yaml.in/yaml/v3"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/pdiddy/datahandler/pkg/types"
)

// ParseError reports a record file that is not valid JSON or YAML.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing record file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Record parses the whole file at path into one value. Files ending in
// .yaml or .yml are read as YAML, anything else as JSON. With unwrap set and
// a top-level object holding exactly one key, the value of that key is
// returned instead of the object.
func (l *Loader) Record(path string, unwrap bool) (any, error) {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record file: %w", err)
	}
	level.Info(l.logger).Log("msg", "started reading record file", "file", path)

	v, err := decode(path, data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	if unwrap {
		if obj, ok := v.(map[string]any); ok && len(obj) == 1 {
			for _, inner := range obj {
				v = inner
			}
		}
	}

	level.Info(l.logger).Log(
		"msg", "extracted record data",
		"file", path,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return v, nil
}

// RecordPack reads a record file whose top level is an object and returns it
// as a keyed pack with one chunk per key, sorted by key.
func (l *Loader) RecordPack(path string) (*types.Pack, error) {
	v, err := l.Record(path, false)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrNotObject)
	}

	keys := maps.Keys(obj)
	slices.Sort(keys)

	pack := &types.Pack{
		Naming: types.NamingKeyed,
		Base:   baseName(path),
		Chunks: make([]types.Chunk, 0, len(keys)),
	}
	for _, k := range keys {
		pack.Chunks = append(pack.Chunks, types.Chunk{Name: k, Value: obj[k]})
	}
	return pack, nil
}

func decode(path string, data []byte) (any, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return normalizeYAML(v), nil
	default:
		return decodeJSON(data)
	}
}

// decodeJSON parses exactly one JSON value from data. Numbers are returned
// as json.Number so large integers keep every digit.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if rest := bytes.TrimSpace(data[dec.InputOffset():]); len(rest) > 0 {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

// normalizeYAML converts YAML-specific shapes to the ones decodeJSON
// produces so record values compare and re-encode the same way. Integers
// become json.Number; floats stay float64.
func normalizeYAML(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, val := range x {
			x[k] = normalizeYAML(val)
		}
		return x
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return m
	case []any:
		for i, val := range x {
			x[i] = normalizeYAML(val)
		}
		return x
	case int:
		return json.Number(strconv.Itoa(x))
	case int64:
		return json.Number(strconv.FormatInt(x, 10))
	case uint64:
		return json.Number(strconv.FormatUint(x, 10))
	default:
		return v
	}
}
