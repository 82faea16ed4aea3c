// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package load

import (
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/datahandler/pkg/types"
)

func TestRecord(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		unwrap  bool
		want    any
	}{
		{
			name:    "object kept whole",
			file:    "a.json",
			content: `{"a": [1, 2]}`,
			want:    map[string]any{"a": []any{json.Number("1"), json.Number("2")}},
		},
		{
			name:    "single key unwrapped",
			file:    "a.json",
			content: `{"a": [1, 2]}`,
			unwrap:  true,
			want:    []any{json.Number("1"), json.Number("2")},
		},
		{
			name:    "multiple keys not unwrapped",
			file:    "a.json",
			content: `{"a": 1, "b": 2}`,
			unwrap:  true,
			want:    map[string]any{"a": json.Number("1"), "b": json.Number("2")},
		},
		{
			name:    "array top level ignores unwrap",
			file:    "a.json",
			content: `[{"x": "1"}]`,
			unwrap:  true,
			want:    []any{map[string]any{"x": "1"}},
		},
		{
			name:    "nested depth",
			file:    "a.json",
			content: `{"k": {"l": {"m": [true, null, "s"]}}}`,
			unwrap:  true,
			want:    map[string]any{"l": map[string]any{"m": []any{true, nil, "s"}}},
		},
		{
			name:    "yaml record",
			file:    "a.yaml",
			content: "chunk:\n  - id: \"1\"\n    n: 3\n",
			unwrap:  true,
			want:    []any{map[string]any{"id": "1", "n": json.Number("3")}},
		},
		{
			name:    "integers beyond float64 precision kept exact",
			file:    "a.json",
			content: `{"id": 9007199254740993, "big": 12345678901234567890, "f": 1.5}`,
			want: map[string]any{
				"id":  json.Number("9007199254740993"),
				"big": json.Number("12345678901234567890"),
				"f":   json.Number("1.5"),
			},
		},
		{
			name:    "unwrapped large integer kept exact",
			file:    "a.json",
			content: `{"id": 9007199254740993}`,
			unwrap:  true,
			want:    json.Number("9007199254740993"),
		},
		{
			name:    "yaml large integer kept exact",
			file:    "a.yml",
			content: "id: 9007199254740993\nratio: 0.5\n",
			want:    map[string]any{"id": json.Number("9007199254740993"), "ratio": 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			got, err := New(types.DefaultLoadConfig(), nil).Record(path, tt.unwrap)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecord_Errors(t *testing.T) {
	dir := t.TempDir()
	l := New(types.DefaultLoadConfig(), nil)

	_, err := l.Record(filepath.Join(dir, "missing.json"), false)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)

	for name, content := range map[string]string{
		"truncated.json": `{"a": [1, 2`,
		"trailing.json":  `{"a": 1} {"b": 2}`,
		"empty.json":     ``,
		"bad.yaml":       "a: [1, 2\n",
	} {
		path := writeFile(t, dir, name, content)
		_, err := l.Record(path, false)
		var perr *ParseError
		assert.True(t, errors.As(err, &perr), "%s: got %v", name, err)
	}
}

func TestRecordPack(t *testing.T) {
	path := writeFile(t, t.TempDir(), "export.json", `{"b": [3], "a": [1, 2], "c": {"x": 1}}`)

	pack, err := New(types.DefaultLoadConfig(), nil).RecordPack(path)
	require.NoError(t, err)

	assert.Equal(t, types.NamingKeyed, pack.Naming)
	assert.Equal(t, "export", pack.Base)
	require.Len(t, pack.Chunks, 3)
	assert.Equal(t, "a", pack.Chunks[0].Name)
	assert.Equal(t, "b", pack.Chunks[1].Name)
	assert.Equal(t, "c", pack.Chunks[2].Name)
	assert.Equal(t, []any{json.Number("1"), json.Number("2")}, pack.Chunks[0].Value)
}

func TestRecordPack_NotObject(t *testing.T) {
	path := writeFile(t, t.TempDir(), "list.json", `[1, 2, 3]`)
	_, err := New(types.DefaultLoadConfig(), nil).RecordPack(path)
	assert.ErrorIs(t, err, ErrNotObject)
}
