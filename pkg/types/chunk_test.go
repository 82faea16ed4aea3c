// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaming_Valid(t *testing.T) {
	assert.True(t, NamingKeyed.Valid())
	assert.True(t, NamingIndexed.Valid())
	assert.False(t, Naming("").Valid())
	assert.False(t, Naming("Keyed").Valid())
}

func TestChunkName(t *testing.T) {
	assert.Equal(t, "sales_chunk1", ChunkName("sales", 1))
	assert.Equal(t, "a.b_chunk12", ChunkName("a.b", 12))
}

func TestChunk_Len(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"rows", []Row{{"a": "1"}, {"a": "2"}}, 2},
		{"empty rows", []Row{}, 0},
		{"decoded array", []any{1, "x", nil}, 3},
		{"object", map[string]any{"a": 1}, 1},
		{"scalar", "text", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Chunk{Value: tt.value}.Len())
		})
	}
}

func TestPack_Views(t *testing.T) {
	p := &Pack{
		Naming: NamingKeyed,
		Base:   "sales",
		Chunks: []Chunk{
			{Name: "sales_chunk1", Value: []Row{{"id": "1"}, {"id": "2"}}},
			{Name: "sales_chunk2", Value: []Row{{"id": "3"}}},
			{Value: "unnamed"},
		},
	}

	assert.Equal(t, 3, p.Len())
	assert.Equal(t, 4, p.Rows())
	assert.Equal(t, map[string]any{
		"sales_chunk1": []Row{{"id": "1"}, {"id": "2"}},
		"sales_chunk2": []Row{{"id": "3"}},
	}, p.Keyed())
	assert.Equal(t, []any{
		[]Row{{"id": "1"}, {"id": "2"}},
		[]Row{{"id": "3"}},
		"unnamed",
	}, p.Values())
}

func TestDefaultConfigs(t *testing.T) {
	lc := DefaultLoadConfig()
	assert.Equal(t, DefaultChunkSize, lc.ChunkSize)
	assert.Equal(t, NamingKeyed, lc.Naming)

	dc := DefaultDumpConfig()
	assert.Equal(t, 2, dc.Indent)
	assert.Equal(t, DumpOverwrite, dc.Mode)

	log := DefaultLogConfig("datahandler")
	assert.Equal(t, "datahandler_activity.log", log.File)
	assert.Equal(t, "{level}:{name}:{time}:{msg}", log.Format)
	assert.Equal(t, "info", log.Level)
}
