// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// Row maps a CSV header name to the raw cell value of one data line.
type Row map[string]string

// Naming selects how the chunks of a Pack are named on disk.
type Naming string

const (
	// NamingKeyed names each chunk "<base>_chunk<N>" and dumps it under that key.
	NamingKeyed Naming = "keyed"
	// NamingIndexed leaves chunks unnamed and dumps them as "<export>_(<i>,<n>)".
	NamingIndexed Naming = "indexed"
)

// Valid reports whether n is a known naming strategy.
func (n Naming) Valid() bool {
	return n == NamingKeyed || n == NamingIndexed
}

// Chunk is one bounded batch of rows, or one value of a record file.
type Chunk struct {
	// Name is the chunk key for keyed packs (e.g. "sales_chunk3"). Empty for
	// indexed packs.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Value is []Row for CSV input, or any JSON-compatible value for record input.
	Value any `json:"value" yaml:"value"`
}

// Len returns the number of rows in the chunk, or 1 for a non-row value.
func (c Chunk) Len() int {
	switch v := c.Value.(type) {
	case []Row:
		return len(v)
	case []any:
		return len(v)
	default:
		return 1
	}
}

// Pack is the full collection of chunks produced by one load or consumed by
// one dump. Naming decides both the chunk names assigned on load and the file
// layout used on dump.
type Pack struct {
	Naming Naming  `json:"naming" yaml:"naming"`
	Base   string  `json:"base" yaml:"base"`
	Chunks []Chunk `json:"chunks" yaml:"chunks"`
}

// ChunkName returns the keyed name of the n-th chunk (1-based) of base.
func ChunkName(base string, n int) string {
	return fmt.Sprintf("%s_chunk%d", base, n)
}

// Len returns the number of chunks.
func (p *Pack) Len() int {
	return len(p.Chunks)
}

// Rows returns the total number of rows across all chunks.
func (p *Pack) Rows() int {
	total := 0
	for _, c := range p.Chunks {
		total += c.Len()
	}
	return total
}

// Keyed returns the name -> value view of the pack. Unnamed chunks are skipped.
func (p *Pack) Keyed() map[string]any {
	m := make(map[string]any, len(p.Chunks))
	for _, c := range p.Chunks {
		if c.Name == "" {
			continue
		}
		m[c.Name] = c.Value
	}
	return m
}

// Values returns the ordered view of the pack.
func (p *Pack) Values() []any {
	vals := make([]any, len(p.Chunks))
	for i, c := range p.Chunks {
		vals[i] = c.Value
	}
	return vals
}

// DumpOutcome records what the dumper did with one chunk.
type DumpOutcome string

const (
	OutcomeWritten  DumpOutcome = "written"
	OutcomeMerged   DumpOutcome = "merged"
	OutcomeConflict DumpOutcome = "conflict"
)

// DumpRecord is one catalog entry: a chunk and the object it was dumped to.
type DumpRecord struct {
	Export    string      `json:"export" yaml:"export"`
	Chunk     string      `json:"chunk" yaml:"chunk"`
	Object    string      `json:"object" yaml:"object"`
	Mode      DumpMode    `json:"mode" yaml:"mode"`
	Outcome   DumpOutcome `json:"outcome" yaml:"outcome"`
	Rows      int         `json:"rows" yaml:"rows"`
	WrittenAt time.Time   `json:"written_at" yaml:"written_at"`
}
