// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics counts rows, chunks and files moving through a conversion.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "datahandler"

// Metrics holds the conversion counters.
type Metrics struct {
	RowsLoaded     prometheus.Counter
	ChunksSealed   prometheus.Counter
	FilesWritten   *prometheus.CounterVec
	MergeConflicts prometheus.Counter
}

// New registers the counters with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RowsLoaded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_loaded_total",
			Help:      "Number of CSV data rows loaded.",
		}),
		ChunksSealed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_sealed_total",
			Help:      "Number of chunks sealed by the loader.",
		}),
		FilesWritten: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_written_total",
			Help:      "Number of record files written by the dumper, by outcome.",
		}, []string{"outcome"}),
		MergeConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_conflicts_total",
			Help:      "Number of chunks skipped because the existing value is not an array.",
		}),
	}
}

// AddRows counts n loaded CSV data rows.
func (m *Metrics) AddRows(n int) {
	if m == nil {
		return
	}
	m.RowsLoaded.Add(float64(n))
}

// ChunkSealed counts one chunk sealed by the loader.
func (m *Metrics) ChunkSealed() {
	if m == nil {
		return
	}
	m.ChunksSealed.Inc()
}

// FileWritten counts one object written with the given outcome
// ("written" or "merged").
func (m *Metrics) FileWritten(outcome string) {
	if m == nil {
		return
	}
	m.FilesWritten.WithLabelValues(outcome).Inc()
}

// MergeConflict counts one chunk skipped on a merge conflict.
func (m *Metrics) MergeConflict() {
	if m == nil {
		return
	}
	m.MergeConflicts.Inc()
}

// WriteTextfile writes every metric gathered from g to path in the
// node-exporter text format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}
	return nil
}
