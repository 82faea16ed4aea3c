// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/datahandler/pkg/types"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCLI_ConvertLoadCatalogTruncate(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("id,name\n1,ann\n2,bob\n3,cy\n"), 0o644))
	outDir := filepath.Join(dir, "out")
	logPath := filepath.Join(dir, "activity.log")
	catPath := filepath.Join(dir, "catalog.db")
	metricsPath := filepath.Join(dir, "datahandler.prom")

	out, err := execute(t, "convert", csvPath,
		"--out", outDir,
		"--chunk-size", "2",
		"--log-file", logPath,
		"--catalog", catPath,
		"--metrics-file", metricsPath,
	)
	require.NoError(t, err, out)
	assert.Contains(t, out, "3 rows in 2 chunk(s)")
	assert.FileExists(t, filepath.Join(outDir, "people_chunk1.json"))
	assert.FileExists(t, filepath.Join(outDir, "people_chunk2.json"))

	out, err = execute(t, "load", filepath.Join(outDir, "people_chunk2.json"), "--unwrap", "--log-file", logPath)
	require.NoError(t, err, out)
	assert.JSONEq(t, `[{"id": "3", "name": "cy"}]`, out)

	out, err = execute(t, "catalog", "list", "people", "--format", "json", "--catalog", catPath)
	require.NoError(t, err, out)
	var recs []types.DumpRecord
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "people_chunk1.json", recs[0].Object)
	assert.Equal(t, 2, recs[0].Rows)

	metricsData, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metricsData), "datahandler_rows_loaded_total 3")

	info, err := os.Stat(logPath)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	out, err = execute(t, "truncate-log", "--log-file", logPath)
	require.NoError(t, err, out)
	info, err = os.Stat(logPath)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestCLI_Version(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "datahandler dev\n", out)
}
