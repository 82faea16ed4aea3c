// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/datahandler/internal/bucket"
	"github.com/pdiddy/datahandler/internal/catalog"
	"github.com/pdiddy/datahandler/internal/dump"
	"github.com/pdiddy/datahandler/internal/load"
	"github.com/pdiddy/datahandler/internal/metrics"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.csv>",
	Short: "Split a CSV file into chunks and dump each chunk as JSON",
	Long: `Convert reads a CSV file with a header line, splits its rows into chunks
of at most --chunk-size rows, and writes one JSON record file per chunk.

Keyed naming writes <name>_chunk<N>.json holding {"<name>_chunk<N>": rows}.
Indexed naming writes <export>_(<i>,<n>).json holding {"chunk": rows}, inside
an <export>/ folder when there is more than one chunk.

With --mode merge, rows are appended to the array already stored under the
same key. Files whose value under that key is not an array are left
untouched and the conflict is logged.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.Int("chunk-size", 0, "maximum rows per chunk, 0 or less disables splitting (default 1000000)")
	f.String("naming", "", "chunk naming: keyed or indexed (default keyed)")
	f.String("out", "", "output directory of the filesystem bucket (default .)")
	f.String("bucket", "", "bucket type: filesystem or gcs (default filesystem)")
	f.String("gcs-bucket", "", "GCS bucket name when --bucket=gcs")
	f.String("folder", "", "destination folder inside the bucket")
	f.Int("indent", 0, "JSON indent in spaces, negative for compact output (default 2)")
	f.String("mode", "", "overwrite or merge (default overwrite)")
	f.Bool("discard-foreign-keys", false, "in merge mode, rewrite files lacking the chunk key with only that key")
	f.String("export-name", "", "export name for indexed dumps (default: CSV file name)")
	f.String("metrics-file", "", "write Prometheus counters to this text file")
	f.Bool("progress", false, "show a progress bar while dumping")

	bindFlag(f.Lookup("chunk-size"), "load.chunk_size")
	bindFlag(f.Lookup("naming"), "load.naming")
	bindFlag(f.Lookup("out"), "bucket.dir")
	bindFlag(f.Lookup("bucket"), "bucket.type")
	bindFlag(f.Lookup("gcs-bucket"), "bucket.bucket")
	bindFlag(f.Lookup("folder"), "dump.folder")
	bindFlag(f.Lookup("indent"), "dump.indent")
	bindFlag(f.Lookup("mode"), "dump.mode")
	bindFlag(f.Lookup("discard-foreign-keys"), "dump.discard_foreign_keys")
	bindFlag(f.Lookup("export-name"), "dump.export_name")
	bindFlag(f.Lookup("metrics-file"), "metrics_file")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logFile, logger, err := openLogger(cfg.Log, "convert")
	if err != nil {
		return err
	}
	defer logFile.Close()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	pack, err := load.New(cfg.Load, log.With(logger, "component", "loader"), load.WithMetrics(m)).CSV(args[0])
	if err != nil {
		return err
	}

	if err := applySecrets(&cfg.Bucket, viper.GetString("secrets_dir"), logger); err != nil {
		return err
	}
	bkt, err := bucket.Open(ctx, cfg.Bucket, logger)
	if err != nil {
		return err
	}
	defer bkt.Close()

	opts := []dump.Option{dump.WithMetrics(m)}

	if path := viper.GetString("catalog"); path != "" {
		store, err := catalog.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, dump.WithRecorder(store))
	}

	if progress, _ := cmd.Flags().GetBool("progress"); progress {
		bar := progressbar.Default(int64(pack.Len()), "dumping")
		opts = append(opts, dump.WithProgress(func() { _ = bar.Add(1) }))
	}

	result, err := dump.New(bkt, cfg.Dump, log.With(logger, "component", "dumper"), opts...).Dump(ctx, pack)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "converted %s: %d rows in %d chunk(s)\n", args[0], pack.Rows(), pack.Len())
	fmt.Fprintf(out, "written: %d, merged: %d, conflicts: %d\n", result.Written, result.Merged, result.Conflicts)
	if result.HasConflicts() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d chunk(s) skipped on merge conflict, see %s\n", result.Conflicts, cfg.Log.File)
	}

	if path := viper.GetString("metrics_file"); path != "" {
		if err := metrics.WriteTextfile(path, reg); err != nil {
			return err
		}
	}
	return nil
}
