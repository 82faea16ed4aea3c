// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"

	"github.com/go-kit/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/datahandler/internal/load"
)

var loadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load a JSON or YAML record file and print it as JSON",
	Long: `Load parses a record file and prints its content as indented JSON.
With --unwrap, a file whose top level holds exactly one key prints only that
key's value, which for dumped chunks is the chunk itself.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().Bool("unwrap", false, "print the value of a single top-level key instead of the whole object")
	loadCmd.Flags().Bool("pack", false, "print the file as a keyed chunk pack")

	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logFile, logger, err := openLogger(cfg.Log, "load")
	if err != nil {
		return err
	}
	defer logFile.Close()

	loader := load.New(cfg.Load, log.With(logger, "component", "loader"))

	var v any
	if asPack, _ := cmd.Flags().GetBool("pack"); asPack {
		v, err = loader.RecordPack(args[0])
	} else {
		unwrap, _ := cmd.Flags().GetBool("unwrap")
		v, err = loader.Record(args[0], unwrap)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
