// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var truncateLogCmd = &cobra.Command{
	Use:   "truncate-log",
	Short: "Empty the log file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logFile, _, err := openLogger(cfg.Log, "truncate-log")
		if err != nil {
			return err
		}
		defer logFile.Close()

		if err := logFile.Truncate(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "truncated %s\n", cfg.Log.File)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(truncateLogCmd)
}
