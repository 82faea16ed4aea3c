// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the datahandler CLI. It converts CSV
// files into chunked JSON record files and reads record files back.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the datahandler CLI.
var rootCmd = &cobra.Command{
	Use:   "datahandler",
	Short: "Convert CSV files to chunked JSON records and back",
	Long: `datahandler splits delimited files into bounded-size chunks and writes
each chunk as its own JSON record file, either replacing or merging into
files already present at the destination. Record files can be loaded back
for inspection.

Every run appends diagnostic lines to a log file (datahandler_activity.log
by default) and can record the files it wrote in a SQLite catalog.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./datahandler.yaml or ~/.config/datahandler/config.yaml)")
	rootCmd.PersistentFlags().String("log-file", "", "log file path (default datahandler_activity.log)")
	rootCmd.PersistentFlags().String("log-level", "", "minimum log level: debug, info, warn, error, none")
	rootCmd.PersistentFlags().String("log-format", "", "logfmt, json, or a template using {level} {name} {time} {msg}")
	rootCmd.PersistentFlags().String("catalog", "", "SQLite catalog recording every dumped file (disabled when empty)")
	rootCmd.PersistentFlags().String("secrets-dir", "", "directory of credential files (default .secrets)")

	bindFlag(rootCmd.PersistentFlags().Lookup("log-file"), "log.file")
	bindFlag(rootCmd.PersistentFlags().Lookup("log-level"), "log.level")
	bindFlag(rootCmd.PersistentFlags().Lookup("log-format"), "log.format")
	bindFlag(rootCmd.PersistentFlags().Lookup("catalog"), "catalog")
	bindFlag(rootCmd.PersistentFlags().Lookup("secrets-dir"), "secrets_dir")

	setDefaults()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("datahandler")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "datahandler"))
		}
	}

	viper.SetEnvPrefix("DATAHANDLER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
