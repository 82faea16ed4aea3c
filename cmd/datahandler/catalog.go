// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/datahandler/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the catalog of dumped files",
}

var catalogListCmd = &cobra.Command{
	Use:   "list [export]",
	Short: "List catalog entries, optionally for one export",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogList,
}

func init() {
	catalogListCmd.Flags().String("format", "table", "output format: table, json or yaml")

	catalogCmd.AddCommand(catalogListCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	path := viper.GetString("catalog")
	if path == "" {
		return errors.New("no catalog configured: pass --catalog or set catalog in the config file")
	}
	store, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	export := ""
	if len(args) > 0 {
		export = args[0]
	}
	recs, err := store.List(context.Background(), export)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case "yaml":
		data, err := yaml.Marshal(recs)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = out.Write(data)
		return err
	case "table", "":
	default:
		return fmt.Errorf("unsupported format %q: use table, json or yaml", format)
	}

	if len(recs) == 0 {
		fmt.Fprintln(out, "No entries found.")
		return nil
	}
	fmt.Fprintf(out, "%-20s  %-30s  %-9s  %-8s  %6s  %s\n", "Export", "Object", "Mode", "Outcome", "Rows", "Written")
	fmt.Fprintln(out, strings.Repeat("-", 100))
	for _, r := range recs {
		fmt.Fprintf(out, "%-20s  %-30s  %-9s  %-8s  %6d  %s\n",
			r.Export, r.Object, r.Mode, r.Outcome, r.Rows, r.WrittenAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(out, "\n%d entries\n", len(recs))
	return nil
}
