package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"linguist/internal/ports"
	"linguist/internal/usecase/merge"

	"github.com/spf13/cobra"
)

var updateDryRun bool

func initUpdateCmd() {
	updateCmd := &cobra.Command{
		Use:   "update <name> <source files...>",
		Short: "Merge translatable strings from C++ sources and Designer forms into a stored catalog",
		Long: "Scan C++ sources for tr(), translate() and QT_*_NOOP calls and .ui forms for <string> elements,\n" +
			"then merge them into the catalog like lupdate: new strings are added unfinished,\n" +
			"missing ones become vanished, nothing is deleted.",
		Args: cobra.MinimumNArgs(2),
		RunE: runUpdate,
	}
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "report changes without storing them")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	f, cat, err := app.exporter.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	// locations are written relative to the catalog file, as lupdate does
	base := "."
	if f.Path != "" {
		base = filepath.Dir(f.Path)
	}

	scanners := newScannerRegistry()
	var scanned []ports.ScannedString
	for _, src := range args[1:] {
		sc, ok := scanners.For(src)
		if !ok {
			return fmt.Errorf("%s: no scanner for this file type (known: %s)", src, strings.Join(scanners.Extensions(), " "))
		}
		data, err := os.ReadFile(src)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(src)
		if rel, err := filepath.Rel(base, src); err == nil {
			name = filepath.ToSlash(rel)
		}
		hits, err := sc.Scan(name, data)
		if err != nil {
			return fmt.Errorf("scan %s: %w", src, err)
		}
		slog.Debug("scanned", "file", src, "scanner", sc.Format(), "strings", len(hits))
		scanned = append(scanned, hits...)
	}

	merged, rep := merge.Merge(cat, scanned)
	fmt.Fprintf(cmd.OutOrStdout(), "added %d, kept %d, revived %d, vanished %d\n", rep.Added, rep.Kept, rep.Revived, rep.Vanished)
	if updateDryRun {
		return nil
	}
	_, err = app.importer.Save(cmd.Context(), f, merged)
	return err
}
