package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"linguist/internal/usecase/exporter"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
)

func initExportCmd() {
	exportCmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Write a stored catalog",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "output format: "+strings.Join(newExporterRegistry().Formats(), ", ")+" (default: the imported format)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "output file, - for stdout")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := app.exporter.ExportFile(cmd.Context(), exporter.ExportArgs{Name: args[0], OverrideFormat: exportFormat})
	if err != nil {
		return err
	}
	if exportOut == "-" {
		_, err = cmd.OutOrStdout().Write(res.Content)
		return err
	}
	if err := os.WriteFile(exportOut, res.Content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	slog.Info("exported catalog", "name", args[0], "format", res.Format, "out", exportOut, "bytes", len(res.Content))
	return nil
}
