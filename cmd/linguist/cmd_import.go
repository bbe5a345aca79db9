package main

import (
	"fmt"
	"os"

	"linguist/internal/usecase/importer"

	"github.com/spf13/cobra"
)

var (
	importName   string
	importFormat string
)

func initImportCmd() {
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a catalog file (ts, csv or paraglide json)",
		Long: "Parse a catalog and store it under a name. Importing a TS file under an existing name replaces\n" +
			"the stored messages; a csv or json file only updates translations and status of the stored catalog.",
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	importCmd.Flags().StringVarP(&importName, "name", "n", "", "catalog name (default: file name without extension)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "input format: qtts, csv, paraglidejson (default: by extension)")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	res, err := app.importer.Import(cmd.Context(), importer.ImportArgs{
		Name:     importName,
		Filename: args[0],
		Format:   importFormat,
		Content:  data,
	})
	if err != nil {
		return err
	}
	if res.Merged {
		tr := res.Translations
		fmt.Fprintf(cmd.OutOrStdout(), "merged into catalog #%d: %d updated, %d added, %d unchanged\n",
			res.FileID, tr.Updated, tr.Added, tr.Unchanged)
		return nil
	}
	verb := "updated"
	if res.Created {
		verb = "created"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s catalog #%d: %d messages (%d finished, %d unfinished, %d vanished)\n",
		verb, res.FileID, res.Units, res.Stats.Finished, res.Stats.Unfinished, res.Stats.Vanished)
	return nil
}
