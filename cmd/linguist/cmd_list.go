package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func initListCmd() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored catalogs",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	files, err := app.files.List(cmd.Context())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFORMAT\tLANGUAGE\tPATH\tUPDATED")
	for _, f := range files {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.Name, f.Format, f.Language, f.Path, f.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
