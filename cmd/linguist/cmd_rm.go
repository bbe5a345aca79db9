package main

import (
	"fmt"

	"linguist/internal/domain"

	"github.com/spf13/cobra"
)

func initRmCmd() {
	rmCmd := &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a stored catalog and its messages",
		Args:  cobra.ExactArgs(1),
		RunE:  runRm,
	}
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	f, err := app.files.GetByName(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("catalog %q: %w", args[0], domain.ErrNotFound)
	}
	if err := app.files.Delete(cmd.Context(), f.ID); err != nil {
		return fmt.Errorf("delete %q: %w", f.Name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed catalog #%d %s\n", f.ID, f.Name)
	return nil
}
