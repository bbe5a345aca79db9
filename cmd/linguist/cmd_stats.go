package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsJSON bool

func initStatsCmd() {
	statsCmd := &cobra.Command{
		Use:   "stats <name>",
		Short: "Count messages per translation state",
		Args:  cobra.ExactArgs(1),
		RunE:  runStats,
	}
	statsCmd.Flags().BoolVarP(&statsJSON, "json", "j", false, "print JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	_, cat, err := app.exporter.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	st := cat.Stats()
	out := cmd.OutOrStdout()
	if statsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	done := 0.0
	if st.Total() > 0 {
		done = 100 * float64(st.Finished) / float64(st.Total())
	}
	fmt.Fprintf(out, "language:   %s\n", cat.Language)
	fmt.Fprintf(out, "contexts:   %d\n", st.Contexts)
	fmt.Fprintf(out, "finished:   %d\n", st.Finished)
	fmt.Fprintf(out, "unfinished: %d\n", st.Unfinished)
	fmt.Fprintf(out, "vanished:   %d\n", st.Vanished)
	fmt.Fprintf(out, "progress:   %.1f%%\n", done)
	return nil
}
