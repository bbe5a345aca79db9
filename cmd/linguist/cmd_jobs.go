package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"linguist/internal/domain"

	"github.com/spf13/cobra"
)

var jobsLimit int

func initJobsCmd() {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "List fill jobs, newest first",
		Args:  cobra.NoArgs,
		RunE:  runJobsList,
	}
	jobsCmd.PersistentFlags().IntVar(&jobsLimit, "limit", 0, "show at most this many rows (default: 50 jobs, 200 log lines)")
	jobsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List fill jobs, newest first",
		Args:  cobra.NoArgs,
		RunE:  runJobsList,
	})
	jobsCmd.AddCommand(&cobra.Command{
		Use:   "logs <id>",
		Short: "Print the log of a job, oldest line first",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobsLogs,
	})
	rootCmd.AddCommand(jobsCmd)
}

func runJobsList(cmd *cobra.Command, args []string) error {
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	jobs, err := app.jobs.List(cmd.Context(), jobsLimit)
	if err != nil {
		return err
	}
	names := map[int64]string{}
	files, err := app.files.List(cmd.Context())
	if err != nil {
		return err
	}
	for _, f := range files {
		names[f.ID] = f.Name
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tCATALOG\tSTATUS\tPROGRESS\tUPDATED")
	for _, j := range jobs {
		catalog := "-"
		if j.FileID != nil {
			catalog = names[*j.FileID]
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d/%d\t%s\n", j.ID, j.Type, catalog, j.Status, j.Progress, j.Total, j.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runJobsLogs(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("job id %q: %w", args[0], err)
	}
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	job, err := app.jobs.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job #%d: %w", id, domain.ErrNotFound)
	}
	logs, err := app.jobs.ListLogs(cmd.Context(), id, jobsLimit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, l := range logs {
		fmt.Fprintf(out, "%s %-5s %s\n", l.Time.Format("15:04:05"), l.Level, l.Message)
	}
	return nil
}
