package main

import (
	"fmt"
	"log/slog"
	"sync"

	"linguist/internal/domain"
	jobsusecase "linguist/internal/usecase/jobs"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var (
	fillTarget string
	fillModel  string
	fillLimit  int
	fillMaxErr int
)

func initFillCmd() {
	fillCmd := &cobra.Command{
		Use:   "fill <name>",
		Short: "Machine pre-translate empty unfinished messages",
		Long: "Ask the configured LLM provider for every unfinished message that has no translation yet.\n" +
			"Results stay unfinished so a reviewer has to accept them. Interrupt with Ctrl-C to cancel the job.",
		Args: cobra.ExactArgs(1),
		RunE: runFill,
	}

	fillCmd.Flags().StringVarP(&fillTarget, "target", "t", "", "target language (default: the catalog language)")
	fillCmd.Flags().StringVarP(&fillModel, "model", "m", "", "model (default from config)")
	fillCmd.Flags().IntVar(&fillLimit, "limit", 0, "translate at most this many messages")
	fillCmd.Flags().IntVar(&fillMaxErr, "max-failures", 0, "cancel the job after this many failed messages (0: never)")

	rootCmd.AddCommand(fillCmd)
}

func runFill(cmd *cobra.Command, args []string) error {
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()
	runner, err := app.runner()
	if err != nil {
		return err
	}

	progress := mpb.New(mpb.WithWidth(60), mpb.WithOutput(cmd.ErrOrStderr()))
	em := &barEmitter{progress: progress, label: args[0], runner: runner, maxFailures: fillMaxErr}
	runner.SetEmitter(em)

	res, err := runner.RunFill(cmd.Context(), jobsusecase.FillParams{
		Catalog:    args[0],
		TargetLang: fillTarget,
		Model:      fillModel,
		Limit:      fillLimit,
	})
	em.finish()
	progress.Wait()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "job #%d %s: %d/%d translated, %d failed\n", res.JobID, res.Status, res.Done-res.Failed, res.Total, res.Failed)
	if res.Status == domain.JobFailed {
		return fmt.Errorf("every translation failed; see job #%d logs", res.JobID)
	}
	return nil
}

// barEmitter renders fill job events as an mpb progress bar and stops the
// job once it has seen maxFailures failed items.
type barEmitter struct {
	mu          sync.Mutex
	progress    *mpb.Progress
	bar         *mpb.Bar
	label       string
	runner      *jobsusecase.Runner
	maxFailures int
}

func (e *barEmitter) Emit(name string, payload any) {
	p, _ := payload.(map[string]any)
	e.mu.Lock()
	defer e.mu.Unlock()
	switch name {
	case "job.started":
		total, _ := p["total"].(int)
		if total == 0 {
			return
		}
		e.bar = e.progress.AddBar(int64(total),
			mpb.PrependDecorators(
				decor.Name(e.label, decor.WCSyncSpaceR),
			),
			mpb.AppendDecorators(
				decor.Percentage(decor.WC{W: 5}),
				decor.Counters(0, " | %d/%d"),
				decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 6}, decor.WCSyncSpace),
			),
		)
	case "job.item.done":
		if e.bar != nil {
			e.bar.Increment()
		}
		failed, _ := p["failed"].(int)
		if _, isErr := p["error"]; isErr && e.maxFailures > 0 && failed >= e.maxFailures {
			id, _ := p["job_id"].(int64)
			if e.runner.Cancel(id) {
				slog.Warn("too many failures, canceling job", "job_id", id, "failed", failed)
			}
		}
	}
}

// finish stops a bar left short by cancellation so progress.Wait returns.
func (e *barEmitter) finish() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.bar != nil && !e.bar.Completed() {
		e.bar.Abort(false)
	}
}
