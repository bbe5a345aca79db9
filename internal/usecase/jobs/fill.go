package jobs

import (
    "context"
    "encoding/json"
    "fmt"
    "log/slog"
    "sync"
    "time"

    "linguist/internal/domain"
    "linguist/internal/ports"
    "linguist/internal/usecase/translator"
)

const JobTypeFill = "fill"

type Deps struct {
    Jobs  ports.JobRepository
    Files ports.FileRepository
    Units ports.UnitRepository
}

// Runner executes machine pre-translation jobs and records their progress.
type Runner struct {
    d      Deps
    trans  *translator.Service
    mu     sync.Mutex
    active map[int64]context.CancelFunc
    em     EventEmitter
    // ItemTimeout bounds a single provider call.
    ItemTimeout time.Duration
}

func NewRunner(d Deps, trans *translator.Service) *Runner {
    return &Runner{d: d, trans: trans, active: map[int64]context.CancelFunc{}, ItemTimeout: 60 * time.Second}
}

type EventEmitter interface {
    Emit(name string, payload any)
}

func (r *Runner) SetEmitter(em EventEmitter) { r.em = em }

type FillParams struct {
    Catalog    string `json:"catalog"`
    TargetLang string `json:"target_lang,omitempty"` // defaults to the catalog language
    SourceLang string `json:"source_lang,omitempty"` // defaults to the catalog source language, then "en"
    Model      string `json:"model,omitempty"`
    Limit      int    `json:"limit,omitempty"`
}

type FillResult struct {
    JobID  int64  `json:"job_id"`
    Status string `json:"status"`
    Total  int    `json:"total"`
    Done   int    `json:"done"`
    Failed int    `json:"failed"`
}

// pending lists the units a fill job works on: unfinished, still empty, and
// not plural. Numerus forms depend on the target's plural rules and are left
// to a human.
func pending(units []*domain.Unit, limit int) (out []*domain.Unit, skipped int) {
    for _, u := range units {
        if u.Status != domain.StatusUnfinished || u.Text() != "" {
            continue
        }
        if u.Numerus {
            skipped++
            continue
        }
        if limit > 0 && len(out) == limit {
            break
        }
        out = append(out, u)
    }
    return out, skipped
}

func (r *Runner) prepare(ctx context.Context, p *FillParams) (int64, []*domain.Unit, error) {
    f, err := r.d.Files.GetByName(ctx, p.Catalog)
    if err != nil { return 0, nil, err }
    if f == nil { return 0, nil, fmt.Errorf("catalog %q: %w", p.Catalog, domain.ErrNotFound) }
    if p.TargetLang == "" { p.TargetLang = f.Language }
    if p.TargetLang == "" { return 0, nil, fmt.Errorf("catalog %q has no language; pass a target", p.Catalog) }
    if p.SourceLang == "" { p.SourceLang = f.SourceLanguage }
    if p.SourceLang == "" { p.SourceLang = "en" }

    units, err := r.d.Units.ListByFile(ctx, f.ID)
    if err != nil { return 0, nil, err }
    todo, skipped := pending(units, p.Limit)

    paramsJSON, _ := json.Marshal(p)
    job := &domain.Job{Type: JobTypeFill, Status: domain.JobQueued, FileID: &f.ID, ParamsRaw: string(paramsJSON), Total: len(todo)}
    id, err := r.d.Jobs.Create(ctx, job)
    if err != nil { return 0, nil, fmt.Errorf("create job: %w", err) }
    _ = r.d.Jobs.UpdateProgress(ctx, id, 0, len(todo), domain.JobRunning)
    if r.em != nil { r.em.Emit("job.started", map[string]any{"job_id": id, "total": len(todo), "model": p.Model}) }
    r.log(ctx, id, "info", fmt.Sprintf("job started: catalog=%s %s->%s units=%d skipped_numerus=%d", p.Catalog, p.SourceLang, p.TargetLang, len(todo), skipped))
    return id, todo, nil
}

// RunFill runs a fill job to completion in the caller's goroutine. Cancelling
// ctx, or calling Cancel with the job id, abandons the item in flight and
// marks the job canceled.
func (r *Runner) RunFill(ctx context.Context, p FillParams) (FillResult, error) {
    id, todo, err := r.prepare(ctx, &p)
    if err != nil { return FillResult{}, err }
    cctx, cancel := context.WithCancel(ctx)
    r.track(id, cancel)
    defer r.untrack(id)
    return r.run(cctx, id, p, todo), nil
}

func (r *Runner) run(ctx context.Context, jobID int64, p FillParams, todo []*domain.Unit) FillResult {
    // bookkeeping must survive cancellation of the work context
    bg := context.WithoutCancel(ctx)
    res := FillResult{JobID: jobID, Total: len(todo)}
    progress := func(status string) {
        _ = r.d.Jobs.UpdateProgress(bg, jobID, res.Done, res.Total, status)
        if r.em != nil { r.em.Emit("job.progress", map[string]any{"job_id": jobID, "done": res.Done, "total": res.Total, "status": status}) }
    }
    for _, u := range todo {
        if ctx.Err() != nil { break }
        ictx, cancel := context.WithTimeout(ctx, r.ItemTimeout)
        txt, err := r.trans.TranslateOne(ictx, translator.TranslateArgs{
            Message:    &u.Message,
            Catalog:    p.Catalog,
            SourceLang: p.SourceLang,
            TargetLang: p.TargetLang,
            Model:      p.Model,
        })
        cancel()
        // an item cut short by cancellation is neither done nor failed
        if err != nil && ctx.Err() != nil { break }
        if err == nil {
            // machine output always waits for review
            err = r.d.Units.UpdateTranslation(bg, u.ID, txt, domain.StatusUnfinished)
        }
        if err != nil {
            res.Failed++
            r.log(bg, jobID, "error", fmt.Sprintf("%s / %q: %v", u.Context, u.Source, err))
            if r.em != nil { r.em.Emit("job.item.done", map[string]any{"job_id": jobID, "unit_id": u.ID, "error": err.Error(), "failed": res.Failed}) }
        } else {
            r.log(bg, jobID, "debug", fmt.Sprintf("%s / %q -> %q", u.Context, u.Source, txt))
            if r.em != nil { r.em.Emit("job.item.done", map[string]any{"job_id": jobID, "unit_id": u.ID, "text": txt}) }
        }
        res.Done++
        progress(domain.JobRunning)
    }
    switch {
    case ctx.Err() != nil:
        res.Status = domain.JobCanceled
        r.log(bg, jobID, "warn", fmt.Sprintf("job canceled after %d/%d (failed=%d)", res.Done, res.Total, res.Failed))
    case res.Total > 0 && res.Failed == res.Total:
        res.Status = domain.JobFailed
        r.log(bg, jobID, "info", fmt.Sprintf("job finished: done=%d failed=%d", res.Done, res.Failed))
    default:
        res.Status = domain.JobDone
        r.log(bg, jobID, "info", fmt.Sprintf("job finished: done=%d failed=%d", res.Done, res.Failed))
    }
    progress(res.Status)
    return res
}

func (r *Runner) log(ctx context.Context, jobID int64, level, message string) {
    _ = r.d.Jobs.AddLog(ctx, &domain.JobLog{JobID: jobID, Level: level, Message: message})
    lvl := slog.LevelInfo
    switch level {
    case "debug":
        lvl = slog.LevelDebug
    case "warn":
        lvl = slog.LevelWarn
    case "error":
        lvl = slog.LevelError
    }
    slog.Log(ctx, lvl, message, "job_id", jobID)
    if r.em != nil { r.em.Emit("job.log", map[string]any{"job_id": jobID, "level": level, "message": message, "ts": time.Now().UTC().Format(time.RFC3339)}) }
}

func (r *Runner) track(id int64, cancel context.CancelFunc) {
    r.mu.Lock(); r.active[id] = cancel; r.mu.Unlock()
}

func (r *Runner) untrack(id int64) {
    r.mu.Lock(); defer r.mu.Unlock()
    if cancel, ok := r.active[id]; ok { cancel(); delete(r.active, id) }
}

// Cancel stops a running job. It reports false when no such job is running.
func (r *Runner) Cancel(jobID int64) bool {
    r.mu.Lock(); defer r.mu.Unlock()
    if cancel, ok := r.active[jobID]; ok { cancel(); delete(r.active, jobID); return true }
    return false
}
