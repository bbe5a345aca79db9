package sqlite

import (
    "context"
    "database/sql"
    sq "github.com/Masterminds/squirrel"
    "linguist/internal/domain"
)

type JobRepo struct{ *Repo }

func NewJobRepo(db *sql.DB) *JobRepo { return &JobRepo{NewRepo(db)} }

var jobColumns = []string{"id", "type", "status", "file_id", "params_json", "progress", "total", "created_at", "updated_at"}

func (r *JobRepo) Create(ctx context.Context, j *domain.Job) (int64, error) {
    ts := now()
    if j.ParamsRaw == "" { j.ParamsRaw = "{}" }
    q := r.SQ.Insert("jobs").Columns("type", "status", "file_id", "params_json", "progress", "total", "created_at", "updated_at").
        Values(j.Type, j.Status, j.FileID, j.ParamsRaw, j.Progress, j.Total, ts, ts)
    sqlStr, args, _ := q.ToSql()
    res, err := r.DB.ExecContext(ctx, sqlStr, args...)
    if err != nil { return 0, err }
    id, _ := res.LastInsertId()
    j.ID = id
    j.CreatedAt, j.UpdatedAt = parseTime(ts), parseTime(ts)
    return id, nil
}

func (r *JobRepo) UpdateProgress(ctx context.Context, jobID int64, done, total int, status string) error {
    q := r.SQ.Update("jobs").Set("progress", done).Set("total", total).Set("status", status).Set("updated_at", now()).Where(sq.Eq{"id": jobID})
    sqlStr, args, _ := q.ToSql()
    _, err := r.DB.ExecContext(ctx, sqlStr, args...)
    return err
}

func (r *JobRepo) AddLog(ctx context.Context, jl *domain.JobLog) error {
    ts := now()
    q := r.SQ.Insert("job_logs").Columns("job_id", "ts", "level", "message").Values(jl.JobID, ts, jl.Level, jl.Message)
    sqlStr, args, _ := q.ToSql()
    res, err := r.DB.ExecContext(ctx, sqlStr, args...)
    if err != nil { return err }
    jl.ID, _ = res.LastInsertId()
    jl.Time = parseTime(ts)
    return nil
}

func (r *JobRepo) Get(ctx context.Context, jobID int64) (*domain.Job, error) {
    q := r.SQ.Select(jobColumns...).From("jobs").Where(sq.Eq{"id": jobID}).Limit(1)
    sqlStr, args, _ := q.ToSql()
    j, err := scanJob(r.DB.QueryRowContext(ctx, sqlStr, args...))
    if err == sql.ErrNoRows { return nil, nil }
    return j, err
}

func (r *JobRepo) List(ctx context.Context, limit int) ([]*domain.Job, error) {
    if limit <= 0 { limit = 50 }
    q := r.SQ.Select(jobColumns...).From("jobs").OrderBy("id DESC").Limit(uint64(limit))
    sqlStr, args, _ := q.ToSql()
    rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
    if err != nil { return nil, err }
    defer rows.Close()
    var out []*domain.Job
    for rows.Next() {
        j, err := scanJob(rows)
        if err != nil { return nil, err }
        out = append(out, j)
    }
    return out, rows.Err()
}

func scanJob(row rowScanner) (*domain.Job, error) {
    var j domain.Job
    var file sql.NullInt64
    var created, updated string
    if err := row.Scan(&j.ID, &j.Type, &j.Status, &file, &j.ParamsRaw, &j.Progress, &j.Total, &created, &updated); err != nil {
        return nil, err
    }
    if file.Valid { v := file.Int64; j.FileID = &v }
    j.CreatedAt, j.UpdatedAt = parseTime(created), parseTime(updated)
    return &j, nil
}

func (r *JobRepo) ListLogs(ctx context.Context, jobID int64, limit int) ([]*domain.JobLog, error) {
    if limit <= 0 { limit = 200 }
    q := r.SQ.Select("id", "job_id", "ts", "level", "message").From("job_logs").Where(sq.Eq{"job_id": jobID}).OrderBy("id DESC").Limit(uint64(limit))
    sqlStr, args, _ := q.ToSql()
    rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
    if err != nil { return nil, err }
    defer rows.Close()
    var out []*domain.JobLog
    for rows.Next() {
        var jl domain.JobLog
        var ts string
        if err := rows.Scan(&jl.ID, &jl.JobID, &ts, &jl.Level, &jl.Message); err != nil { return nil, err }
        jl.Time = parseTime(ts)
        out = append(out, &jl)
    }
    if err := rows.Err(); err != nil { return nil, err }
    // newest N, returned oldest first
    for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 { out[i], out[j] = out[j], out[i] }
    return out, nil
}
