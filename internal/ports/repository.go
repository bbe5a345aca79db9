package ports

import (
	"context"
	"linguist/internal/domain"
)

type FileRepository interface {
	Create(ctx context.Context, f *domain.File) error
	Update(ctx context.Context, f *domain.File) error
	Get(ctx context.Context, id int64) (*domain.File, error)
	GetByName(ctx context.Context, name string) (*domain.File, error)
	List(ctx context.Context) ([]*domain.File, error)
	Delete(ctx context.Context, id int64) error
}

type UnitRepository interface {
	ReplaceAll(ctx context.Context, fileID int64, msgs []*domain.Message) error
	ListByFile(ctx context.Context, fileID int64) ([]*domain.Unit, error)
	UpdateTranslation(ctx context.Context, unitID int64, text string, status domain.Status) error
}

type JobRepository interface {
	Create(ctx context.Context, j *domain.Job) (int64, error)
	UpdateProgress(ctx context.Context, jobID int64, done, total int, status string) error
	AddLog(ctx context.Context, jl *domain.JobLog) error
	Get(ctx context.Context, jobID int64) (*domain.Job, error)
	List(ctx context.Context, limit int) ([]*domain.Job, error)
	ListLogs(ctx context.Context, jobID int64, limit int) ([]*domain.JobLog, error)
}

type CacheRepository interface {
	Get(ctx context.Context, src, srcLang, tgtLang, provider, model string) (*domain.CacheEntry, error)
	Put(ctx context.Context, entry *domain.CacheEntry) error
}

type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
