package main

import (
	"database/sql"

	dbsqlite "linguist/internal/adapters/db/sqlite"
	expcsv "linguist/internal/adapters/exporter/csv"
	expjson "linguist/internal/adapters/exporter/paraglidejson"
	expts "linguist/internal/adapters/exporter/qtts"
	exportreg "linguist/internal/adapters/exporter/registry"
	llmfactory "linguist/internal/adapters/llm/factory"
	csvparser "linguist/internal/adapters/parser/csv"
	paraglidejson "linguist/internal/adapters/parser/paraglidejson"
	"linguist/internal/adapters/parser/qtts"
	parreg "linguist/internal/adapters/parser/registry"
	promptRenderer "linguist/internal/adapters/prompt"
	"linguist/internal/adapters/scanner/cpptr"
	scanreg "linguist/internal/adapters/scanner/registry"
	"linguist/internal/adapters/scanner/uiform"
	"linguist/internal/config"
	exporterusecase "linguist/internal/usecase/exporter"
	"linguist/internal/usecase/importer"
	jobsusecase "linguist/internal/usecase/jobs"
	"linguist/internal/usecase/lookup"
	settingsusecase "linguist/internal/usecase/settings"
	translatorusecase "linguist/internal/usecase/translator"
)

// App holds the store and the services wired on top of it.
type App struct {
	cfg      *config.Config
	db       *sql.DB
	files    *dbsqlite.FileRepo
	units    *dbsqlite.UnitRepo
	jobs     *dbsqlite.JobRepo
	cache    *dbsqlite.CacheRepo
	importer *importer.Service
	exporter *exporterusecase.Service
	settings *settingsusecase.Service
}

func newParserRegistry() *parreg.Registry {
	r := parreg.New()
	r.Register(qtts.New())
	r.Register(csvparser.New())
	r.Register(paraglidejson.New())
	return r
}

func newExporterRegistry() *exportreg.Registry {
	r := exportreg.New()
	r.Register(expts.New())
	r.Register(expcsv.New())
	r.Register(expjson.New())
	return r
}

func newScannerRegistry() *scanreg.Registry {
	r := scanreg.New()
	r.Register(cpptr.New())
	r.Register(uiform.New())
	return r
}

func openApp(cfg *config.Config) (*App, error) {
	db, err := dbsqlite.Init(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	a := &App{
		cfg:   cfg,
		db:    db,
		files: dbsqlite.NewFileRepo(db),
		units: dbsqlite.NewUnitRepo(db),
		jobs:  dbsqlite.NewJobRepo(db),
		cache: dbsqlite.NewCacheRepo(db),
	}
	a.importer = importer.New(a.files, a.units, newParserRegistry())
	a.exporter = exporterusecase.New(a.files, a.units, newExporterRegistry())
	a.settings = settingsusecase.New(dbsqlite.NewSettingsRepo(db), cfg.Language)
	return a, nil
}

func (a *App) Close() error { return a.db.Close() }

// runner builds the fill job runner for the configured provider.
func (a *App) runner() (*jobsusecase.Runner, error) {
	prov, err := llmfactory.FromProvider(a.cfg.Provider)
	if err != nil {
		return nil, err
	}
	trans := translatorusecase.New(translatorusecase.Deps{
		Cache:    a.cache,
		Prompt:   promptRenderer.New(a.cfg.Prompts),
		Provider: prov,
		Info:     a.cfg.Provider,
	})
	return jobsusecase.NewRunner(jobsusecase.Deps{Jobs: a.jobs, Files: a.files, Units: a.units}, trans), nil
}

// loadTranslations loads the configured translation directory for lookups.
func loadTranslations(cfg *config.Config, dir string) (*lookup.Translator, []string, error) {
	if dir == "" {
		dir = cfg.Translations.Dir
	}
	tr := lookup.NewTranslator(lookup.Options{SkipUnfinished: cfg.Translations.SkipUnfinished})
	loaded, err := tr.LoadDir(dir, cfg.Translations.Prefix, qtts.New())
	return tr, loaded, err
}
