package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"linguist/internal/config"

	"github.com/spf13/cobra"
)

var (
	rootCmd    *cobra.Command
	configPath string
	dbPath     string
	verbose    bool

	cfg *config.Config
)

func init() {
	rootCmd = &cobra.Command{
		Use:           "linguist",
		Short:         "Manage Qt Linguist translation catalogs",
		Long:          "linguist imports, merges, pre-translates and exports Qt Linguist TS catalogs, and answers translate(context, source, locale) lookups.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(verbose)
			c, err := loadConfig()
			if err != nil {
				return err
			}
			cfg = c
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to linguist.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "catalog database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	initImportCmd()
	initExportCmd()
	initListCmd()
	initStatsCmd()
	initLookupCmd()
	initUpdateCmd()
	initFillCmd()
	initLangCmd()
	initJobsCmd()
	initProviderCmd()
	initRmCmd()
}

func setupLogging(debug bool) {
	lvl := slog.LevelInfo
	if debug {
		lvl = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func loadConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	var c *config.Config
	path := configPath
	if path != "" {
		c, err = config.Load(path)
	} else {
		c, path, err = config.FindAndLoad(wd)
	}
	if err != nil {
		return nil, err
	}
	dotenv, err := config.DotEnv(wd)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyEnv(config.Getenv(os.Getenv, dotenv)); err != nil {
		return nil, err
	}
	if dbPath != "" {
		c.Database.Path = dbPath
	}
	slog.Debug("config loaded", "file", path, "db", c.Database.Path, "provider", c.Provider.Type)
	return c, nil
}

func main() {
	// Ctrl-C cancels long-running commands such as fill between items
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
