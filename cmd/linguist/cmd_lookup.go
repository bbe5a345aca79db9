package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	lookupLocale  string
	lookupDir     string
	lookupComment string
)

func initLookupCmd() {
	lookupCmd := &cobra.Command{
		Use:   "lookup <context> <source>",
		Short: "Translate a source string the way the application would",
		Long: "Load <prefix>_<locale>.ts files from the translations directory and print the translation of <source> in <context>.\n" +
			"Without --locale the stored language setting is used. Missing translations print the source text.",
		Args: cobra.ExactArgs(2),
		RunE: runLookup,
	}

	lookupCmd.Flags().StringVarP(&lookupLocale, "locale", "l", "", "locale, e.g. zh_CN (default: the language setting)")
	lookupCmd.Flags().StringVarP(&lookupDir, "dir", "d", "", "translations directory (default from config)")
	lookupCmd.Flags().StringVarP(&lookupComment, "comment", "c", "", "disambiguation comment")

	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	tr, loaded, err := loadTranslations(cfg, lookupDir)
	if err != nil {
		return err
	}
	slog.Debug("translations loaded", "locales", loaded)

	loc := lookupLocale
	if loc == "" {
		app, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer app.Close()
		if loc, err = app.settings.Resolve(cmd.Context(), tr); err != nil {
			return err
		}
		slog.Debug("language resolved", "locale", loc)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tr.TranslateDisambiguated(args[0], args[1], lookupComment, loc))
	return nil
}
