package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func initLangCmd() {
	langCmd := &cobra.Command{
		Use:   "lang",
		Short: "Show or change the interface language setting",
		Long:  "The language setting is \"system\" (follow LC_ALL, LC_MESSAGES, LANG) or a locale such as zh_CN.",
		Args:  cobra.NoArgs,
		RunE:  runLangGet,
	}
	langCmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the language setting and the locale it resolves to",
		Args:  cobra.NoArgs,
		RunE:  runLangGet,
	})
	langCmd.AddCommand(&cobra.Command{
		Use:   "set <system|locale>",
		Short: "Store the language setting",
		Args:  cobra.ExactArgs(1),
		RunE:  runLangSet,
	})
	rootCmd.AddCommand(langCmd)
}

func runLangGet(cmd *cobra.Command, args []string) error {
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	v, err := app.settings.Language(cmd.Context())
	if err != nil {
		return err
	}
	tr, _, err := loadTranslations(cfg, "")
	if err != nil {
		return err
	}
	loc, err := app.settings.Resolve(cmd.Context(), tr)
	if err != nil {
		return err
	}
	if loc == "" {
		loc = "source language"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (using %s; available: %v)\n", v, loc, tr.Locales())
	return nil
}

func runLangSet(cmd *cobra.Command, args []string) error {
	app, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	v, err := app.settings.SetLanguage(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}
