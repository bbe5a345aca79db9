package main

import (
	"fmt"
	"text/tabwriter"

	llmfactory "linguist/internal/adapters/llm/factory"

	"github.com/spf13/cobra"
)

func initProviderCmd() {
	providerCmd := &cobra.Command{
		Use:   "provider",
		Short: "Inspect the configured LLM provider",
	}
	providerCmd.AddCommand(&cobra.Command{
		Use:   "models",
		Short: "List the models the provider offers",
		Args:  cobra.NoArgs,
		RunE:  runProviderModels,
	})
	providerCmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Check that the provider is reachable with the configured credentials",
		Args:  cobra.NoArgs,
		RunE:  runProviderTest,
	})
	rootCmd.AddCommand(providerCmd)
}

func runProviderModels(cmd *cobra.Command, args []string) error {
	prov, err := llmfactory.FromProvider(cfg.Provider)
	if err != nil {
		return err
	}
	models, err := prov.ListModels(cmd.Context())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tCONTEXT\tDESCRIPTION")
	for _, m := range models {
		ctxTokens := "-"
		if m.ContextTokens > 0 {
			ctxTokens = fmt.Sprint(m.ContextTokens)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, ctxTokens, m.Description)
	}
	return w.Flush()
}

func runProviderTest(cmd *cobra.Command, args []string) error {
	prov, err := llmfactory.FromProvider(cfg.Provider)
	if err != nil {
		return err
	}
	if err := prov.Test(cmd.Context()); err != nil {
		return fmt.Errorf("%s provider: %w", cfg.Provider.Type, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s provider ok\n", cfg.Provider.Type)
	return nil
}
