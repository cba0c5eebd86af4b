package main

import (
	"fmt"

	"github.com/Veraticus/scadenziario/internal/cli"
	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/Veraticus/scadenziario/internal/tui"
	"github.com/spf13/cobra"
)

func reviewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review suggestions interactively",
		Long: `Open an interactive screen to accept or skip each suggested deadline.
Accepted suggestions are saved together when the review is confirmed.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runReview(cmd)
		},
	}

	cmd.Flags().StringSliceP("company", "c", nil, "companies to review (default: all)")

	return cmd
}

func (a *app) runReview(cmd *cobra.Command) error {
	requested, _ := cmd.Flags().GetStringSlice("company")
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	store, err := a.initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	planner, cleanup, err := a.initPlanner(ctx, store, true)
	if err != nil {
		return err
	}
	defer cleanup()

	companies, err := a.resolveCompanies(ctx, planner, requested)
	if err != nil {
		return err
	}

	analyses, err := planner.AnalyzeCompanies(ctx, companies)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	var suggestions []model.DeadlineSuggestion
	for _, an := range analyses {
		suggestions = append(suggestions, an.Result.Suggestions...)
	}
	if len(suggestions) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("Nessuna scadenza da rivedere."))
		return nil
	}

	accepted, err := tui.Review(ctx, suggestions)
	if err != nil {
		return err
	}
	if len(accepted) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("Nessuna scadenza salvata."))
		return nil
	}

	deadlines, err := planner.AcceptAll(ctx, accepted)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%d scadenze salvate", len(deadlines))))
	fmt.Fprintln(out, cli.DeadlinesTable(deadlines))
	return nil
}
