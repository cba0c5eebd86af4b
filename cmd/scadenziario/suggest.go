package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Veraticus/scadenziario/internal/cli"
	"github.com/Veraticus/scadenziario/internal/common"
	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/Veraticus/scadenziario/internal/service"
	"github.com/spf13/cobra"
)

func suggestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest recurring deadlines from payment history",
		Long: `Analyze imported movements and list recurring payments that are not yet
tracked as deadlines, ranked by confidence (Alta, Media, Bassa).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSuggest(cmd)
		},
	}

	cmd.Flags().StringSliceP("company", "c", nil, "companies to analyze (default: all)")
	cmd.Flags().Bool("json", false, "print results as JSON")
	cmd.Flags().Bool("no-cache", false, "ignore the analysis cache")

	return cmd
}

func (a *app) runSuggest(cmd *cobra.Command) error {
	companies, _ := cmd.Flags().GetStringSlice("company")
	asJSON, _ := cmd.Flags().GetBool("json")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	ctx := cmd.Context()

	store, err := a.initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	planner, cleanup, err := a.initPlanner(ctx, store, !noCache)
	if err != nil {
		return err
	}
	defer cleanup()

	companies, err = a.resolveCompanies(ctx, planner, companies)
	if err != nil {
		return err
	}

	analyses, err := planner.AnalyzeCompanies(ctx, companies)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(analyses)
	}

	printAnalyses(cmd.OutOrStdout(), analyses)
	return nil
}

func printAnalyses(w io.Writer, analyses []service.Analysis) {
	for _, an := range analyses {
		fmt.Fprintln(w, cli.FormatTitle(fmt.Sprintf("Scadenze suggerite per %s", an.Company)))

		if len(an.Result.Suggestions) == 0 {
			fmt.Fprintln(w, cli.FormatInfo("Nessun pagamento ricorrente da aggiungere."))
		} else {
			fmt.Fprintln(w, cli.SuggestionsTable(an.Result.Suggestions))
		}

		if n := len(an.Result.Rejected); n > 0 {
			fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("%d movimenti ignorati perché incompleti", n)))
		}
		fmt.Fprintln(w)
	}
}

func acceptCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept",
		Short: "Save one suggestion as a deadline",
		Long: `Save the suggestion at the given position, as numbered by the suggest
command, as an open deadline.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runAccept(cmd)
		},
	}

	cmd.Flags().StringP("company", "c", "", "company code (required)")
	cmd.Flags().IntP("index", "i", 0, "suggestion number shown by suggest (required)")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("index")

	return cmd
}

func (a *app) runAccept(cmd *cobra.Command) error {
	company, _ := cmd.Flags().GetString("company")
	index, _ := cmd.Flags().GetInt("index")
	ctx := cmd.Context()

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

	companies, err := a.resolveCompanies(ctx, planner, []string{company})
	if err != nil {
		return err
	}

	analysis, err := planner.Analyze(ctx, companies[0])
	if err != nil {
		return err
	}

	suggestion, err := pickSuggestion(analysis.Result.Suggestions, index)
	if err != nil {
		return err
	}

	deadline, err := planner.Accept(ctx, suggestion)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Scadenza %s salvata: %s, %s, prossima il %s",
		deadline.ID, deadline.Description, deadline.Recurrence, deadline.DueDate)))
	return nil
}

// pickSuggestion returns the suggestion at the 1-based position index.
func pickSuggestion(suggestions []model.DeadlineSuggestion, index int) (model.DeadlineSuggestion, error) {
	if len(suggestions) == 0 {
		return model.DeadlineSuggestion{}, common.NewUserError("Nessuna scadenza suggerita", common.ErrNotFound)
	}
	if index < 1 || index > len(suggestions) {
		return model.DeadlineSuggestion{}, common.NewUserError(
			fmt.Sprintf("Indice %d non valido: scegli un numero tra 1 e %d", index, len(suggestions)),
			common.ErrNotFound)
	}
	return suggestions[index-1], nil
}
