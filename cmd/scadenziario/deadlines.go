package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/scadenziario/internal/cli"
	"github.com/Veraticus/scadenziario/internal/common"
	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/Veraticus/scadenziario/internal/service"
	"github.com/spf13/cobra"
)

func deadlinesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deadlines",
		Aliases: []string{"scadenze"},
		Short:   "Manage tracked deadlines",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List deadlines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDeadlinesList(cmd)
		},
	}
	list.Flags().StringP("company", "c", "", "only this company")
	list.Flags().Bool("all", false, "include cancelled deadlines")
	list.Flags().String("status", "", "only this status (aperta, pagata, annullata)")

	cmd.AddCommand(list)
	cmd.AddCommand(statusCmd(a, "pay <id>", "Mark a deadline as paid", model.StatusPaid))
	cmd.AddCommand(statusCmd(a, "cancel <id>", "Cancel a deadline", model.StatusCancelled))
	cmd.AddCommand(statusCmd(a, "reopen <id>", "Reopen a paid or cancelled deadline", model.StatusOpen))

	return cmd
}

func (a *app) runDeadlinesList(cmd *cobra.Command) error {
	company, _ := cmd.Flags().GetString("company")
	all, _ := cmd.Flags().GetBool("all")
	status, _ := cmd.Flags().GetString("status")
	ctx := cmd.Context()

	filter := service.DeadlineFilter{
		Company:          company,
		Status:           model.DeadlineStatus(status),
		IncludeCancelled: all,
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return common.NewUserError(fmt.Sprintf("Stato non valido: %s", status), common.ErrInvalidConfig)
	}

	store, err := a.initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	deadlines, err := store.GetDeadlines(ctx, filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(deadlines) == 0 {
		fmt.Fprintln(out, cli.FormatInfo("Nessuna scadenza."))
		return nil
	}
	fmt.Fprintln(out, cli.DeadlinesTable(deadlines))
	return nil
}

func statusCmd(a *app, use, short string, status model.DeadlineStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.UpdateDeadlineStatus(ctx, args[0], status); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("Scadenza %s non trovata", args[0]), err)
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Scadenza %s: %s", args[0], status)))
			return nil
		},
	}
}
