package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/Veraticus/scadenziario/internal/cli"
	"github.com/Veraticus/scadenziario/internal/common"
	"github.com/Veraticus/scadenziario/internal/importer"
	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import bank statements (OFX, QFX, XLSX)",
		Long: `Import movements from bank statement exports into the local database.

Examples:
  # Import one statement
  scadenziario import ~/Downloads/estratto_conto_2024.ofx --company LNC

  # Import every export in a folder
  scadenziario import ~/Downloads/banca/*.xlsx --company GREEN

  # Check what would be imported
  scadenziario import movimenti.xlsx --company LNC --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(cmd, args)
		},
	}

	cmd.Flags().StringP("company", "c", "", "company code the statements belong to (required)")
	cmd.Flags().BoolP("dry-run", "d", false, "parse files without saving")
	cmd.Flags().Bool("no-progress", false, "hide the progress bar")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}

func (a *app) runImport(cmd *cobra.Command, args []string) error {
	company, _ := cmd.Flags().GetString("company")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	out := cmd.OutOrStdout()

	files, err := expandFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return common.NewUserError("Nessun file da importare", common.ErrUnsupportedFormat)
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := handler.HandleInterrupts(cmd.Context(), "Importazione", "Nessun movimento è stato salvato.")
	defer handler.Stop()

	slog.Info("Importing statements", "company", company, "file_count", len(files), "dry_run", dryRun)

	bar := newImportProgressBar(len(files), cmd.ErrOrStderr(), !noProgress)
	parser := importer.New()

	var (
		all    []model.Transaction
		failed int
	)
	for _, path := range files {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		txns, parseErr := parser.ParseFile(ctx, path, company)
		if parseErr != nil {
			failed++
			common.LogError(parseErr, "Failed to import file", common.Fields{"file": filepath.Base(path)})
		} else {
			all = append(all, txns...)
			slog.Info("Processed file", "file", filepath.Base(path), "transactions", len(txns))
		}

		if barErr := bar.Add(1); barErr != nil {
			slog.Warn("Failed to update progress bar", "error", barErr)
		}
	}

	if len(all) == 0 {
		return common.NewUserError(fmt.Sprintf("Nessun movimento importato da %d file", len(files)), common.ErrNoTransactions)
	}

	if dryRun {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%d movimenti letti da %d file (nessun salvataggio)", len(all), len(files)-failed)))
		return nil
	}

	store, err := a.initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	saved, err := store.SaveTransactions(ctx, all)
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Importati %d movimenti per %s (%d già presenti)", saved, company, len(all)-saved)))
	if failed > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d file non importati, vedi i log", failed)))
	}
	return nil
}

func newImportProgressBar(total int, w io.Writer, visible bool) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetVisibility(visible),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importazione estratti conto...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}
