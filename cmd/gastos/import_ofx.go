package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/gastos/internal/cli"
	"github.com/Veraticus/gastos/internal/common"
	"github.com/Veraticus/gastos/internal/model"
	"github.com/Veraticus/gastos/internal/ofx"
	"github.com/Veraticus/gastos/internal/router"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func importOFXCmd(v *viper.Viper) *cobra.Command {
	var (
		incomeCategory  int
		expenseCategory int
		dryRun          bool
	)

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from OFX/QFX bank exports",
		Long: `Create transactions from OFX or QFX files exported from your bank.
Credits are recorded as income and debits as expenses, each filed under the
category given for its kind. Lines seen twice (same account and FITID) are
imported once.

Examples:
  # Preview a statement
  gastos transactions import ~/Downloads/checking_jan.qfx --dry-run

  # Import every statement in a folder
  gastos transactions import ~/Downloads/*.qfx --income-category 3 --expense-category 7`,
		Args: cobra.MinimumNArgs(1),
		RunE: runView(v, router.ViewTransactions, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			entries := parseFiles(ctx, files)
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("No transactions found in any file"))
				return nil
			}

			if dryRun {
				return previewEntries(cmd, entries)
			}

			targets := make(map[model.Kind]int)
			if incomeCategory > 0 {
				targets[model.KindIncome] = incomeCategory
			}
			if expenseCategory > 0 {
				targets[model.KindExpense] = expenseCategory
			}
			if len(targets) == 0 {
				return fmt.Errorf("pass --income-category and/or --expense-category to choose where transactions go")
			}

			// Kind checks run against the cached categories.
			if _, err := a.categories.List(ctx); err != nil {
				return err
			}

			interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import", "Transactions created before the interrupt were kept.")
			ctx, stop := interrupts.HandleInterrupts(ctx)
			defer stop()

			progress := cli.NewProgress(cmd.ErrOrStderr(), len(entries), "Importing transactions...")
			result, err := ofx.NewImporter(a.transactions, targets).Import(ctx, entries, progress.Step)
			if err != nil && !errors.Is(err, common.ErrSessionExpired) && !interrupts.WasInterrupted() {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d of %d transactions", result.Created, len(entries))))
			if len(result.Warnings) > 0 {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d transactions were created but the list could not be refreshed:", len(result.Warnings))))
				for _, w := range result.Warnings {
					fmt.Fprintln(out, "  "+cli.SubtleStyle.Render(w.Error()))
				}
			}
			if result.Failed > 0 {
				fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d transactions failed:", result.Failed)))
				for _, e := range result.Errors {
					fmt.Fprintln(out, "  "+cli.SubtleStyle.Render(e.Error()))
				}
			}
			if errors.Is(err, common.ErrSessionExpired) {
				return err
			}
			return nil
		}),
	}

	cmd.Flags().IntVar(&incomeCategory, "income-category", 0, "category id for credits")
	cmd.Flags().IntVar(&expenseCategory, "expense-category", 0, "category id for debits")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview without creating anything")

	return cmd
}

// expandFiles resolves glob patterns and plain paths.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

// parseFiles reads every file, skipping unreadable ones and repeated lines.
func parseFiles(ctx context.Context, files []string) []ofx.Entry {
	parser := ofx.NewParser()
	seen := make(map[string]bool)
	var entries []ofx.Entry

	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			slog.Error("Failed to open file", "file", path, "error", err)
			continue
		}

		parsed, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", path, "error", err)
			continue
		}

		for _, entry := range parsed {
			key := entry.AccountID + "/" + entry.FitID
			if entry.FitID != "" && seen[key] {
				continue
			}
			seen[key] = true
			entries = append(entries, entry)
		}
	}
	return entries
}

func previewEntries(cmd *cobra.Command, entries []ofx.Entry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Posted.Format("2006-01-02"),
			cli.FormatAmount(e.Amount, e.Kind),
			string(e.Kind),
			e.Description,
		})
	}

	if err := cli.RenderTable(cmd.OutOrStdout(), []string{"Date", "Amount", "Kind", "Description"}, rows); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("Dry run: %d transactions would be imported", len(entries))))
	return nil
}
