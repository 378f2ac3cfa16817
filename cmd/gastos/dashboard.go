package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/gastos/internal/cli"
	"github.com/Veraticus/gastos/internal/model"
	"github.com/Veraticus/gastos/internal/resource"
	"github.com/Veraticus/gastos/internal/router"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func dashboardCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show this month's totals",
		Args:  cobra.NoArgs,
		RunE: runView(v, router.ViewDashboard, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			var (
				summary    model.Summary
				categories []model.Category
			)

			// Summary and categories are independent resources.
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				summary, err = a.dashboard.Summary(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				categories, err = a.categories.List(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary, categories))
			return nil
		}),
	}
}

func renderSummary(summary model.Summary, categories []model.Category) string {
	totals := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("Income:   %s", cli.IncomeStyle.Render(summary.TotalIncome.StringFixed(2))),
		fmt.Sprintf("Expenses: %s", cli.ExpenseStyle.Render(summary.TotalExpenses.StringFixed(2))),
		fmt.Sprintf("Balance:  %s", cli.FormatBalance(summary.Balance)),
	)

	var b strings.Builder
	b.WriteString(cli.RenderBox(cli.ChartIcon+" This month", totals))

	if len(summary.ExpensesByCategory) > 0 {
		b.WriteString("\n\n")
		b.WriteString(cli.FormatTitle("Expenses by category"))
		for _, slice := range summary.ExpensesByCategory {
			share := ""
			if summary.TotalExpenses.IsPositive() {
				pct := slice.Value.Div(summary.TotalExpenses).Shift(2)
				share = cli.SubtleStyle.Render(fmt.Sprintf(" (%s%%)", pct.StringFixed(0)))
			}
			fmt.Fprintf(&b, "\n  %-20s %s%s", slice.Name, slice.Value.StringFixed(2), share)
		}
	}

	expense := len(resource.CategoriesByKind(categories, model.KindExpense))
	income := len(resource.CategoriesByKind(categories, model.KindIncome))
	b.WriteString("\n\n")
	b.WriteString(cli.SubtleStyle.Render(fmt.Sprintf("%d income and %d expense categories", income, expense)))

	return b.String()
}
