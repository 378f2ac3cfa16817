package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Veraticus/gastos/internal/cli"
	"github.com/Veraticus/gastos/internal/model"
	"github.com/Veraticus/gastos/internal/router"
	"github.com/Veraticus/gastos/internal/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func transactionsCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Manage income and expense transactions",
	}

	cmd.AddCommand(listTransactionsCmd(v))
	cmd.AddCommand(addTransactionCmd(v))
	cmd.AddCommand(updateTransactionCmd(v))
	cmd.AddCommand(deleteTransactionCmd(v))
	cmd.AddCommand(importOFXCmd(v))

	return cmd
}

func listTransactionsCmd(v *viper.Viper) *cobra.Command {
	var kindFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: runView(v, router.ViewTransactions, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			var kind model.Kind
			if kindFilter != "" {
				parsed, err := model.ParseKind(kindFilter)
				if err != nil {
					return err
				}
				kind = parsed
			}

			txns, err := a.transactions.List(ctx)
			if err != nil {
				return err
			}
			if _, err := a.categories.List(ctx); err != nil {
				return err
			}

			rows := make([][]string, 0, len(txns))
			for _, t := range txns {
				if kind != "" && t.Kind != kind {
					continue
				}
				rows = append(rows, []string{
					strconv.Itoa(t.ID),
					t.OccurredAt.Format("2006-01-02"),
					cli.FormatAmount(t.Amount, t.Kind),
					categoryName(a.categories, t.CategoryID),
					t.Description,
				})
			}

			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No transactions found. Use 'gastos transactions add' to record one."))
				return nil
			}
			return cli.RenderTable(cmd.OutOrStdout(), []string{"ID", "Date", "Amount", "Category", "Description"}, rows)
		}),
	}

	cmd.Flags().StringVar(&kindFilter, "kind", "", "only show income or expense")
	return cmd
}

type transactionFlags struct {
	amount      string
	description string
	kind        string
	category    int
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount, greater than zero")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "what the money was for")
	cmd.Flags().StringVar(&f.kind, "kind", "", "income or expense")
	cmd.Flags().IntVar(&f.category, "category", 0, "category id (see 'gastos categories list')")
}

// apply overlays the flags the user set onto base.
func (f *transactionFlags) apply(cmd *cobra.Command, base model.TransactionInput) (model.TransactionInput, error) {
	in := base
	if cmd.Flags().Changed("amount") {
		amount, err := decimal.NewFromString(f.amount)
		if err != nil {
			return in, fmt.Errorf("invalid amount %q: %w", f.amount, err)
		}
		in.Amount = amount
	}
	if cmd.Flags().Changed("description") {
		in.Description = f.description
	}
	if cmd.Flags().Changed("kind") {
		kind, err := model.ParseKind(f.kind)
		if err != nil {
			return in, err
		}
		in.Kind = kind
	}
	if cmd.Flags().Changed("category") {
		in.CategoryID = f.category
	}
	return in, nil
}

func addTransactionCmd(v *viper.Viper) *cobra.Command {
	flags := &transactionFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Long: `Record an income or expense. The category must be of the same kind;
list the ones available with 'gastos categories list --kind <kind>'.`,
		Args: cobra.NoArgs,
		RunE: runView(v, router.ViewTransactions, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			in, err := flags.apply(cmd, model.TransactionInput{Kind: model.KindExpense})
			if err != nil {
				return err
			}

			// Load categories so the kind check can run before sending.
			if _, err := a.categories.List(ctx); err != nil {
				return err
			}

			created, err := a.transactions.Create(ctx, in)
			if err != nil && created.ID == 0 {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s %s (ID: %d)",
				created.Kind, created.Amount.StringFixed(2), created.ID)))
			return err
		}),
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func updateTransactionCmd(v *viper.Viper) *cobra.Command {
	flags := &transactionFlags{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a transaction",
		Long:  `Change the fields given as flags; the rest keep their current values.`,
		Args:  cobra.ExactArgs(1),
		RunE: runView(v, router.ViewTransactions, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if _, err := a.transactions.List(ctx); err != nil {
				return err
			}
			if _, err := a.categories.List(ctx); err != nil {
				return err
			}

			current, ok := a.transactions.Get(id)
			if !ok {
				return fmt.Errorf("transaction %d not found", id)
			}

			in, err := flags.apply(cmd, current.Input())
			if err != nil {
				return err
			}

			updated, err := a.transactions.Update(ctx, id, in)
			if err != nil && updated.ID == 0 {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated transaction %d", updated.ID)))
			return err
		}),
	}

	flags.register(cmd)
	return cmd
}

func deleteTransactionCmd(v *viper.Viper) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: runView(v, router.ViewTransactions, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !force {
				ok, err := a.prompter.Confirm(ctx, fmt.Sprintf("Delete transaction %d?", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing deleted"))
					return nil
				}
			}

			if err := a.transactions.Delete(ctx, id); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted transaction %d", id)))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}

func categoryName(categories service.Categories, id int) string {
	if c, ok := categories.Get(id); ok {
		return c.Name
	}
	return cli.SubtleStyle.Render(fmt.Sprintf("#%d", id))
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
