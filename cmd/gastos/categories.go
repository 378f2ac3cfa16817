package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Veraticus/gastos/internal/cli"
	"github.com/Veraticus/gastos/internal/model"
	"github.com/Veraticus/gastos/internal/resource"
	"github.com/Veraticus/gastos/internal/router"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func categoriesCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage income and expense categories",
		Long:  `List, add, update, and delete the categories transactions are filed under.`,
	}

	cmd.AddCommand(listCategoriesCmd(v))
	cmd.AddCommand(addCategoryCmd(v))
	cmd.AddCommand(updateCategoryCmd(v))
	cmd.AddCommand(deleteCategoryCmd(v))

	return cmd
}

func listCategoriesCmd(v *viper.Viper) *cobra.Command {
	var kindFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: runView(v, router.ViewCategories, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			categories, err := a.categories.List(ctx)
			if err != nil {
				return err
			}

			if kindFilter != "" {
				kind, err := model.ParseKind(kindFilter)
				if err != nil {
					return err
				}
				categories = resource.CategoriesByKind(categories, kind)
			}

			if len(categories) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No categories found. Use 'gastos categories add' to create one."))
				return nil
			}

			rows := make([][]string, 0, len(categories))
			for _, c := range categories {
				rows = append(rows, []string{strconv.Itoa(c.ID), c.Name, string(c.Kind)})
			}
			return cli.RenderTable(cmd.OutOrStdout(), []string{"ID", "Name", "Kind"}, rows)
		}),
	}

	cmd.Flags().StringVar(&kindFilter, "kind", "", "only show income or expense categories")
	return cmd
}

func addCategoryCmd(v *viper.Viper) *cobra.Command {
	var kindFlag string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: runView(v, router.ViewCategories, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			kind, err := model.ParseKind(kindFlag)
			if err != nil {
				return err
			}

			created, err := a.categories.Create(ctx, model.CategoryInput{Name: args[0], Kind: kind})
			if err != nil && created.ID == 0 {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created %s category %q (ID: %d)", created.Kind, created.Name, created.ID)))
			return err
		}),
	}

	cmd.Flags().StringVar(&kindFlag, "kind", string(model.KindExpense), "income or expense")
	return cmd
}

func updateCategoryCmd(v *viper.Viper) *cobra.Command {
	var (
		name     string
		kindFlag string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a category or change its kind",
		Args:  cobra.ExactArgs(1),
		RunE: runView(v, router.ViewCategories, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if _, err := a.categories.List(ctx); err != nil {
				return err
			}
			current, ok := a.categories.Get(id)
			if !ok {
				return fmt.Errorf("category %d not found", id)
			}

			in := current.Input()
			if cmd.Flags().Changed("name") {
				in.Name = name
			}
			if cmd.Flags().Changed("kind") {
				if in.Kind, err = model.ParseKind(kindFlag); err != nil {
					return err
				}
			}

			updated, err := a.categories.Update(ctx, id, in)
			if err != nil && updated.ID == 0 {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Updated category %d: %q (%s)", updated.ID, updated.Name, updated.Kind)))
			return err
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&kindFlag, "kind", "", "new kind (income or expense)")
	return cmd
}

func deleteCategoryCmd(v *viper.Viper) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long:  `Delete a category. The server refuses while transactions still use it.`,
		Args:  cobra.ExactArgs(1),
		RunE: runView(v, router.ViewCategories, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !force {
				ok, err := a.prompter.Confirm(ctx, fmt.Sprintf("Delete category %d?", id))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing deleted"))
					return nil
				}
			}

			if err := a.categories.Delete(ctx, id); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted category %d", id)))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")
	return cmd
}
