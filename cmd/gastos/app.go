package main

import (
	"context"
	"errors"

	"github.com/Veraticus/gastos/internal/cli"
	"github.com/Veraticus/gastos/internal/common"
	"github.com/Veraticus/gastos/internal/config"
	"github.com/Veraticus/gastos/internal/credentials"
	"github.com/Veraticus/gastos/internal/gateway"
	"github.com/Veraticus/gastos/internal/resource"
	"github.com/Veraticus/gastos/internal/router"
	"github.com/Veraticus/gastos/internal/service"
	"github.com/Veraticus/gastos/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is the wired client for one command invocation.
type app struct {
	cfg          *config.Config
	store        credentials.Store
	manager      *session.Manager
	navigator    *router.Navigator
	categories   service.Categories
	transactions service.Transactions
	dashboard    service.SummaryReader
	prompter     *cli.Prompter
}

func newApp(ctx context.Context, cmd *cobra.Command, v *viper.Viper) (*app, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	store := credentials.Open(ctx, cfg.CredentialBackend, cfg.CredentialPath)
	sess := session.Restore(store)
	gw := gateway.New(cfg.BaseURL, cfg.Timeout, sess)
	manager := session.NewManager(sess, store, gw)
	categories := resource.NewCategories(gw, manager)

	return &app{
		cfg:          cfg,
		store:        store,
		manager:      manager,
		navigator:    router.NewNavigator(manager),
		categories:   categories,
		transactions: resource.NewTransactions(gw, manager, categories),
		dashboard:    resource.NewDashboard(gw, manager),
		prompter:     cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
	}, nil
}

func (a *app) close() {
	a.navigator.Close()
	if closer, ok := a.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

// runView builds the client, asks the router for view, and runs fn only if
// the router shows it.
func runView(v *viper.Viper, view router.View, fn func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := newApp(ctx, cmd, v)
		if err != nil {
			return err
		}
		defer a.close()

		shown, err := a.navigator.Navigate(view)
		if err != nil {
			return err
		}
		if shown != view {
			return common.NewUserError("you are not logged in, run 'gastos login' first", common.ErrNotAuthenticated)
		}

		err = fn(ctx, cmd, a, args)
		if errors.Is(err, common.ErrSessionExpired) && a.navigator.Current() == router.ViewLogin {
			return common.NewUserError("your session has expired, run 'gastos login' again", err)
		}
		return err
	}
}
