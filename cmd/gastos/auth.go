package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/gastos/internal/cli"
	"github.com/Veraticus/gastos/internal/router"
	"github.com/Veraticus/gastos/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func loginCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "login [email-or-name]",
		Short: "Log in and remember the session",
		Long: `Exchange your email (or display name) and password for a session.
The session is kept until you log out or the server rejects it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runView(v, router.ViewLogin, func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			identifier := ""
			if len(args) == 1 {
				identifier = args[0]
			}

			var err error
			if identifier == "" {
				if identifier, err = a.prompter.Ask(ctx, "Email or name", ""); err != nil {
					return err
				}
			}
			password, err := a.prompter.Secret(ctx, "Password")
			if err != nil {
				return err
			}

			if err := a.manager.Login(ctx, identifier, password); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Logged in as "+identifier))
			fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render("Next: gastos "+string(a.navigator.Current())))
			return nil
		}),
	}
}

func logoutCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		RunE: runView(v, router.ViewLogin, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			a.manager.Logout(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Logged out"))
			return nil
		}),
	}
}

func registerCmd(v *viper.Viper) *cobra.Command {
	var (
		email string
		name  string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  `Create an account on the server. Registering does not log you in.`,
		Args:  cobra.NoArgs,
		RunE: runView(v, router.ViewRegister, func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			var err error
			if email == "" {
				if email, err = a.prompter.Ask(ctx, "Email", ""); err != nil {
					return err
				}
			}
			if name == "" {
				if name, err = a.prompter.Ask(ctx, "Name", ""); err != nil {
					return err
				}
			}
			password, err := a.prompter.Secret(ctx, "Password")
			if err != nil {
				return err
			}

			if err := a.manager.Register(ctx, email, password, name); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Account created for "+email))
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Log in with: gastos login "+email))
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&name, "name", "", "display name")

	return cmd
}

func statusCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is held",
		Long:  `Show the stored session state. The server is not contacted.`,
		Args:  cobra.NoArgs,
		RunE: runView(v, router.ViewLogin, func(_ context.Context, cmd *cobra.Command, a *app, _ []string) error {
			out := cmd.OutOrStdout()
			state := a.manager.State()

			if state == session.Authenticated {
				fmt.Fprintln(out, cli.FormatSuccess("Logged in"))
			} else {
				fmt.Fprintln(out, cli.FormatWarning("Not logged in"))
			}
			fmt.Fprintf(out, "  Server:      %s\n", a.cfg.BaseURL)
			fmt.Fprintf(out, "  Credentials: %s (%s)\n", a.cfg.CredentialBackend, a.cfg.CredentialPath)
			return nil
		}),
	}
}
