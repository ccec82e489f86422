package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/ventas-admin/internal/application/console"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión y guarda el token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				email, _ = app.prompt("Email: ")
			}
			if password == "" {
				password, _ = app.prompt("Contraseña: ")
			}
			if email == "" || password == "" {
				return errors.New("email y contraseña son obligatorios")
			}
			out, err := app.Client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Sesión iniciada como %s (%s)\n", out.User.Email, out.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email del usuario")
	cmd.Flags().StringVar(&password, "password", "", "contraseña (si se omite se pide por la entrada)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión local",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := app.Client.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "Sesión cerrada")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Muestra el usuario de la sesión",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := app.Client.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%s <%s> rol=%s\n", u.Name, u.Email, u.Role)
			return nil
		},
	}
}

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "summary",
		Aliases: []string{"resumen"},
		Short:   "Resumen de ventas de hoy y del mes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.Client.Summary(cmd.Context())
			if err != nil {
				return err
			}
			console.RenderSummary(app.Out, s)
			return nil
		},
	}
}
