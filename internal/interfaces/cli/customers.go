package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jhoicas/ventas-admin/internal/application/console"
	"github.com/jhoicas/ventas-admin/internal/application/dto"
)

func newCustomersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"clientes"},
		Short:   "Gestión de clientes",
	}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista clientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := fetchPage[dto.CustomerResponse, int64, dto.CustomerRequest, dto.UpdateCustomerRequest](cmd, app, "customers", app.Client.Customers(), lf)
			if err != nil {
				return err
			}
			console.RenderCustomers(app.Out, page)
			return nil
		},
	}
	lf.bind(list)

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Muestra un cliente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := app.Client.Customers().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			console.RenderCustomers(app.Out, &dto.Page[dto.CustomerResponse]{Data: []dto.CustomerResponse{*c}, Total: 1, Page: 1, Limit: 1})
			return nil
		},
	}

	var in dto.CustomerRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Da de alta un cliente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := app.Client.Customers().Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Cliente %d creado\n", c.ID)
			return nil
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "nombre")
	create.Flags().StringVar(&in.City, "city", "", "ciudad")
	create.Flags().StringVar(&in.Gender, "gender", "", "género (male|female)")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Edita los campos indicados de un cliente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req := dto.UpdateCustomerRequest{
				Name:   optionalString(cmd, "name"),
				City:   optionalString(cmd, "city"),
				Gender: optionalString(cmd, "gender"),
			}
			if _, err := app.Client.Customers().Update(cmd.Context(), id, req); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Cliente %d actualizado\n", id)
			return nil
		},
	}
	update.Flags().String("name", "", "nombre")
	update.Flags().String("city", "", "ciudad")
	update.Flags().String("gender", "", "género (male|female)")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Elimina un cliente (solo admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !app.confirmDelete(cmd, fmt.Sprintf("el cliente %d", id)) {
				return nil
			}
			if err := app.Client.Customers().Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Cliente %d eliminado\n", id)
			return nil
		},
	}

	addYesFlag(del)

	cmd.AddCommand(list, get, create, update, del)
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id inválido: %q", s)
	}
	return id, nil
}
