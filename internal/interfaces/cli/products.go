package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/ventas-admin/internal/application/console"
	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/internal/domain/entity"
)

func newProductsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"productos"},
		Short:   "Gestión de productos",
	}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista productos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := fetchPage[dto.ProductResponse, string, dto.CreateProductRequest, dto.UpdateProductRequest](cmd, app, "products", app.Client.Products(), lf)
			if err != nil {
				return err
			}
			console.RenderProducts(app.Out, page)
			return nil
		},
	}
	lf.bind(list)

	get := &cobra.Command{
		Use:   "get <code>",
		Short: "Muestra un producto",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Client.Products().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			console.RenderProducts(app.Out, &dto.Page[dto.ProductResponse]{Data: []dto.ProductResponse{*p}, Total: 1, Page: 1, Limit: 1})
			return nil
		},
	}

	var (
		in    dto.CreateProductRequest
		price string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Da de alta un producto; sin --code el servidor asigna uno",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := parsePrice(price)
			if err != nil {
				return err
			}
			in.Price = p
			out, err := app.Client.Products().Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Producto %s creado\n", out.Code)
			return nil
		},
	}
	create.Flags().StringVar(&in.Code, "code", "", "código (opcional)")
	create.Flags().StringVar(&in.Name, "name", "", "nombre")
	create.Flags().StringVar(&in.Category, "category", "", categoryHelp())
	create.Flags().StringVar(&price, "price", "0", "precio")
	create.Flags().StringVar(&in.Color, "color", "", "color")

	update := &cobra.Command{
		Use:   "update <code>",
		Short: "Edita los campos indicados de un producto",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.UpdateProductRequest{
				Name:     optionalString(cmd, "name"),
				Category: optionalString(cmd, "category"),
				Color:    optionalString(cmd, "color"),
			}
			if raw := optionalString(cmd, "price"); raw != nil {
				p, err := parsePrice(*raw)
				if err != nil {
					return err
				}
				req.Price = &p
			}
			if _, err := app.Client.Products().Update(cmd.Context(), args[0], req); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Producto %s actualizado\n", args[0])
			return nil
		},
	}
	update.Flags().String("name", "", "nombre")
	update.Flags().String("category", "", categoryHelp())
	update.Flags().String("price", "", "precio")
	update.Flags().String("color", "", "color")

	del := &cobra.Command{
		Use:   "delete <code>",
		Short: "Elimina un producto (solo admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := productCode(args[0])
			if !app.confirmDelete(cmd, "el producto "+code) {
				return nil
			}
			if err := app.Client.Products().Delete(cmd.Context(), code); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Producto %s eliminado\n", code)
			return nil
		},
	}

	addYesFlag(del)

	cmd.AddCommand(list, get, create, update, del)
	return cmd
}

func categoryHelp() string {
	names := make([]string, 0, len(entity.Categories))
	for _, c := range entity.Categories {
		names = append(names, string(c))
	}
	return "categoría (" + strings.Join(names, "|") + ")"
}

func parsePrice(s string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("precio inválido: %q", s)
	}
	return p, nil
}
