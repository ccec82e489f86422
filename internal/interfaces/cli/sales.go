package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/ventas-admin/internal/application/console"
	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/internal/domain/sale"
	"github.com/jhoicas/ventas-admin/pkg/money"
)

func newSalesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sales",
		Aliases: []string{"ventas"},
		Short:   "Ventas: alta, consulta, baja y comprobante",
	}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "Lista ventas, las más recientes primero",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := fetchPage[dto.SaleResponse, string, dto.CreateSaleRequest, dto.UpdateSaleRequest](cmd, app, "sales", app.Client.Sales(), lf)
			if err != nil {
				return err
			}
			var names map[int64]string
			if len(page.Data) > 0 {
				customers, err := console.ListAll[dto.CustomerResponse](cmd.Context(), app.Client.Customers())
				if err != nil {
					app.Log.Warn().Err(err).Msg("no se pudieron cargar los nombres de clientes")
				}
				names = customerNames(customers)
			}
			console.RenderSales(app.Out, page, names)
			return nil
		},
	}
	lf.bind(list)

	get := &cobra.Command{
		Use:   "get <invoice-id>",
		Short: "Muestra una venta con sus líneas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Client.Sales().Get(ctx, args[0])
			if err != nil {
				return err
			}
			customer := fmt.Sprintf("#%d", s.CustomerID)
			if c, err := app.Client.Customers().Get(ctx, s.CustomerID); err == nil {
				customer = c.Name
			}
			products, err := console.ListAll[dto.ProductResponse](ctx, app.Client.Products())
			if err != nil {
				app.Log.Warn().Err(err).Msg("no se pudieron cargar los nombres de productos")
			}
			names := make(map[string]string, len(products))
			for _, p := range products {
				names[p.Code] = p.Name
			}
			console.RenderSaleDetail(app.Out, s, customer, names)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <invoice-id>",
		Short: "Elimina una venta (solo admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.confirmDelete(cmd, "la venta "+args[0]) {
				return nil
			}
			if err := app.Client.Sales().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Venta %s eliminada\n", args[0])
			return nil
		},
	}

	var output string
	receipt := &cobra.Command{
		Use:   "receipt <invoice-id>",
		Short: "Descarga el comprobante PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdf, filename, err := app.Client.Sales().Receipt(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = filename
			}
			if err := os.WriteFile(output, pdf, 0o644); err != nil {
				return fmt.Errorf("guardar comprobante: %w", err)
			}
			fmt.Fprintf(app.Out, "Comprobante guardado en %s\n", output)
			return nil
		},
	}
	receipt.Flags().StringVarP(&output, "output", "o", "", "archivo destino (por defecto el nombre que indica el servidor)")

	addYesFlag(del)

	cmd.AddCommand(list, get, newSaleCreateCmd(app), del, receipt)
	return cmd
}

func newSaleCreateCmd(app *App) *cobra.Command {
	var (
		customer    int64
		date        string
		items       []string
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Registra una venta",
		Long: `Registra una venta. Con flags se arma y envía directamente:

  admin sales create --customer 4 --item PRD-00001:2 --item PRD-00002:1

Con -i se abre el formulario interactivo; escribe "ayuda" para ver las órdenes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form := console.NewSaleForm(app.now())
			if err := form.Load(cmd.Context(), app.Client.Customers(), app.Client.Products()); err != nil {
				return err
			}
			c := form.Composer()
			if date != "" {
				c.SetDate(date)
			}
			if customer > 0 {
				c.SetCustomer(customer)
			}
			for i, raw := range items {
				code, qty, _ := strings.Cut(raw, ":")
				if i > 0 {
					c.AddItem()
				}
				c.SetItemProduct(i, productCode(code))
				if qty != "" {
					c.SetItemQuantity(i, sale.ParseQuantity(qty))
				}
			}
			if interactive {
				return composeInteractive(cmd, app, form)
			}
			_, err := submitSale(cmd, app, form)
			return err
		},
	}
	cmd.Flags().Int64Var(&customer, "customer", 0, "id del cliente")
	cmd.Flags().StringVar(&date, "date", "", "fecha YYYY-MM-DD (por defecto hoy)")
	cmd.Flags().StringArrayVar(&items, "item", nil, "línea CODIGO:CANTIDAD (repetible)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "formulario interactivo")
	return cmd
}

func submitSale(cmd *cobra.Command, app *App, form *console.SaleForm) (*dto.SaleResponse, error) {
	out, err := form.Submit(cmd.Context(), app.Client.Sales())
	if err != nil {
		if len(form.Errors()) > 0 {
			console.RenderSaleForm(app.Out, form)
		}
		return nil, err
	}
	fmt.Fprintf(app.Out, "Venta %s registrada por %s\n", out.InvoiceID, money.FormatRupiah(out.Subtotal))
	return out, nil
}

func customerNames(customers []dto.CustomerResponse) map[int64]string {
	names := make(map[int64]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}
	return names
}
