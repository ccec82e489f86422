package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/ventas-admin/internal/application/console"
	"github.com/jhoicas/ventas-admin/internal/domain/sale"
)

// ErrSaleCancelled el usuario abandonó el formulario sin enviar.
var ErrSaleCancelled = errors.New("venta cancelada")

const composeHelp = `Órdenes:
  cliente <id>              elige el cliente
  fecha <YYYY-MM-DD>        cambia la fecha
  agregar [CODIGO [CANT]]   agrega una línea
  producto <n> <CODIGO>     cambia el producto de la línea n
  cantidad <n> <CANT>       cambia la cantidad de la línea n
  quitar <n>                elimina la línea n
  clientes | productos      muestra las opciones cargadas
  enviar                    valida y registra la venta
  cancelar                  sale sin guardar
`

// composeInteractive edita la venta línea a línea. Tras cada cambio se muestra el
// formulario con el subtotal recalculado; un envío fallido conserva lo editado.
func composeInteractive(cmd *cobra.Command, app *App, form *console.SaleForm) error {
	c := form.Composer()
	console.RenderSaleForm(app.Out, form)
	for {
		line, ok := app.prompt("> ")
		if !ok {
			return ErrSaleCancelled
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		args := fields[1:]
		switch fields[0] {
		case "ayuda", "help":
			fmt.Fprint(app.Out, composeHelp)
			continue
		case "cancelar", "salir":
			return ErrSaleCancelled
		case "clientes":
			for _, cu := range form.Customers() {
				fmt.Fprintf(app.Out, "  %d  %s (%s)\n", cu.ID, cu.Name, cu.City)
			}
			continue
		case "productos":
			for _, p := range form.Products() {
				fmt.Fprintf(app.Out, "  %s  %s\n", p.Code, p.Name)
			}
			continue
		case "enviar":
			if _, err := submitSale(cmd, app, form); err != nil {
				fmt.Fprintln(app.Out, console.ErrorMessage(err))
				continue
			}
			return nil
		case "cliente":
			if len(args) != 1 {
				break
			}
			id, _ := strconv.ParseInt(args[0], 10, 64)
			c.SetCustomer(id)
		case "fecha":
			if len(args) != 1 {
				break
			}
			c.SetDate(args[0])
		case "agregar":
			c.AddItem()
			idx := len(c.Items()) - 1
			if len(args) > 0 {
				c.SetItemProduct(idx, productCode(args[0]))
			}
			if len(args) > 1 {
				c.SetItemQuantity(idx, sale.ParseQuantity(args[1]))
			}
		case "producto":
			if len(args) != 2 {
				break
			}
			c.SetItemProduct(lineIndex(args[0]), productCode(args[1]))
		case "cantidad":
			if len(args) != 2 {
				break
			}
			c.SetItemQuantity(lineIndex(args[0]), sale.ParseQuantity(args[1]))
		case "quitar":
			if len(args) != 1 {
				break
			}
			c.RemoveItem(lineIndex(args[0]))
		default:
			fmt.Fprintf(app.Out, "Orden desconocida %q; escribe \"ayuda\"\n", fields[0])
			continue
		}
		console.RenderSaleForm(app.Out, form)
	}
}

// lineIndex convierte el número de línea (desde 1) en índice; lo inválido queda fuera de rango.
func lineIndex(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n - 1
}
