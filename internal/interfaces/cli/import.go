package cli

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/internal/infrastructure/csvimport"
)

func newImportCmd(app *App) *cobra.Command {
	var (
		latin1 bool
		comma  string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Carga masiva de clientes o productos desde CSV",
	}
	cmd.PersistentFlags().BoolVar(&latin1, "latin1", false, "el archivo está en ISO-8859-1")
	cmd.PersistentFlags().StringVar(&comma, "comma", ",", "separador de columnas")

	options := func() (csvimport.Options, error) {
		r, size := utf8.DecodeRuneInString(comma)
		if size == 0 || size != len(comma) {
			return csvimport.Options{}, fmt.Errorf("separador inválido: %q", comma)
		}
		return csvimport.Options{Latin1: latin1, Comma: r}, nil
	}

	customers := &cobra.Command{
		Use:   "customers <archivo.csv>",
		Short: "Importa clientes (columnas name, city, gender)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			rows, err := csvimport.ReadCustomers(f, opts)
			if err != nil {
				return err
			}
			res, err := csvimport.Import[dto.CustomerRequest, dto.CustomerResponse](cmd.Context(), rows, app.Client.Customers(), app.Log)
			printImportResult(app, res)
			return err
		},
	}

	products := &cobra.Command{
		Use:   "products <archivo.csv>",
		Short: "Importa productos (columnas code opcional, name, category, price, color)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := options()
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			rows, err := csvimport.ReadProducts(f, opts)
			if err != nil {
				return err
			}
			res, err := csvimport.Import[dto.CreateProductRequest, dto.ProductResponse](cmd.Context(), rows, app.Client.Products(), app.Log)
			printImportResult(app, res)
			return err
		},
	}

	cmd.AddCommand(customers, products)
	return cmd
}

func printImportResult(app *App, res csvimport.Result) {
	fmt.Fprintf(app.Out, "Importados: %d · Rechazados: %d\n", res.Created, len(res.Failed))
	for _, f := range res.Failed {
		fmt.Fprintf(app.Out, "  %s\n", f.Error())
	}
}
