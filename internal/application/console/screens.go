package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/internal/application/resource"
	"github.com/jhoicas/ventas-admin/internal/domain"
	"github.com/jhoicas/ventas-admin/internal/domain/validation"
	"github.com/jhoicas/ventas-admin/pkg/money"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}

func pageFooter(w io.Writer, total, page, limit int) {
	p := dto.Page[struct{}]{Total: total, Page: page, Limit: limit}
	fmt.Fprintf(w, "Página %d de %d · %d registros\n", page, p.TotalPages(), total)
}

// RenderCustomers tabla de clientes.
func RenderCustomers(w io.Writer, page *dto.Page[dto.CustomerResponse]) {
	table := newTable(w, []string{"ID", "Nombre", "Ciudad", "Género"})
	for _, c := range page.Data {
		table.Append([]string{strconv.FormatInt(c.ID, 10), c.Name, c.City, c.Gender})
	}
	table.Render()
	pageFooter(w, page.Total, page.Page, page.Limit)
}

// RenderProducts tabla de productos con precio en rupias.
func RenderProducts(w io.Writer, page *dto.Page[dto.ProductResponse]) {
	table := newTable(w, []string{"Código", "Nombre", "Categoría", "Precio", "Color"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
	})
	for _, p := range page.Data {
		table.Append([]string{p.Code, p.Name, p.Category, money.FormatRupiah(p.Price), p.Color})
	}
	table.Render()
	pageFooter(w, page.Total, page.Page, page.Limit)
}

// RenderSales tabla de ventas. customerNames puede ser nil.
func RenderSales(w io.Writer, page *dto.Page[dto.SaleResponse], customerNames map[int64]string) {
	table := newTable(w, []string{"Factura", "Fecha", "Cliente", "Ítems", "Subtotal"})
	for _, s := range page.Data {
		customer := customerNames[s.CustomerID]
		if customer == "" {
			customer = "#" + strconv.FormatInt(s.CustomerID, 10)
		}
		table.Append([]string{s.InvoiceID, money.FormatDate(s.Date), customer, strconv.Itoa(len(s.Items)), money.FormatRupiah(s.Subtotal)})
	}
	table.Render()
	pageFooter(w, page.Total, page.Page, page.Limit)
}

// RenderSaleDetail cabecera y líneas de una venta. productNames puede ser nil.
func RenderSaleDetail(w io.Writer, s *dto.SaleResponse, customerName string, productNames map[string]string) {
	fmt.Fprintf(w, "Factura: %s\nFecha:   %s\nCliente: %s\n", s.InvoiceID, money.FormatDate(s.Date), customerName)
	table := newTable(w, []string{"Producto", "Cant.", "Precio", "Total"})
	for _, it := range s.Items {
		name := productNames[it.ProductCode]
		if name == "" {
			name = it.ProductCode
		}
		table.Append([]string{name, strconv.Itoa(it.Qty), money.FormatRupiah(it.UnitPrice), money.FormatRupiah(it.LineTotal)})
	}
	table.SetFooter([]string{"", "", "Subtotal", money.FormatRupiah(s.Subtotal)})
	table.Render()
}

// RenderSummary resumen de ventas del día y del mes con los productos destacados.
func RenderSummary(w io.Writer, s *dto.SalesSummaryResponse) {
	table := newTable(w, []string{"Período", "Ventas", "Unidades", "Ingresos"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	table.Append([]string{"Hoy " + money.FormatDate(s.Today.From), strconv.Itoa(s.Today.Count), strconv.Itoa(s.Today.Units), money.FormatRupiah(s.Today.Revenue)})
	table.Append([]string{s.MonthLabel, strconv.Itoa(s.Month.Count), strconv.Itoa(s.Month.Units), money.FormatRupiah(s.Month.Revenue)})
	table.Render()

	if len(s.TopProducts) == 0 {
		fmt.Fprintln(w, "Sin ventas en el mes.")
		return
	}
	top := newTable(w, []string{"#", "Producto", "Unidades", "Ingresos"})
	for i, p := range s.TopProducts {
		top.Append([]string{strconv.Itoa(i + 1), p.ProductName + " (" + p.ProductCode + ")", strconv.Itoa(p.Units), money.FormatRupiah(p.Revenue)})
	}
	top.Render()
}

// RenderSaleForm estado del formulario: líneas, subtotal y errores por campo.
func RenderSaleForm(w io.Writer, f *SaleForm) {
	d := f.Composer().Draft()
	fmt.Fprintf(w, "Fecha: %s  Cliente: %s\n", d.Date, customerLabel(f, d.CustomerID))
	table := newTable(w, []string{"#", "Producto", "Cant.", "Total", ""})
	catalog := f.Composer().Catalog()
	for i, it := range d.Items {
		lineTotal := "-"
		if catalog != nil && it.Qty >= 1 {
			if p, ok := catalog.Lookup(it.ProductCode); ok {
				lineTotal = money.FormatRupiah(p.Price.Mul(decimal.NewFromInt(int64(it.Qty))))
			}
		}
		msg := f.Errors()[validation.ItemField(i, "product_code")]
		if qtyMsg := f.Errors()[validation.ItemField(i, "qty")]; qtyMsg != "" {
			if msg != "" {
				msg += "; "
			}
			msg += "qty " + qtyMsg
		}
		table.Append([]string{strconv.Itoa(i + 1), f.ProductName(it.ProductCode), strconv.Itoa(it.Qty), lineTotal, msg})
	}
	table.SetFooter([]string{"", "", "Subtotal", money.FormatRupiah(d.Subtotal), ""})
	table.Render()
	for _, field := range []string{"date", "customer_id", "subtotal", "items"} {
		if msg, ok := f.Errors()[field]; ok {
			fmt.Fprintf(w, "  %s: %s\n", field, msg)
		}
	}
}

func customerLabel(f *SaleForm, id int64) string {
	if id <= 0 {
		return "(sin elegir)"
	}
	for _, c := range f.Customers() {
		if c.ID == id {
			return c.Name
		}
	}
	return "#" + strconv.FormatInt(id, 10)
}

// ErrorMessage texto para el usuario según el tipo de error.
func ErrorMessage(err error) string {
	var (
		fe *resource.FetchError
		oe *resource.OperationError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrUnauthorized):
		return "La sesión expiró. Inicia sesión de nuevo con `admin login`."
	case errors.Is(err, domain.ErrUnsupported):
		return "Operación no disponible."
	}
	if fields, ok := validation.FieldsOf(err); ok {
		msg := "Revisa los datos:"
		for _, f := range fields.Fields() {
			msg += fmt.Sprintf("\n  %s: %s", f, fields[f])
		}
		return msg
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "No se encontró el registro."
	case errors.Is(err, domain.ErrConflict):
		return "No se puede completar: el registro está en uso."
	case errors.Is(err, domain.ErrForbidden):
		return "Tu rol no tiene permiso para esta operación."
	case errors.As(err, &fe):
		return "No se pudieron cargar los datos: " + fe.Err.Error()
	case errors.As(err, &oe):
		return "No se pudo guardar: " + oe.Err.Error()
	}
	return "Error: " + err.Error()
}
