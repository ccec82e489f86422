// Package sale arma una venta en memoria antes de enviarla: líneas de producto,
// subtotal siempre consistente con el catálogo y validación previa al envío.
//
// Ninguna operación falla ni hace panic: los estados inválidos que produce el
// usuario (producto sin elegir, cantidad negativa, índice fuera de rango) se
// reflejan en Validate, que es lo que bloquea la persistencia.
package sale

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-admin/internal/domain/validation"
)

// DateLayout formato de fecha de una venta (ISO, sin hora).
const DateLayout = "2006-01-02"

// LineItem línea en edición. Qty conserva el valor crudo ingresado, aunque sea
// inválido, para poder mostrarlo y reportarlo en la validación.
type LineItem struct {
	ProductCode string
	Qty         int
}

// Draft venta en edición, todavía sin InvoiceID.
type Draft struct {
	Date       string
	CustomerID int64
	Subtotal   decimal.Decimal
	Items      []LineItem
}

// RecomputeSubtotal suma price*qty de cada línea cuyo producto existe en el catálogo.
// Líneas sin producto resuelto o con qty < 1 aportan 0. No modifica sus argumentos.
func RecomputeSubtotal(items []LineItem, catalog Catalog) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.Qty < 1 {
			continue
		}
		p, ok := lookup(catalog, it.ProductCode)
		if !ok {
			continue
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	return total
}

// Validate aplica las reglas de envío. Mapa vacío significa que la venta es enviable.
func Validate(d Draft, catalog Catalog) validation.Errors {
	errs := validation.Errors{}
	if strings.TrimSpace(d.Date) == "" {
		errs.Add("date", validation.MsgRequired)
	}
	if d.CustomerID <= 0 {
		errs.Add("customer_id", validation.MsgRequired)
	}
	if d.Subtotal.IsNegative() {
		errs.Add("subtotal", validation.MsgMinZero)
	}
	if len(d.Items) == 0 {
		errs.Add("items", validation.MsgAtLeastOneItem)
	}
	for i, it := range d.Items {
		switch {
		case strings.TrimSpace(it.ProductCode) == "":
			errs.Add(validation.ItemField(i, "product_code"), validation.MsgRequired)
		default:
			if _, ok := lookup(catalog, it.ProductCode); !ok {
				errs.Add(validation.ItemField(i, "product_code"), validation.MsgNotFound)
			}
		}
		switch {
		case it.Qty < 1:
			errs.Add(validation.ItemField(i, "qty"), validation.MsgMinOne)
		case it.Qty > validation.MaxQty:
			errs.Add(validation.ItemField(i, "qty"), validation.MsgMaxQty)
		}
	}
	return errs
}

// ParseQuantity interpreta la cantidad escrita por el usuario; lo no numérico vale 0.
func ParseQuantity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Composer mantiene una venta en edición. Tras cada cambio de líneas, productos,
// cantidades o catálogo el subtotal se recalcula de inmediato.
// No es seguro para uso concurrente: pertenece a un único formulario.
type Composer struct {
	catalog Catalog
	draft   Draft
}

// NewComposer arranca con fecha today y una línea vacía de cantidad 1.
func NewComposer(catalog Catalog, today time.Time) *Composer {
	c := &Composer{
		catalog: catalog,
		draft: Draft{
			Date:  today.Format(DateLayout),
			Items: []LineItem{{Qty: 1}},
		},
	}
	c.recompute()
	return c
}

// AddItem agrega una línea sin producto y cantidad 1.
func (c *Composer) AddItem() {
	c.draft.Items = append(c.draft.Items, LineItem{Qty: 1})
	c.recompute()
}

// RemoveItem quita la línea index. No hace nada si es la última o si el índice no existe.
func (c *Composer) RemoveItem(index int) {
	if len(c.draft.Items) <= 1 || !c.inRange(index) {
		return
	}
	c.draft.Items = append(c.draft.Items[:index:index], c.draft.Items[index+1:]...)
	c.recompute()
}

// SetItemProduct cambia el producto de la línea index.
func (c *Composer) SetItemProduct(index int, productCode string) {
	if !c.inRange(index) {
		return
	}
	c.draft.Items[index].ProductCode = productCode
	c.recompute()
}

// SetItemQuantity cambia la cantidad de la línea index, guardando el valor tal cual.
func (c *Composer) SetItemQuantity(index int, qty int) {
	if !c.inRange(index) {
		return
	}
	c.draft.Items[index].Qty = qty
	c.recompute()
}

// SetCustomer asigna el cliente.
func (c *Composer) SetCustomer(customerID int64) {
	c.draft.CustomerID = customerID
}

// SetDate asigna la fecha (YYYY-MM-DD).
func (c *Composer) SetDate(date string) {
	c.draft.Date = date
}

// SetCatalog reemplaza el catálogo, típicamente cuando termina de cargar la lista de productos.
func (c *Composer) SetCatalog(catalog Catalog) {
	c.catalog = catalog
	c.recompute()
}

// Catalog devuelve el catálogo actual.
func (c *Composer) Catalog() Catalog { return c.catalog }

// Items devuelve una copia de las líneas.
func (c *Composer) Items() []LineItem {
	return append([]LineItem(nil), c.draft.Items...)
}

// Subtotal devuelve el subtotal vigente.
func (c *Composer) Subtotal() decimal.Decimal { return c.draft.Subtotal }

// Draft devuelve una copia de la venta en edición.
func (c *Composer) Draft() Draft {
	d := c.draft
	d.Items = c.Items()
	return d
}

// Validate valida la venta en edición contra el catálogo actual.
func (c *Composer) Validate() validation.Errors {
	return Validate(c.draft, c.catalog)
}

func (c *Composer) inRange(index int) bool {
	return index >= 0 && index < len(c.draft.Items)
}

func (c *Composer) recompute() {
	c.draft.Subtotal = RecomputeSubtotal(c.draft.Items, c.catalog)
}
