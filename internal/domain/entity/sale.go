package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa la cabecera de una venta. InvoiceID lo asigna la persistencia
// (INV-YYYYMMDD-NNNNN); una venta solo se crea o se elimina, nunca se actualiza.
type Sale struct {
	InvoiceID  string
	Date       time.Time
	CustomerID int64
	Subtotal   decimal.Decimal // derivado: suma de qty * precio de cada línea
	Items      []SaleItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SaleItem representa una línea de la venta. UnitPrice congela el precio del
// producto al momento de la venta para los comprobantes.
type SaleItem struct {
	ID          int64
	InvoiceID   string
	ProductCode string
	Qty         int
	UnitPrice   decimal.Decimal
	CreatedAt   time.Time
}

// LineTotal devuelve qty * precio unitario.
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Qty)))
}
