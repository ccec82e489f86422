package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea del alta de venta.
type SaleItemRequest struct {
	ProductCode string `json:"product_code"`
	Qty         int    `json:"qty"`
}

// CreateSaleRequest body para POST /api/sales. Date en formato YYYY-MM-DD.
// Subtotal es informativo: el servidor lo recalcula con los precios vigentes.
type CreateSaleRequest struct {
	Date       string            `json:"date"`
	CustomerID int64             `json:"customer_id"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	Items      []SaleItemRequest `json:"items"`
}

// UpdateSaleRequest existe solo para completar la firma genérica de los recursos;
// las ventas no se actualizan.
type UpdateSaleRequest struct{}

// SaleItemResponse línea de una venta persistida.
type SaleItemResponse struct {
	ProductCode string          `json:"product_code"`
	Qty         int             `json:"qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	InvoiceID  string             `json:"invoice_id"`
	Date       string             `json:"date"`
	CustomerID int64              `json:"customer_id"`
	Subtotal   decimal.Decimal    `json:"subtotal"`
	Items      []SaleItemResponse `json:"items"`
	CreatedAt  time.Time          `json:"created_at"`
}
