package dto

import "github.com/shopspring/decimal"

// SalesMetricsResponse totales de un período.
type SalesMetricsResponse struct {
	From    string          `json:"from"`
	To      string          `json:"to"`
	Count   int             `json:"count"`
	Units   int             `json:"units"`
	Revenue decimal.Decimal `json:"revenue"`
}

// TopProductResponse producto destacado del mes.
type TopProductResponse struct {
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Units       int             `json:"units"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// SalesSummaryResponse salida de GET /api/dashboard/summary.
type SalesSummaryResponse struct {
	Today       SalesMetricsResponse `json:"today"`
	Month       SalesMetricsResponse `json:"month"`
	TopProducts []TopProductResponse `json:"top_products"`
	MonthLabel  string               `json:"month_label"`
}
