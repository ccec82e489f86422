package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetrics totales de las ventas de un período.
type SalesMetrics struct {
	Count   int
	Units   int
	Revenue decimal.Decimal // suma de subtotales
}

// TopProduct producto con sus unidades e ingresos en un período.
type TopProduct struct {
	ProductCode string
	ProductName string
	Units       int
	Revenue     decimal.Decimal // suma de qty * precio congelado en la línea
}

// AnalyticsRepository consultas de solo lectura para el resumen de ventas.
// Los rangos son de fechas de venta, ambos extremos inclusive.
type AnalyticsRepository interface {
	// GetSalesMetrics devuelve cero si no hay ventas en el período.
	GetSalesMetrics(ctx context.Context, from, to time.Time) (SalesMetrics, error)

	// GetTopProducts ordena por ingreso descendente y, a igual ingreso, por código.
	GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error)
}
