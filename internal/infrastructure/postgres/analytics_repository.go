package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ventas-admin/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de lectura del resumen de ventas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesMetrics cantidad de ventas, unidades e ingresos del período.
// COALESCE devuelve cero cuando no hay ventas.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, from, to time.Time) (repository.SalesMetrics, error) {
	const query = `
	SELECT
	    COUNT(*)                                                         AS sale_count,
	    COALESCE(SUM(s.subtotal), 0)                                     AS revenue,
	    COALESCE(SUM((SELECT SUM(i.qty) FROM sale_items i
	                   WHERE i.invoice_id = s.invoice_id)), 0)::int       AS units
	FROM sales s
	WHERE s.date BETWEEN $1::date AND $2::date`

	var m repository.SalesMetrics
	if err := r.q.QueryRow(ctx, query, from, to).Scan(&m.Count, &m.Revenue, &m.Units); err != nil {
		return repository.SalesMetrics{}, fmt.Errorf("analytics.GetSalesMetrics: %w", err)
	}
	return m, nil
}

// GetTopProducts productos con más ingresos del período.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.TopProduct, error) {
	const query = `
	SELECT
	    p.code,
	    p.name,
	    SUM(i.qty)::int                AS units,
	    SUM(i.qty * i.unit_price)      AS revenue
	FROM sale_items i
	JOIN sales s    ON s.invoice_id = i.invoice_id
	JOIN products p ON p.code = i.product_code
	WHERE s.date BETWEEN $1::date AND $2::date
	GROUP BY p.code, p.name
	ORDER BY revenue DESC, p.code
	LIMIT $3`

	rows, err := r.q.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts: %w", err)
	}
	defer rows.Close()

	results := []repository.TopProduct{}
	for rows.Next() {
		var item repository.TopProduct
		if err := rows.Scan(&item.ProductCode, &item.ProductName, &item.Units, &item.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.GetTopProducts scan: %w", err)
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("analytics.GetTopProducts rows: %w", err)
	}
	return results, nil
}
