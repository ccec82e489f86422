package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-admin/internal/domain/repository"
)

// Analytics devuelve el repo de consultas del resumen.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{s: s} }

// AnalyticsRepo agrega las ventas en memoria con las mismas reglas que la consulta SQL.
type AnalyticsRepo struct{ s *Store }

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

func inRange(d, from, to time.Time) bool {
	day := d.Format("2006-01-02")
	return day >= from.Format("2006-01-02") && day <= to.Format("2006-01-02")
}

func (r *AnalyticsRepo) GetSalesMetrics(_ context.Context, from, to time.Time) (repository.SalesMetrics, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m := repository.SalesMetrics{Revenue: decimal.Zero}
	for _, sale := range r.s.sales {
		if !inRange(sale.Date, from, to) {
			continue
		}
		m.Count++
		m.Revenue = m.Revenue.Add(sale.Subtotal)
		for _, it := range sale.Items {
			m.Units += it.Qty
		}
	}
	return m, nil
}

func (r *AnalyticsRepo) GetTopProducts(_ context.Context, from, to time.Time, limit int) ([]repository.TopProduct, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	byCode := map[string]*repository.TopProduct{}
	for _, sale := range r.s.sales {
		if !inRange(sale.Date, from, to) {
			continue
		}
		for _, it := range sale.Items {
			tp, ok := byCode[it.ProductCode]
			if !ok {
				tp = &repository.TopProduct{
					ProductCode: it.ProductCode,
					ProductName: r.s.products[it.ProductCode].Name,
					Revenue:     decimal.Zero,
				}
				byCode[it.ProductCode] = tp
			}
			tp.Units += it.Qty
			tp.Revenue = tp.Revenue.Add(it.LineTotal())
		}
	}
	out := make([]repository.TopProduct, 0, len(byCode))
	for _, tp := range byCode {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].ProductCode < out[j].ProductCode
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
