// Package analytics contiene el resumen de ventas del panel: lo vendido hoy, lo
// vendido en el mes en curso y los productos con más ingresos del mes.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/internal/domain/repository"
)

const dashboardTopProducts = 5

const dateLayout = "2006-01-02"

// DashboardUseCase genera el resumen del día y del mes en curso.
// No lee la tabla de ventas directamente; delega todo en AnalyticsRepository.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso. now nil usa time.Now.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, now func() time.Time) *DashboardUseCase {
	if now == nil {
		now = time.Now
	}
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: now}
}

// GetSummary lanza las tres consultas en paralelo:
//  1. GetSalesMetrics(hoy)
//  2. GetSalesMetrics(día 1 del mes .. hoy)
//  3. GetTopProducts(mes, top 5)
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.SalesSummaryResponse, error) {
	now := uc.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	type metricsResult struct {
		m   repository.SalesMetrics
		err error
	}
	type topResult struct {
		top []repository.TopProduct
		err error
	}

	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, today, today)
		todayCh <- metricsResult{m, err}
	}()
	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, monthStart, today)
		monthCh <- metricsResult{m, err}
	}()
	go func() {
		top, err := uc.analyticsRepo.GetTopProducts(ctx, monthStart, today, dashboardTopProducts)
		topCh <- topResult{top, err}
	}()

	todayRes := <-todayCh
	monthRes := <-monthCh
	topRes := <-topCh

	if todayRes.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de hoy: %w", todayRes.err)
	}
	if monthRes.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", monthRes.err)
	}
	if topRes.err != nil {
		return nil, fmt.Errorf("dashboard: productos destacados: %w", topRes.err)
	}

	top := make([]dto.TopProductResponse, 0, len(topRes.top))
	for _, p := range topRes.top {
		top = append(top, dto.TopProductResponse{
			ProductCode: p.ProductCode,
			ProductName: p.ProductName,
			Units:       p.Units,
			Revenue:     p.Revenue.Round(2),
		})
	}
	return &dto.SalesSummaryResponse{
		Today:       metricsDTO(todayRes.m, today, today),
		Month:       metricsDTO(monthRes.m, monthStart, today),
		TopProducts: top,
		MonthLabel:  monthLabel(now),
	}, nil
}

func metricsDTO(m repository.SalesMetrics, from, to time.Time) dto.SalesMetricsResponse {
	return dto.SalesMetricsResponse{
		From:    from.Format(dateLayout),
		To:      to.Format(dateLayout),
		Count:   m.Count,
		Units:   m.Units,
		Revenue: m.Revenue.Round(2),
	}
}

// monthLabel etiqueta legible del mes, ej: "Octubre 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
