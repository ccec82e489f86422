package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/internal/application/resource"
	"github.com/jhoicas/ventas-admin/internal/domain"
	"github.com/jhoicas/ventas-admin/internal/domain/validation"
)

type sliceLister[T any] struct {
	data  []T
	err   error
	calls atomic.Int32
}

func (l *sliceLister[T]) List(_ context.Context, q dto.ListQuery) (*dto.Page[T], error) {
	l.calls.Add(1)
	if l.err != nil {
		return nil, l.err
	}
	q.Normalize()
	start := q.Offset()
	if start > len(l.data) {
		start = len(l.data)
	}
	end := start + q.Limit
	if end > len(l.data) {
		end = len(l.data)
	}
	return &dto.Page[T]{Data: l.data[start:end], Total: len(l.data), Page: q.Page, Limit: q.Limit}, nil
}

type creatorFunc func(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error)

func (f creatorFunc) Create(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	return f(ctx, in)
}

var today = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func loadedForm(t *testing.T) *SaleForm {
	t.Helper()
	customers := &sliceLister[dto.CustomerResponse]{data: []dto.CustomerResponse{{ID: 4, Name: "Rina"}}}
	products := &sliceLister[dto.ProductResponse]{data: []dto.ProductResponse{
		{Code: "P1", Name: "Kaos", Price: decimal.NewFromInt(10)},
		{Code: "P2", Name: "Topi", Price: decimal.NewFromInt(5)},
	}}
	f := NewSaleForm(today)
	require.NoError(t, f.Load(context.Background(), customers, products))
	return f
}

func TestLoad_RecorreTodasLasPaginas(t *testing.T) {
	var products []dto.ProductResponse
	for i := 1; i <= 250; i++ {
		products = append(products, dto.ProductResponse{Code: fmt.Sprintf("P%03d", i), Price: decimal.NewFromInt(1)})
	}
	pl := &sliceLister[dto.ProductResponse]{data: products}
	cl := &sliceLister[dto.CustomerResponse]{}

	f := NewSaleForm(today)
	require.NoError(t, f.Load(context.Background(), cl, pl))
	assert.Len(t, f.Products(), 250)
	assert.Equal(t, int32(3), pl.calls.Load())
	assert.Empty(t, f.Customers())

	_, ok := f.Composer().Catalog().Lookup("P250")
	assert.True(t, ok)
}

func TestLoad_ErrorEnUnaFuente(t *testing.T) {
	boom := errors.New("red caída")
	f := NewSaleForm(today)
	err := f.Load(context.Background(),
		&sliceLister[dto.CustomerResponse]{err: boom},
		&sliceLister[dto.ProductResponse]{})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, f.Composer().Catalog())
}

// El catálogo llega después de elegir productos: el subtotal se recalcula.
func TestLoad_RecalculaSubtotalAlLlegarCatalogo(t *testing.T) {
	f := NewSaleForm(today)
	f.Composer().SetItemProduct(0, "P1")
	f.Composer().SetItemQuantity(0, 3)
	assert.True(t, f.Composer().Subtotal().IsZero())

	require.NoError(t, f.Load(context.Background(),
		&sliceLister[dto.CustomerResponse]{},
		&sliceLister[dto.ProductResponse]{data: []dto.ProductResponse{{Code: "P1", Price: decimal.NewFromInt(10)}}}))
	assert.True(t, decimal.NewFromInt(30).Equal(f.Composer().Subtotal()))
}

func TestRequest(t *testing.T) {
	f := loadedForm(t)
	c := f.Composer()
	c.SetCustomer(4)
	c.SetItemProduct(0, "P1")
	c.SetItemQuantity(0, 3)
	c.AddItem()
	c.SetItemProduct(1, "P2")

	req := f.Request()
	assert.Equal(t, "2026-10-18", req.Date)
	assert.Equal(t, int64(4), req.CustomerID)
	assert.True(t, decimal.NewFromInt(35).Equal(req.Subtotal))
	assert.Equal(t, []dto.SaleItemRequest{{ProductCode: "P1", Qty: 3}, {ProductCode: "P2", Qty: 1}}, req.Items)
}

func TestSubmit_InvalidoNoLlamaAlServidor(t *testing.T) {
	f := loadedForm(t)
	called := false
	_, err := f.Submit(context.Background(), creatorFunc(func(context.Context, dto.CreateSaleRequest) (*dto.SaleResponse, error) {
		called = true
		return nil, nil
	}))
	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, validation.MsgRequired, f.Errors()["customer_id"])
	assert.Equal(t, validation.MsgRequired, f.Errors()["items[0].product_code"])
}

func TestSubmit_ErroresDelServidorQuedanEnElFormulario(t *testing.T) {
	f := loadedForm(t)
	f.Composer().SetCustomer(4)
	f.Composer().SetItemProduct(0, "P1")

	serverErr := &validation.Error{Fields: validation.Errors{"customer_id": validation.MsgNotFound}}
	_, err := f.Submit(context.Background(), creatorFunc(func(context.Context, dto.CreateSaleRequest) (*dto.SaleResponse, error) {
		return nil, fmt.Errorf("api: %w", serverErr)
	}))
	require.Error(t, err)
	assert.Equal(t, validation.Errors{"customer_id": validation.MsgNotFound}, f.Errors())
	// Lo editado se conserva.
	assert.Equal(t, "P1", f.Composer().Items()[0].ProductCode)
}

func TestSubmit_Exitoso(t *testing.T) {
	f := loadedForm(t)
	f.Composer().SetCustomer(4)
	f.Composer().SetItemProduct(0, "P2")
	f.Composer().SetItemQuantity(0, 2)

	out, err := f.Submit(context.Background(), creatorFunc(func(_ context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
		return &dto.SaleResponse{InvoiceID: "INV-20261018-00001", Subtotal: in.Subtotal}, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, "INV-20261018-00001", out.InvoiceID)
	assert.True(t, decimal.NewFromInt(10).Equal(out.Subtotal))
	assert.Empty(t, f.Errors())
}

func TestRenderSaleForm(t *testing.T) {
	f := loadedForm(t)
	f.Composer().SetCustomer(4)
	f.Composer().SetItemProduct(0, "P1")
	f.Composer().SetItemQuantity(0, 3)
	f.Composer().AddItem()
	f.Composer().SetItemQuantity(1, 0)
	_, _ = f.Submit(context.Background(), creatorFunc(func(context.Context, dto.CreateSaleRequest) (*dto.SaleResponse, error) {
		return nil, nil
	}))

	var buf bytes.Buffer
	RenderSaleForm(&buf, f)
	out := buf.String()
	assert.Contains(t, out, "Rina")
	assert.Contains(t, out, "Kaos")
	assert.Contains(t, out, "Rp 30")
	assert.Contains(t, out, "qty must be at least 1")
}

func TestRenderListados(t *testing.T) {
	var buf bytes.Buffer
	RenderProducts(&buf, &dto.Page[dto.ProductResponse]{
		Data:  []dto.ProductResponse{{Code: "PRD-00001", Name: "Kaos", Category: "clothing", Price: decimal.NewFromInt(75000)}},
		Total: 11, Page: 1, Limit: 10,
	})
	assert.Contains(t, buf.String(), "PRD-00001")
	assert.Contains(t, buf.String(), "Página 1 de 2")

	buf.Reset()
	RenderSales(&buf, &dto.Page[dto.SaleResponse]{
		Data:  []dto.SaleResponse{{InvoiceID: "INV-20261018-00001", Date: "2026-10-18", CustomerID: 9, Subtotal: decimal.NewFromInt(35)}},
		Total: 1, Page: 1, Limit: 10,
	}, nil)
	assert.Contains(t, buf.String(), "18/10/2026")
	assert.Contains(t, buf.String(), "#9")
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"sesión", fmt.Errorf("x: %w", domain.ErrUnauthorized), "La sesión expiró"},
		{"validación", &validation.Error{Fields: validation.Errors{"name": "required"}}, "name: required"},
		{"conflicto", &resource.OperationError{Resource: "customers", Op: "delete", Err: domain.ErrConflict}, "en uso"},
		{"carga", &resource.FetchError{Resource: "sales", Err: errors.New("timeout")}, "No se pudieron cargar los datos: timeout"},
		{"operación", &resource.OperationError{Resource: "sales", Op: "create", Err: errors.New("HTTP 500")}, "No se pudo guardar: HTTP 500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, ErrorMessage(tt.err), tt.want)
		})
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	RenderSummary(&buf, &dto.SalesSummaryResponse{
		Today:       dto.SalesMetricsResponse{From: "2026-10-18", To: "2026-10-18", Count: 1, Units: 2, Revenue: decimal.NewFromInt(20000)},
		Month:       dto.SalesMetricsResponse{From: "2026-10-01", To: "2026-10-18", Count: 4, Units: 9, Revenue: decimal.NewFromInt(150000)},
		TopProducts: []dto.TopProductResponse{{ProductCode: "PRD-00001", ProductName: "Kaos", Units: 9, Revenue: decimal.NewFromInt(150000)}},
		MonthLabel:  "Octubre 2026",
	})
	out := buf.String()
	assert.Contains(t, out, "Hoy 18/10/2026")
	assert.Contains(t, out, "Octubre 2026")
	assert.Contains(t, out, "Rp 150.000")
	assert.Contains(t, out, "Kaos (PRD-00001)")

	buf.Reset()
	RenderSummary(&buf, &dto.SalesSummaryResponse{MonthLabel: "Octubre 2026"})
	assert.Contains(t, buf.String(), "Sin ventas en el mes.")
}
