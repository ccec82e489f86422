// Package console arma las pantallas de la consola de administración: tablas de
// listados y el formulario de venta que usa el motor de composición.
package console

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/internal/domain/entity"
	"github.com/jhoicas/ventas-admin/internal/domain/sale"
	"github.com/jhoicas/ventas-admin/internal/domain/validation"
)

// Lister lectura paginada de un recurso.
type Lister[T any] interface {
	List(ctx context.Context, q dto.ListQuery) (*dto.Page[T], error)
}

// SaleCreator alta de ventas.
type SaleCreator interface {
	Create(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error)
}

// SaleForm formulario de alta de venta. Las opciones de clientes y productos se
// cargan en paralelo; el subtotal lo mantiene el Composer.
type SaleForm struct {
	composer  *sale.Composer
	customers []dto.CustomerResponse
	products  []dto.ProductResponse
	errs      validation.Errors
}

// NewSaleForm formulario vacío con fecha de hoy y una línea.
func NewSaleForm(today time.Time) *SaleForm {
	return &SaleForm{composer: sale.NewComposer(nil, today), errs: validation.Errors{}}
}

// Composer acceso al motor para editar líneas, cliente y fecha.
func (f *SaleForm) Composer() *sale.Composer { return f.composer }

// Customers opciones de cliente cargadas.
func (f *SaleForm) Customers() []dto.CustomerResponse { return f.customers }

// Products opciones de producto cargadas.
func (f *SaleForm) Products() []dto.ProductResponse { return f.products }

// Errors errores por campo de la última validación o envío.
func (f *SaleForm) Errors() validation.Errors { return f.errs }

// Load trae todos los clientes y productos. Al terminar, el catálogo del Composer
// se reemplaza y el subtotal se recalcula.
func (f *SaleForm) Load(ctx context.Context, customers Lister[dto.CustomerResponse], products Lister[dto.ProductResponse]) error {
	var (
		cs []dto.CustomerResponse
		ps []dto.ProductResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cs, err = ListAll(gctx, customers)
		if err != nil {
			return fmt.Errorf("cargar clientes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		ps, err = ListAll(gctx, products)
		if err != nil {
			return fmt.Errorf("cargar productos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	f.customers, f.products = cs, ps
	f.composer.SetCatalog(CatalogFromProducts(ps))
	return nil
}

// ListAll recorre todas las páginas con el tamaño máximo.
func ListAll[T any](ctx context.Context, l Lister[T]) ([]T, error) {
	var out []T
	for page := 1; ; page++ {
		p, err := l.List(ctx, dto.ListQuery{Page: page, Limit: dto.MaxLimit})
		if err != nil {
			return nil, err
		}
		out = append(out, p.Data...)
		if len(p.Data) == 0 || len(out) >= p.Total {
			return out, nil
		}
	}
}

// CatalogFromProducts catálogo del motor a partir de las respuestas de la API.
func CatalogFromProducts(products []dto.ProductResponse) sale.ProductCatalog {
	list := make([]entity.Product, 0, len(products))
	for _, p := range products {
		list = append(list, entity.Product{
			Code:     p.Code,
			Name:     p.Name,
			Category: entity.Category(p.Category),
			Price:    p.Price,
			Color:    p.Color,
		})
	}
	return sale.NewCatalog(list)
}

// Request payload de alta con el estado actual del formulario.
func (f *SaleForm) Request() dto.CreateSaleRequest {
	d := f.composer.Draft()
	items := make([]dto.SaleItemRequest, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, dto.SaleItemRequest{ProductCode: it.ProductCode, Qty: it.Qty})
	}
	return dto.CreateSaleRequest{
		Date:       d.Date,
		CustomerID: d.CustomerID,
		Subtotal:   d.Subtotal,
		Items:      items,
	}
}

// Submit valida localmente y, si pasa, envía la venta. Ante error el formulario
// conserva lo editado; los errores por campo (locales o del servidor) quedan en Errors.
func (f *SaleForm) Submit(ctx context.Context, creator SaleCreator) (*dto.SaleResponse, error) {
	f.errs = f.composer.Validate()
	if err := f.errs.Err(); err != nil {
		return nil, err
	}
	out, err := creator.Create(ctx, f.Request())
	if err != nil {
		if fields, ok := validation.FieldsOf(err); ok {
			f.errs = fields
		}
		return nil, err
	}
	return out, nil
}

// ProductName nombre del producto cargado, o el código si no se conoce.
func (f *SaleForm) ProductName(code string) string {
	catalog := f.composer.Catalog()
	if catalog == nil {
		return code
	}
	if p, ok := catalog.Lookup(code); ok {
		return p.Name
	}
	return code
}
