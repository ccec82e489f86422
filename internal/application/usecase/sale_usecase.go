package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/internal/domain"
	"github.com/jhoicas/ventas-admin/internal/domain/entity"
	"github.com/jhoicas/ventas-admin/internal/domain/repository"
	"github.com/jhoicas/ventas-admin/internal/domain/sale"
	"github.com/jhoicas/ventas-admin/internal/domain/validation"
	"github.com/jhoicas/ventas-admin/pkg/logger"
)

// SaleUseCase alta, consulta y baja de ventas. Las ventas no se actualizan.
type SaleUseCase struct {
	txRunner     SaleTxRunner
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	publisher    SaleEventPublisher
	receipts     ReceiptGenerator
	log          *logger.Logger
}

// NewSaleUseCase construye el caso de uso. publisher y receipts pueden ser nil.
func NewSaleUseCase(
	txRunner SaleTxRunner,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	publisher SaleEventPublisher,
	receipts ReceiptGenerator,
	log *logger.Logger,
) *SaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SaleUseCase{
		txRunner:     txRunner,
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		publisher:    publisher,
		receipts:     receipts,
		log:          log.Named("sales"),
	}
}

// Create valida la venta con las mismas reglas que la consola, contra el catálogo y los
// clientes persistidos, y la guarda con el subtotal recalculado a precios vigentes.
// Los errores de validación salen como *validation.Error.
func (uc *SaleUseCase) Create(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	draft := sale.Draft{
		Date:       strings.TrimSpace(in.Date),
		CustomerID: in.CustomerID,
		Subtotal:   in.Subtotal,
		Items:      make([]sale.LineItem, 0, len(in.Items)),
	}
	for _, it := range in.Items {
		draft.Items = append(draft.Items, sale.LineItem{
			ProductCode: strings.ToUpper(strings.TrimSpace(it.ProductCode)),
			Qty:         it.Qty,
		})
	}

	var created *entity.Sale
	err := uc.txRunner.RunSale(ctx, func(
		customerRepo repository.CustomerRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		catalog, err := loadCatalog(ctx, productRepo, draft.Items)
		if err != nil {
			return err
		}

		errs := sale.Validate(draft, catalog)
		date, dateErr := time.Parse(sale.DateLayout, draft.Date)
		if draft.Date != "" && dateErr != nil {
			errs.Add("date", validation.MsgInvalidDate)
		}
		if draft.CustomerID > 0 {
			customer, err := customerRepo.GetByID(ctx, draft.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				errs.Add("customer_id", validation.MsgNotFound)
			}
		}
		if err := errs.Err(); err != nil {
			return err
		}

		subtotal := sale.RecomputeSubtotal(draft.Items, catalog)
		if !subtotal.Equal(draft.Subtotal) {
			uc.log.Warn().
				Str("client_subtotal", draft.Subtotal.String()).
				Str("subtotal", subtotal.String()).
				Msg("subtotal del cliente no coincide con los precios vigentes; se usa el recalculado")
		}

		now := time.Now()
		s := &entity.Sale{
			Date:       date,
			CustomerID: draft.CustomerID,
			Subtotal:   subtotal,
			Items:      make([]entity.SaleItem, 0, len(draft.Items)),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		for _, it := range draft.Items {
			p, _ := catalog.Lookup(it.ProductCode)
			s.Items = append(s.Items, entity.SaleItem{
				ProductCode: it.ProductCode,
				Qty:         it.Qty,
				UnitPrice:   p.Price,
				CreatedAt:   now,
			})
		}
		if err := saleRepo.Create(ctx, s); err != nil {
			return err
		}
		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("invoice_id", created.InvoiceID).Str("subtotal", created.Subtotal.String()).Msg("venta registrada")
	if uc.publisher != nil {
		if err := uc.publisher.PublishSaleCreated(ctx, created); err != nil {
			uc.log.Error().Err(err).Str("invoice_id", created.InvoiceID).Msg("no se pudo publicar el evento de venta")
		}
	}
	return toSaleResponse(created), nil
}

// GetByID obtiene una venta con sus líneas.
func (uc *SaleUseCase) GetByID(ctx context.Context, invoiceID string) (*dto.SaleResponse, error) {
	s, err := uc.find(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(s), nil
}

// List lista ventas, más recientes primero; search filtra por número de factura.
func (uc *SaleUseCase) List(ctx context.Context, q dto.ListQuery) (*dto.Page[dto.SaleResponse], error) {
	q.Normalize()
	list, total, err := uc.saleRepo.List(ctx, repository.ListFilter{
		Search: strings.TrimSpace(q.Search),
		Limit:  q.Limit,
		Offset: q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		data = append(data, *toSaleResponse(s))
	}
	return &dto.Page[dto.SaleResponse]{Data: data, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

// Delete elimina la venta y sus líneas.
func (uc *SaleUseCase) Delete(ctx context.Context, invoiceID string) error {
	if _, err := uc.find(ctx, invoiceID); err != nil {
		return err
	}
	if err := uc.saleRepo.Delete(ctx, invoiceID); err != nil {
		return err
	}
	uc.log.Info().Str("invoice_id", invoiceID).Msg("venta eliminada")
	if uc.publisher != nil {
		if err := uc.publisher.PublishSaleDeleted(ctx, invoiceID); err != nil {
			uc.log.Error().Err(err).Str("invoice_id", invoiceID).Msg("no se pudo publicar la baja de la venta")
		}
	}
	return nil
}

// Receipt genera el comprobante PDF de la venta. Devuelve bytes y nombre de archivo sugerido.
func (uc *SaleUseCase) Receipt(ctx context.Context, invoiceID string) ([]byte, string, error) {
	if uc.receipts == nil {
		return nil, "", domain.ErrUnsupported
	}
	s, err := uc.find(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	customer, err := uc.customerRepo.GetByID(ctx, s.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener cliente: %w", err)
	}
	if customer == nil {
		customer = &entity.Customer{ID: s.CustomerID, Name: fmt.Sprintf("Cliente #%d", s.CustomerID)}
	}

	codes := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		codes = append(codes, it.ProductCode)
	}
	products, err := uc.productRepo.GetByCodes(ctx, codes)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener productos: %w", err)
	}
	lines := make([]ReceiptLine, 0, len(s.Items))
	for _, it := range s.Items {
		name := it.ProductCode
		if p, ok := products[it.ProductCode]; ok {
			name = p.Name
		}
		lines = append(lines, ReceiptLine{SaleItem: it, ProductName: name})
	}

	pdf, err := uc.receipts.GenerateSaleReceipt(ctx, ReceiptData{Sale: s, Customer: customer, Lines: lines})
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generación fallida: %w", err)
	}
	return pdf, fmt.Sprintf("comprobante_%s.pdf", s.InvoiceID), nil
}

func (uc *SaleUseCase) find(ctx context.Context, invoiceID string) (*entity.Sale, error) {
	s, err := uc.saleRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// loadCatalog resuelve solo los productos referenciados por las líneas.
func loadCatalog(ctx context.Context, repo repository.ProductRepository, items []sale.LineItem) (sale.ProductCatalog, error) {
	codes := make([]string, 0, len(items))
	for _, it := range items {
		if it.ProductCode != "" {
			codes = append(codes, it.ProductCode)
		}
	}
	catalog := sale.ProductCatalog{}
	if len(codes) == 0 {
		return catalog, nil
	}
	found, err := repo.GetByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("cargar catálogo: %w", err)
	}
	for code, p := range found {
		catalog[code] = *p
	}
	return catalog, nil
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	if s == nil {
		return nil
	}
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductCode: it.ProductCode,
			Qty:         it.Qty,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal(),
		})
	}
	return &dto.SaleResponse{
		InvoiceID:  s.InvoiceID,
		Date:       s.Date.Format(sale.DateLayout),
		CustomerID: s.CustomerID,
		Subtotal:   s.Subtotal,
		Items:      items,
		CreatedAt:  s.CreatedAt,
	}
}
