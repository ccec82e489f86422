package usecase

import (
	"context"

	"github.com/jhoicas/ventas-admin/internal/domain/entity"
	"github.com/jhoicas/ventas-admin/internal/domain/repository"
)

// SaleTxRunner ejecuta fn dentro de una transacción con los repos atados a ella.
// Si fn retorna error se hace rollback.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// SaleEventPublisher notifica altas y bajas de ventas a otros sistemas.
type SaleEventPublisher interface {
	PublishSaleCreated(ctx context.Context, sale *entity.Sale) error
	PublishSaleDeleted(ctx context.Context, invoiceID string) error
}

// ReceiptLine línea del comprobante con el nombre del producto ya resuelto.
type ReceiptLine struct {
	entity.SaleItem
	ProductName string
}

// ReceiptData todo lo necesario para dibujar el comprobante de una venta.
type ReceiptData struct {
	Sale     *entity.Sale
	Customer *entity.Customer
	Lines    []ReceiptLine
}

// ReceiptGenerator genera el PDF del comprobante.
type ReceiptGenerator interface {
	GenerateSaleReceipt(ctx context.Context, data ReceiptData) ([]byte, error)
}
