package repository

import (
	"context"

	"github.com/jhoicas/ventas-admin/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
type SaleRepository interface {
	// Create persiste cabecera y líneas; asigna InvoiceID y los IDs de las líneas.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, invoiceID string) (*entity.Sale, error)
	// List devuelve las ventas con sus líneas cargadas.
	List(ctx context.Context, filter ListFilter) ([]*entity.Sale, int, error)
	Delete(ctx context.Context, invoiceID string) error
}
