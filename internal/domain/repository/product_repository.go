package repository

import (
	"context"

	"github.com/jhoicas/ventas-admin/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	// Create persiste el producto; si Code viene vacío la persistencia lo asigna y lo escribe en product.Code.
	Create(ctx context.Context, product *entity.Product) error
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// GetByCodes resuelve varios códigos de una vez; los que no existen se omiten del mapa.
	GetByCodes(ctx context.Context, codes []string) (map[string]*entity.Product, error)
	List(ctx context.Context, filter ListFilter) ([]*entity.Product, int, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, code string) error
}
