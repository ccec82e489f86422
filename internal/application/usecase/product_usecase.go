package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/ventas-admin/internal/application/dto"
	"github.com/jhoicas/ventas-admin/internal/domain"
	"github.com/jhoicas/ventas-admin/internal/domain/entity"
	"github.com/jhoicas/ventas-admin/internal/domain/repository"
	"github.com/jhoicas/ventas-admin/internal/domain/validation"
)

// ProductUseCase casos de uso CRUD para productos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. Sin código, la persistencia asigna el siguiente PRD-NNNNN.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	product := &entity.Product{
		Code:      strings.ToUpper(strings.TrimSpace(in.Code)),
		Name:      strings.TrimSpace(in.Name),
		Category:  entity.Category(in.Category),
		Price:     in.Price.Round(2),
		Color:     strings.TrimSpace(in.Color),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validation.ValidateProduct(*product).Err(); err != nil {
		return nil, err
	}
	if product.Code != "" {
		existing, err := uc.repo.GetByCode(ctx, product.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByCode obtiene un producto por código.
func (uc *ProductUseCase) GetByCode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, code)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto; el código es inmutable.
func (uc *ProductUseCase) Update(ctx context.Context, code string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, code)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		product.Category = entity.Category(*in.Category)
	}
	if in.Price != nil {
		product.Price = in.Price.Round(2)
	}
	if in.Color != nil {
		product.Color = strings.TrimSpace(*in.Color)
	}
	if err := validation.ValidateProduct(*product).Err(); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación; search filtra por código, nombre o categoría.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ListQuery) (*dto.Page[dto.ProductResponse], error) {
	q.Normalize()
	list, total, err := uc.repo.List(ctx, repository.ListFilter{
		Search: strings.TrimSpace(q.Search),
		Limit:  q.Limit,
		Offset: q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		data = append(data, *toProductResponse(p))
	}
	return &dto.Page[dto.ProductResponse]{Data: data, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

// Delete elimina un producto por código. Si figura en ventas la persistencia responde domain.ErrConflict.
func (uc *ProductUseCase) Delete(ctx context.Context, code string) error {
	if _, err := uc.find(ctx, code); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, code)
}

func (uc *ProductUseCase) find(ctx context.Context, code string) (*entity.Product, error) {
	product, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		Code:      p.Code,
		Name:      p.Name,
		Category:  string(p.Category),
		Price:     p.Price,
		Color:     p.Color,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
