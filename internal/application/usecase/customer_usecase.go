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

// CustomerUseCase casos de uso CRUD para clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create valida y persiste un nuevo cliente.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CustomerRequest) (*dto.CustomerResponse, error) {
	now := time.Now()
	customer := &entity.Customer{
		Name:      strings.TrimSpace(in.Name),
		City:      strings.TrimSpace(in.City),
		Gender:    entity.Gender(in.Gender),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validation.ValidateCustomer(*customer).Err(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente; domain.ErrNotFound si no existe.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id int64) (*dto.CustomerResponse, error) {
	customer, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes con paginación y búsqueda por nombre o ciudad.
func (uc *CustomerUseCase) List(ctx context.Context, q dto.ListQuery) (*dto.Page[dto.CustomerResponse], error) {
	q.Normalize()
	list, total, err := uc.repo.List(ctx, repository.ListFilter{
		Search: strings.TrimSpace(q.Search),
		Limit:  q.Limit,
		Offset: q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		data = append(data, *toCustomerResponse(c))
	}
	return &dto.Page[dto.CustomerResponse]{Data: data, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

// Update aplica los campos presentes y vuelve a validar el cliente completo.
func (uc *CustomerUseCase) Update(ctx context.Context, id int64, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	customer, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		customer.Name = strings.TrimSpace(*in.Name)
	}
	if in.City != nil {
		customer.City = strings.TrimSpace(*in.City)
	}
	if in.Gender != nil {
		customer.Gender = entity.Gender(*in.Gender)
	}
	if err := validation.ValidateCustomer(*customer).Err(); err != nil {
		return nil, err
	}
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Delete elimina un cliente. Si tiene ventas la persistencia responde domain.ErrConflict.
func (uc *CustomerUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *CustomerUseCase) find(ctx context.Context, id int64) (*entity.Customer, error) {
	customer, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	if c == nil {
		return nil
	}
	return &dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		City:      c.City,
		Gender:    string(c.Gender),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
