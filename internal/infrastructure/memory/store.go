// Package memory implementa los puertos de persistencia en memoria. Lo usan los tests
// de punta a punta (API + cliente + consola) y la API con STORAGE=memory para demos sin PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/ventas-admin/internal/domain"
	"github.com/jhoicas/ventas-admin/internal/domain/entity"
	"github.com/jhoicas/ventas-admin/internal/domain/repository"
)

// Store datos compartidos por los repos en memoria. Seguro para uso concurrente.
type Store struct {
	txMu        sync.Mutex
	mu          sync.RWMutex
	customerSeq int64
	productSeq  int
	invoiceSeq  int
	itemSeq     int64
	customers   map[int64]entity.Customer
	products    map[string]entity.Product
	sales       map[string]entity.Sale
	users       map[string]entity.User
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		customers: map[int64]entity.Customer{},
		products:  map[string]entity.Product{},
		sales:     map[string]entity.Sale{},
		users:     map[string]entity.User{},
	}
}

// Customers devuelve el repo de clientes.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s: s} }

// Products devuelve el repo de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Sales devuelve el repo de ventas.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Users devuelve el repo de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// RunSale ejecuta fn y, si falla, restaura las ventas y los contadores previos.
// Las transacciones se serializan.
func (s *Store) RunSale(_ context.Context, fn func(
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := make(map[string]entity.Sale, len(s.sales))
	for k, v := range s.sales {
		snapshot[k] = v
	}
	invoiceSeq, itemSeq := s.invoiceSeq, s.itemSeq
	s.mu.RUnlock()

	if err := fn(s.Customers(), s.Products(), s.Sales()); err != nil {
		s.mu.Lock()
		s.sales = snapshot
		s.invoiceSeq, s.itemSeq = invoiceSeq, itemSeq
		s.mu.Unlock()
		return err
	}
	return nil
}

func match(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func page[T any](all []T, f repository.ListFilter) []T {
	if f.Offset < 0 || f.Offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return all[f.Offset:end]
}

// CustomerRepo repositorio de clientes en memoria.
type CustomerRepo struct{ s *Store }

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.customerSeq++
	c.ID = r.s.customerSeq
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id int64) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Customer, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*entity.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		if match(f.Search, c.Name, c.City) {
			c := c
			all = append(all, &c)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].ID < all[j].ID
	})
	return page(all, f), len(all), nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[id]; !ok {
		return domain.ErrNotFound
	}
	for _, s := range r.s.sales {
		if s.CustomerID == id {
			return fmt.Errorf("%w: el cliente tiene ventas registradas", domain.ErrConflict)
		}
	}
	delete(r.s.customers, id)
	return nil
}

// ProductRepo repositorio de productos en memoria.
type ProductRepo struct{ s *Store }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.Code == "" {
		r.s.productSeq++
		p.Code = fmt.Sprintf("PRD-%05d", r.s.productSeq)
	}
	if _, ok := r.s.products[p.Code]; ok {
		return domain.ErrDuplicate
	}
	r.s.products[p.Code] = *p
	return nil
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[code]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetByCodes(_ context.Context, codes []string) (map[string]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]*entity.Product, len(codes))
	for _, code := range codes {
		if p, ok := r.s.products[code]; ok {
			p := p
			out[code] = &p
		}
	}
	return out, nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Product, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if match(f.Search, p.Code, p.Name, string(p.Category)) {
			p := p
			all = append(all, &p)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].Code < all[j].Code
	})
	return page(all, f), len(all), nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.Code]; !ok {
		return domain.ErrNotFound
	}
	r.s.products[p.Code] = *p
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, code string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[code]; !ok {
		return domain.ErrNotFound
	}
	for _, s := range r.s.sales {
		for _, it := range s.Items {
			if it.ProductCode == code {
				return fmt.Errorf("%w: el producto figura en ventas", domain.ErrConflict)
			}
		}
	}
	delete(r.s.products, code)
	return nil
}

// SaleRepo repositorio de ventas en memoria.
type SaleRepo struct{ s *Store }

var _ repository.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[sale.CustomerID]; !ok {
		return fmt.Errorf("%w: cliente inexistente", domain.ErrInvalidInput)
	}
	r.s.invoiceSeq++
	sale.InvoiceID = fmt.Sprintf("INV-%s-%05d", sale.Date.Format("20060102"), r.s.invoiceSeq)
	items := make([]entity.SaleItem, len(sale.Items))
	for i, it := range sale.Items {
		if _, ok := r.s.products[it.ProductCode]; !ok {
			return fmt.Errorf("%w: producto %s inexistente", domain.ErrInvalidInput, it.ProductCode)
		}
		r.s.itemSeq++
		it.ID = r.s.itemSeq
		it.InvoiceID = sale.InvoiceID
		items[i] = it
	}
	sale.Items = items
	stored := *sale
	stored.Items = append([]entity.SaleItem(nil), items...)
	r.s.sales[sale.InvoiceID] = stored
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	return &s, nil
}

func (r *SaleRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Sale, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*entity.Sale, 0, len(r.s.sales))
	for _, s := range r.s.sales {
		customer := r.s.customers[s.CustomerID]
		if match(f.Search, s.InvoiceID, customer.Name) {
			s := s
			s.Items = append([]entity.SaleItem(nil), s.Items...)
			all = append(all, &s)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.After(all[j].Date)
		}
		return all[i].InvoiceID > all[j].InvoiceID
	})
	return page(all, f), len(all), nil
}

func (r *SaleRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sales[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.sales, id)
	return nil
}

// UserRepo repositorio de usuarios en memoria (indexado por email).
type UserRepo struct{ s *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	r.s.users[u.Email] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
