package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/ventas-admin/internal/domain/entity"
	"github.com/jhoicas/ventas-admin/internal/domain/repository"
)

// Repositorios en memoria para los tests de casos de uso.

type memCustomers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]entity.Customer
}

func newMemCustomers(list ...entity.Customer) *memCustomers {
	m := &memCustomers{rows: map[int64]entity.Customer{}}
	for _, c := range list {
		m.rows[c.ID] = c
		if c.ID > m.nextID {
			m.nextID = c.ID
		}
	}
	return m
}

func (m *memCustomers) Create(_ context.Context, c *entity.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	c.ID = m.nextID
	m.rows[c.ID] = *c
	return nil
}

func (m *memCustomers) GetByID(_ context.Context, id int64) (*entity.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *memCustomers) List(_ context.Context, f repository.ListFilter) ([]*entity.Customer, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*entity.Customer
	for _, c := range m.rows {
		c := c
		if f.Search == "" || strings.Contains(strings.ToLower(c.Name+" "+c.City), strings.ToLower(f.Search)) {
			all = append(all, &c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return paginate(all, f), len(all), nil
}

func (m *memCustomers) Update(_ context.Context, c *entity.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[c.ID] = *c
	return nil
}

func (m *memCustomers) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

type memProducts struct {
	mu   sync.Mutex
	seq  int
	rows map[string]entity.Product
}

func newMemProducts(list ...entity.Product) *memProducts {
	m := &memProducts{rows: map[string]entity.Product{}}
	for _, p := range list {
		m.rows[p.Code] = p
	}
	return m
}

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Code == "" {
		m.seq++
		p.Code = fmt.Sprintf("PRD-%05d", m.seq)
	}
	m.rows[p.Code] = *p
	return nil
}

func (m *memProducts) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[code]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memProducts) GetByCodes(_ context.Context, codes []string) (map[string]*entity.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]*entity.Product{}
	for _, code := range codes {
		if p, ok := m.rows[code]; ok {
			p := p
			out[code] = &p
		}
	}
	return out, nil
}

func (m *memProducts) List(_ context.Context, f repository.ListFilter) ([]*entity.Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*entity.Product
	for _, p := range m.rows {
		p := p
		all = append(all, &p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return paginate(all, f), len(all), nil
}

func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[p.Code] = *p
	return nil
}

func (m *memProducts) Delete(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, code)
	return nil
}

type memSales struct {
	mu   sync.Mutex
	seq  int
	rows map[string]entity.Sale
}

func newMemSales() *memSales { return &memSales{rows: map[string]entity.Sale{}} }

func (m *memSales) Create(_ context.Context, s *entity.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	s.InvoiceID = fmt.Sprintf("INV-%s-%05d", s.Date.Format("20060102"), m.seq)
	for i := range s.Items {
		s.Items[i].ID = int64(i + 1)
		s.Items[i].InvoiceID = s.InvoiceID
	}
	m.rows[s.InvoiceID] = *s
	return nil
}

func (m *memSales) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memSales) List(_ context.Context, f repository.ListFilter) ([]*entity.Sale, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*entity.Sale
	for _, s := range m.rows {
		s := s
		all = append(all, &s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].InvoiceID > all[j].InvoiceID })
	return paginate(all, f), len(all), nil
}

func (m *memSales) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func paginate[T any](all []T, f repository.ListFilter) []T {
	if f.Offset >= len(all) {
		return nil
	}
	end := f.Offset + f.Limit
	if f.Limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[f.Offset:end]
}

// memTx ejecuta fn con los mismos repos en memoria (sin rollback real).
type memTx struct {
	customers *memCustomers
	products  *memProducts
	sales     *memSales
}

func (tx memTx) RunSale(_ context.Context, fn func(
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return fn(tx.customers, tx.products, tx.sales)
}

type recordingPublisher struct {
	mu      sync.Mutex
	created []string
	deleted []string
	err     error
}

func (p *recordingPublisher) PublishSaleCreated(_ context.Context, s *entity.Sale) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, s.InvoiceID)
	return p.err
}

func (p *recordingPublisher) PublishSaleDeleted(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, id)
	return p.err
}

type stubReceipts struct {
	got ReceiptData
}

func (s *stubReceipts) GenerateSaleReceipt(_ context.Context, data ReceiptData) ([]byte, error) {
	s.got = data
	return []byte("%PDF-stub"), nil
}
