package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jhoicas/ventas-admin/internal/application/dto"
)

// Resource cliente CRUD genérico de un recurso REST: T es la respuesta, ID el
// identificador, C el payload de alta y U el de edición.
type Resource[T any, ID comparable, C any, U any] struct {
	c        *Client
	path     string
	formatID func(ID) string
	readOnly bool // sin PUT
}

// List GET /R?page&limit&search.
func (r *Resource[T, ID, C, U]) List(ctx context.Context, q dto.ListQuery) (*dto.Page[T], error) {
	q.Normalize()
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	var out dto.Page[T]
	if err := r.c.do(ctx, http.MethodGet, r.path, query, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []T{}
	}
	return &out, nil
}

// Get GET /R/{id}.
func (r *Resource[T, ID, C, U]) Get(ctx context.Context, id ID) (*T, error) {
	var out T
	if err := r.c.do(ctx, http.MethodGet, r.itemPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create POST /R.
func (r *Resource[T, ID, C, U]) Create(ctx context.Context, in C) (*T, error) {
	var out T
	if err := r.c.do(ctx, http.MethodPost, r.path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update PUT /R/{id}. Los recursos de solo alta/baja devuelven ErrUnsupported sin llamar a la API.
func (r *Resource[T, ID, C, U]) Update(ctx context.Context, id ID, in U) (*T, error) {
	if r.readOnly {
		return nil, fmt.Errorf("%w: %s no admite edición", ErrUnsupported, r.path)
	}
	var out T
	if err := r.c.do(ctx, http.MethodPut, r.itemPath(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete DELETE /R/{id}.
func (r *Resource[T, ID, C, U]) Delete(ctx context.Context, id ID) error {
	return r.c.do(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}

func (r *Resource[T, ID, C, U]) itemPath(id ID) string {
	return r.path + "/" + url.PathEscape(r.formatID(id))
}

// CustomerClient cliente de /customers.
type CustomerClient = Resource[dto.CustomerResponse, int64, dto.CustomerRequest, dto.UpdateCustomerRequest]

// ProductClient cliente de /products (identificados por código).
type ProductClient = Resource[dto.ProductResponse, string, dto.CreateProductRequest, dto.UpdateProductRequest]

// Customers cliente de clientes.
func (c *Client) Customers() *CustomerClient {
	return &CustomerClient{c: c, path: "/customers", formatID: func(id int64) string { return strconv.FormatInt(id, 10) }}
}

// Products cliente de productos.
func (c *Client) Products() *ProductClient {
	return &ProductClient{c: c, path: "/products", formatID: func(code string) string { return code }}
}

// SaleClient cliente de /sales: alta, consulta, baja y comprobante.
type SaleClient struct {
	*Resource[dto.SaleResponse, string, dto.CreateSaleRequest, dto.UpdateSaleRequest]
}

// Sales cliente de ventas.
func (c *Client) Sales() *SaleClient {
	return &SaleClient{Resource: &Resource[dto.SaleResponse, string, dto.CreateSaleRequest, dto.UpdateSaleRequest]{
		c:        c,
		path:     "/sales",
		formatID: func(id string) string { return id },
		readOnly: true,
	}}
}

// Receipt descarga el PDF del comprobante. Devuelve bytes y nombre de archivo.
func (s *SaleClient) Receipt(ctx context.Context, invoiceID string) ([]byte, string, error) {
	pdf, filename, err := s.c.download(ctx, s.itemPath(invoiceID)+"/receipt")
	if err != nil {
		return nil, "", err
	}
	if filename == "" {
		filename = "comprobante_" + invoiceID + ".pdf"
	}
	return pdf, filename, nil
}
