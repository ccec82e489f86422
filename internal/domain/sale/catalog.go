package sale

import "github.com/jhoicas/ventas-admin/internal/domain/entity"

// Catalog resuelve productos por código. Para el motor de ventas es de solo lectura.
type Catalog interface {
	Lookup(code string) (entity.Product, bool)
}

// ProductCatalog catálogo en memoria indexado por código.
type ProductCatalog map[string]entity.Product

// NewCatalog indexa la lista de productos por código; ante códigos repetidos gana el último.
func NewCatalog(products []entity.Product) ProductCatalog {
	c := make(ProductCatalog, len(products))
	for _, p := range products {
		c[p.Code] = p
	}
	return c
}

// Lookup implementa Catalog.
func (c ProductCatalog) Lookup(code string) (entity.Product, bool) {
	p, ok := c[code]
	return p, ok
}

func lookup(catalog Catalog, code string) (entity.Product, bool) {
	if catalog == nil || code == "" {
		return entity.Product{}, false
	}
	return catalog.Lookup(code)
}
