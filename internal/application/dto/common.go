package dto

import (
	"math"

	"github.com/shopspring/decimal"
)

func init() {
	// Montos como números JSON ({"price": 10}), que es lo que esperan la consola y el contrato REST.
	decimal.MarshalJSONWithoutQuotes = true
}

// Límites de paginación de los listados.
const (
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage mantiene (page-1)*limit dentro de int32.
	MaxPage = math.MaxInt32 / MaxLimit
)

// ListQuery parámetros de un listado: ?page&limit&search.
type ListQuery struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
}

// Normalize aplica valores por defecto: page en [1, MaxPage] y limit en [1, MaxLimit].
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
}

// Offset devuelve el desplazamiento de la página (requiere Normalize).
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Page sobre de respuesta de los listados.
type Page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// TotalPages calcula el número de páginas; nunca menos de 1.
func (p Page[T]) TotalPages() int {
	if p.Limit <= 0 || p.Total <= 0 {
		return 1
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// ErrorResponse cuerpo de error HTTP. Fields solo viene en errores de validación.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
