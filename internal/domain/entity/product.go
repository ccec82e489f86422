package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. Code es único y lo asigna el servidor
// si no viene en el alta; el motor de ventas lo trata como dato de solo lectura.
type Product struct {
	Code      string
	Name      string
	Category  Category
	Price     decimal.Decimal // precio de venta, no negativo
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
