package validation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-admin/internal/domain/entity"
)

var (
	minPrice = decimal.NewFromInt(1)
	// Tope de NUMERIC(14,2).
	maxPrice = decimal.RequireFromString("999999999999.99")
)

// ValidateCustomer: name, city y gender son obligatorios; gender debe pertenecer al enum.
func ValidateCustomer(c entity.Customer) Errors {
	errs := Errors{}
	if strings.TrimSpace(c.Name) == "" {
		errs.Add("name", MsgRequired)
	}
	if strings.TrimSpace(c.City) == "" {
		errs.Add("city", MsgRequired)
	}
	switch {
	case c.Gender == "":
		errs.Add("gender", MsgRequired)
	case !c.Gender.Valid():
		errs.Add("gender", MsgInvalidOption)
	}
	return errs
}

// ValidateProduct: name obligatorio, category dentro del enum y price en [1, 999999999999.99].
func ValidateProduct(p entity.Product) Errors {
	errs := Errors{}
	if strings.TrimSpace(p.Name) == "" {
		errs.Add("name", MsgRequired)
	}
	switch {
	case p.Category == "":
		errs.Add("category", MsgRequired)
	case !p.Category.Valid():
		errs.Add("category", MsgInvalidOption)
	}
	switch {
	case p.Price.LessThan(minPrice):
		errs.Add("price", MsgMinOne)
	case p.Price.GreaterThan(maxPrice):
		errs.Add("price", MsgMaxPrice)
	}
	return errs
}
