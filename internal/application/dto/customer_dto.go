package dto

import "time"

// CustomerRequest body para POST /api/customers.
type CustomerRequest struct {
	Name   string `json:"name"`
	City   string `json:"city"`
	Gender string `json:"gender"`
}

// UpdateCustomerRequest body para PUT /api/customers/:id; los campos nil no se tocan.
type UpdateCustomerRequest struct {
	Name   *string `json:"name,omitempty"`
	City   *string `json:"city,omitempty"`
	Gender *string `json:"gender,omitempty"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
