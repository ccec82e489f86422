package entity

import "time"

// Customer representa un cliente al que se le registran ventas.
type Customer struct {
	ID        int64
	Name      string
	City      string
	Gender    Gender
	CreatedAt time.Time
	UpdatedAt time.Time
}
