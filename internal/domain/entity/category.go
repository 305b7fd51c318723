package entity

import "time"

// Category categoría de productos del catálogo. Nombre único.
type Category struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
