package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock" validate:"min=0"`
	CategoryID     string          `json:"category_id" validate:"omitempty,uuid"`
	Images         []string        `json:"images" validate:"dive,url"`
	Specifications json.RawMessage `json:"specifications"`
	IsFeatured     bool            `json:"is_featured"`
	IsActive       bool            `json:"is_active"`
}

// UpdateProductRequest entrada para actualizar un producto (merge parcial).
type UpdateProductRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string          `json:"description"`
	Price          *decimal.Decimal `json:"price"`
	Stock          *int             `json:"stock" validate:"omitempty,min=0"`
	CategoryID     *string          `json:"category_id" validate:"omitempty,uuid"`
	Images         []string         `json:"images" validate:"omitempty,dive,url"`
	Specifications json.RawMessage  `json:"specifications"`
	IsFeatured     *bool            `json:"is_featured"`
	IsActive       *bool            `json:"is_active"`
}

// ListProductsRequest filtros del listado público/admin.
type ListProductsRequest struct {
	CategoryID string `query:"category_id" validate:"omitempty,uuid"`
	Featured   bool   `query:"featured"`
	PageRequest
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	CategoryID     string          `json:"category_id,omitempty"`
	Images         []string        `json:"images"`
	Specifications json.RawMessage `json:"specifications,omitempty"`
	IsFeatured     bool            `json:"is_featured"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
