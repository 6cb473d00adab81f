package dto

import "time"

// ProductResponse representación de lectura de un producto.
type ProductResponse struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Unit       string    `json:"unit,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ProductListResponse respuesta de listado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
