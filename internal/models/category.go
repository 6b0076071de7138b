package models

import "time"

type Category struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description string    `db:"description" json:"description"`
	Image       string    `db:"image" json:"image,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// ProductsCount compte tous les produits, AvailableCount seulement les actifs en stock.
	ProductsCount  int    `db:"products_count" json:"products_count"`
	AvailableCount int    `db:"available_count" json:"available_count"`
	ImageURL       string `db:"-" json:"image_url,omitempty"`
}

type CategoryInput struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	Image       string `json:"image" binding:"max=255"`
}
