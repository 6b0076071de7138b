package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `db:"id" json:"id"`
	CategoryID  int64           `db:"category_id" json:"category_id"`
	Name        string          `db:"name" json:"name"`
	Slug        string          `db:"slug" json:"slug"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Stock       int             `db:"stock" json:"stock"`
	Image       string          `db:"image" json:"image,omitempty"`
	Sizes       pq.StringArray  `db:"sizes" json:"sizes"`
	Colors      pq.StringArray  `db:"colors" json:"colors"`
	Material    string          `db:"material" json:"material,omitempty"`
	Featured    bool            `db:"featured" json:"featured"`
	Active      bool            `db:"active" json:"active"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`

	CategoryName string `db:"category_name" json:"category_name,omitempty"`
	ImageURL     string `db:"-" json:"image_url,omitempty"`
}

func (p Product) InStock() bool { return p.Stock > 0 }

// Filtres de stock côté admin
const (
	StockFilterLow = "low"
	StockFilterOut = "out"

	LowStockThreshold       = 10
	DashboardStockThreshold = 5
)

type ProductFilter struct {
	Search       string
	CategoryID   int64
	CategorySlug string
	StockStatus  string
	// IDs restreint le résultat (résolution via Elasticsearch). nil = pas de restriction.
	IDs         []int64
	OnlyActive  bool
	OnlyInStock bool
	Featured    bool
	Page        int
	Limit       int
}

// ProductInput regroupe les champs modifiables par l'admin.
type ProductInput struct {
	Name        string          `json:"name" binding:"required,max=255"`
	CategoryID  int64           `json:"category_id" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image" binding:"max=255"`
	Sizes       []string        `json:"sizes"`
	Colors      []string        `json:"colors"`
	Material    string          `json:"material" binding:"max=255"`
	Stock       *int            `json:"stock" binding:"required"`
	Featured    bool            `json:"featured"`
	Active      *bool           `json:"active"`
}
