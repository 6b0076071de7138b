package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var statusRank = map[OrderStatus]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusDelivered:  3,
}

func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok || s == StatusCancelled
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo : avance dans pending → processing → shipped → delivered,
// ou annulation depuis un état non terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return statusRank[next] > statusRank[s]
}

type Order struct {
	ID              int64           `db:"id" json:"id"`
	UserID          string          `db:"user_id" json:"user_id"`
	OrderNumber     string          `db:"order_number" json:"order_number"`
	Status          OrderStatus     `db:"status" json:"status"`
	Subtotal        decimal.Decimal `db:"subtotal" json:"subtotal"`
	Tax             decimal.Decimal `db:"tax" json:"tax"`
	Shipping        decimal.Decimal `db:"shipping" json:"shipping"`
	Total           decimal.Decimal `db:"total" json:"total"`
	ShippingName    string          `db:"shipping_name" json:"shipping_name"`
	ShippingAddress string          `db:"shipping_address" json:"shipping_address"`
	ShippingCity    string          `db:"shipping_city" json:"shipping_city"`
	ShippingState   string          `db:"shipping_state" json:"shipping_state"`
	ShippingZip     string          `db:"shipping_zip" json:"shipping_zip"`
	ShippingCountry string          `db:"shipping_country" json:"shipping_country"`
	ShippingPhone   *string         `db:"shipping_phone" json:"shipping_phone,omitempty"`
	Notes           *string         `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`

	CustomerName  string      `db:"customer_name" json:"customer_name,omitempty"`
	CustomerEmail string      `db:"customer_email" json:"customer_email,omitempty"`
	Items         []OrderItem `db:"-" json:"items"`
}

// OrderItem fige le nom et le prix du produit au moment de la commande.
type OrderItem struct {
	ID          int64           `db:"id" json:"id"`
	OrderID     int64           `db:"order_id" json:"order_id"`
	ProductID   *int64          `db:"product_id" json:"product_id,omitempty"`
	ProductName string          `db:"product_name" json:"product_name"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Size        string          `db:"size" json:"size,omitempty"`
	Color       string          `db:"color" json:"color,omitempty"`
}

type ShippingDetails struct {
	Name    string `json:"shipping_name" binding:"required,max=255"`
	Address string `json:"shipping_address" binding:"required,max=255"`
	City    string `json:"shipping_city" binding:"required,max=255"`
	State   string `json:"shipping_state" binding:"required,max=255"`
	Zip     string `json:"shipping_zip" binding:"required,max=20"`
	Country string `json:"shipping_country" binding:"required,max=255"`
	Phone   string `json:"shipping_phone" binding:"max=20"`
	Notes   string `json:"notes" binding:"max=1000"`
}

type OrderFilter struct {
	UserID string
	Status OrderStatus
	Search string
	Page   int
	Limit  int
}

type UpdateStatusInput struct {
	Status OrderStatus `json:"status" binding:"required,oneof=pending processing shipped delivered cancelled"`
}
