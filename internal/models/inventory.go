package models

import (
	"time"

	"github.com/gocql/gocql"
	"github.com/shopspring/decimal"
)

const (
	MovementSale       = "sale"
	MovementReturn     = "return"
	MovementAdjustment = "adjustment"
)

type StockMovement struct {
	ID        gocql.UUID `json:"id"`
	ProductID int64      `json:"product_id"`
	Type      string     `json:"type"`
	Quantity  int        `json:"quantity"`
	OrderID   int64      `json:"order_id,omitempty"`
	UserID    string     `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
}

type AuditLog struct {
	ID         gocql.UUID `json:"id"`
	UserID     string     `json:"user_id"`
	UserEmail  string     `json:"user_email"`
	Action     string     `json:"action"`
	Resource   string     `json:"resource"`
	ResourceID string     `json:"resource_id,omitempty"`
	NewValue   string     `json:"new_value,omitempty"`
	IPAddress  string     `json:"ip_address"`
	UserAgent  string     `json:"user_agent"`
	Timestamp  time.Time  `json:"timestamp"`
}

type DashboardStats struct {
	TotalProducts  int             `db:"total_products" json:"total_products"`
	TotalOrders    int             `db:"total_orders" json:"total_orders"`
	TotalCustomers int             `db:"total_customers" json:"total_customers"`
	TotalRevenue   decimal.Decimal `db:"total_revenue" json:"total_revenue"`
	PendingOrders  int             `db:"pending_orders" json:"pending_orders"`
	LowStock       int             `db:"low_stock" json:"low_stock"`
	OutOfStock     int             `db:"out_of_stock" json:"out_of_stock"`
}

type Dashboard struct {
	Stats          DashboardStats      `json:"stats"`
	RecentOrders   []Order             `json:"recent_orders"`
	LowStockItems  []Product           `json:"low_stock_products"`
	OrdersByStatus map[OrderStatus]int `json:"orders_by_status"`
}
