package models

import (
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// Order snapshots the cart at checkout time. Items is a JSON string column,
// decoupled from the live catalog. Orders carry no DeletedAt: the admin
// surface never hard-deletes them.
type Order struct {
	ID              string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderNumber     string        `gorm:"type:varchar(20);uniqueIndex;not null" json:"orderNumber"`
	SessionID       string        `gorm:"type:varchar(64);index" json:"-"`
	CustomerName    string        `gorm:"type:varchar(191);not null" json:"customerName"`
	CustomerPhone   string        `gorm:"type:varchar(32);not null" json:"customerPhone"`
	CustomerEmail   string        `gorm:"type:varchar(191)" json:"customerEmail"`
	ShippingAddress string        `gorm:"type:text;not null" json:"shippingAddress"`
	Items           string        `gorm:"type:text" json:"-"` // JSON string
	Total           int64         `gorm:"not null" json:"total"`
	Status          OrderStatus   `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentStatus   PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"paymentStatus"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is one snapshotted cart line inside Order.Items.
type OrderItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"` // minor units, captured at add-to-cart time
}
