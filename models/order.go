package models

import (
	"time"
)

// Order status constants
const (
	OrderStatusPending  = "PENDING"
	OrderStatusShipped  = "SHIPPED"
	OrderStatusCanceled = "CANCELED"
)

type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    uint      `gorm:"not null;index" json:"book_id"`
	Book      Book      `json:"book" gorm:"foreignKey:BookID"`
	UserID    *uint     `json:"user_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Status    string    `gorm:"size:10;default:PENDING;not null" json:"status"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidOrderStatus reports whether status is one of the known order states
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusShipped, OrderStatusCanceled:
		return true
	}
	return false
}
