package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order statuses accepted by the API.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

// Order represents a placed order with its line items. Total is always
// recomputed server-side from the items, never trusted from the client.
type Order struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	UserID    uuid.UUID   `gorm:"type:uuid;index;not null" json:"userId"`
	Items     []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Status    string      `gorm:"size:16;not null;default:pending" json:"status"`
	Note      string      `gorm:"size:500" json:"note,omitempty"`
	Total     float64     `gorm:"not null" json:"total"`
}

// OrderItem is a snapshot of a catalog product at order time.
type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	ProductID int       `gorm:"not null" json:"productId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Price     float64   `gorm:"not null" json:"price"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return nil
}
