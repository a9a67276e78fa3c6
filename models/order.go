package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status order (alur dapur)
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Status pembayaran
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Metode pembayaran
const (
	PaymentMethodNone = ""
	PaymentMethodCash = "cash"
	PaymentMethodQris = "qris"
)

type Order struct {
	ID        string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	TableID   *string `gorm:"type:varchar(36);index" json:"table_id"`
	Table     *Table  `gorm:"foreignKey:TableID" json:"table,omitempty"`
	SessionID string  `gorm:"type:varchar(150);not null;index" json:"session_id"`
	Status    string  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	// TotalAmount dibekukan saat order dibuat, tidak pernah dihitung ulang.
	TotalAmount   int64       `gorm:"not null" json:"total_amount"`
	PaymentMethod string      `gorm:"type:varchar(10);not null;default:''" json:"payment_method"`
	PaymentStatus string      `gorm:"type:varchar(10);not null;default:'pending'" json:"payment_status"`
	Notes         string      `gorm:"type:text" json:"notes"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// IsTerminal melaporkan apakah status order sudah final.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// ActiveStatuses adalah status yang masih tampil di console dapur.
func ActiveStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusPreparing,
		OrderStatusReady,
	}
}
