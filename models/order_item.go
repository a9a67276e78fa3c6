package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderItem struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID    string    `gorm:"type:varchar(36);not null;index" json:"order_id"`
	Order      Order     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID *string   `gorm:"type:varchar(36)" json:"menu_item_id"`
	MenuItem   *MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	// UnitPrice adalah snapshot harga saat order dibuat; perubahan harga
	// katalog tidak pernah mempengaruhi order lama.
	UnitPrice int64     `gorm:"not null" json:"unit_price"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == "" {
		oi.ID = uuid.NewString()
	}
	return nil
}

// Subtotal menghitung harga baris dari snapshot harga.
func (oi *OrderItem) Subtotal() int64 {
	return oi.UnitPrice * int64(oi.Quantity)
}
