package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Table struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	TableNumber int       `gorm:"not null;uniqueIndex" json:"table_number"`
	Capacity    int       `gorm:"not null;default:4" json:"capacity"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
