package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage adalah log percakapan append-only, diurutkan berdasarkan
// created_at. Konten assistant disimpan sudah bersih dari directive.
type ChatMessage struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SessionID string    `gorm:"type:varchar(150);not null;index" json:"session_id"`
	TableID   *string   `gorm:"type:varchar(36)" json:"table_id"`
	Role      string    `gorm:"type:varchar(10);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (cm *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if cm.ID == "" {
		cm.ID = uuid.NewString()
	}
	return nil
}
