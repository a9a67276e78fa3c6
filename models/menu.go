package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuCategory struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Icon      string    `gorm:"type:varchar(16)" json:"icon"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (mc *MenuCategory) BeforeCreate(tx *gorm.DB) error {
	if mc.ID == "" {
		mc.ID = uuid.NewString()
	}
	return nil
}

// MenuItem adalah item katalog. Harga disimpan dalam satuan terkecil
// (Rupiah tanpa desimal) agar tidak ada pembulatan floating point.
type MenuItem struct {
	ID              string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	CategoryID      *string       `gorm:"type:varchar(36);index" json:"category_id"`
	Category        *MenuCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name            string        `gorm:"type:varchar(255);not null" json:"name"`
	Description     string        `gorm:"type:text" json:"description"`
	Price           int64         `gorm:"not null" json:"price"`
	Tags            string        `gorm:"type:varchar(255)" json:"tags"` // comma separated
	IsAvailable     bool          `gorm:"not null;default:true" json:"is_available"`
	IsRecommended   bool          `gorm:"not null;default:false" json:"is_recommended"`
	PreparationTime int           `gorm:"not null;default:15" json:"preparation_time"` // menit
	CreatedAt       time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null" json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// TagList memecah kolom tags menjadi slice.
func (m *MenuItem) TagList() []string {
	if m.Tags == "" {
		return nil
	}
	parts := strings.Split(m.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
