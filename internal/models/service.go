package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/sto-scheduler/internal/i18n"
)

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CategoryID uint     `gorm:"index;not null" json:"category_id"`
	Category   Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"category"`

	Name            datatypes.JSONType[i18n.Text] `json:"name"`
	Description     datatypes.JSONType[i18n.Text] `json:"description"`
	Price           decimal.Decimal               `gorm:"type:numeric(10,2);not null" json:"price"`
	DurationMinutes int                           `gorm:"default:60" json:"duration_minutes"`
	IsActive        bool                          `gorm:"not null" json:"is_active"`
	IsFeatured      bool                          `gorm:"default:false" json:"is_featured"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Duration falls back to one hour when unset.
func (s Service) Duration() int {
	if s.DurationMinutes <= 0 {
		return 60
	}
	return s.DurationMinutes
}
