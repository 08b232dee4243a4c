package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/sto-scheduler/internal/i18n"
)

type Category struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        datatypes.JSONType[i18n.Text] `json:"name"`
	Description datatypes.JSONType[i18n.Text] `json:"description"`
	Order       int                           `gorm:"column:display_order;default:0" json:"order"`

	Services []Service `gorm:"foreignKey:CategoryID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "service_categories"
}
