package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/sto-scheduler/internal/i18n"
)

// ItemList holds a list of strings per locale.
type ItemList map[i18n.Locale][]string

// STOInfo is the home page content of the service center. Only the newest
// active row is shown.
type STOInfo struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name            datatypes.JSONType[i18n.Text] `json:"name"`
	Description     datatypes.JSONType[i18n.Text] `json:"description"`
	Motto           datatypes.JSONType[i18n.Text] `json:"motto"`
	WelcomeText     datatypes.JSONType[i18n.Text] `json:"welcome_text"`
	WhatYouCanTitle datatypes.JSONType[i18n.Text] `json:"what_you_can_title"`
	WhatYouCanItems datatypes.JSONType[ItemList]  `json:"what_you_can_items"`
	Address         datatypes.JSONType[i18n.Text] `json:"address"`
	Phone           string                        `gorm:"size:20" json:"phone"`
	Email           string                        `gorm:"size:254" json:"email"`
	WorkingHours    datatypes.JSONType[i18n.Text] `json:"working_hours"`
	IsActive        bool                          `gorm:"not null" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (STOInfo) TableName() string {
	return "sto_info"
}
