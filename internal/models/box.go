package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/sto-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/sto-scheduler/internal/i18n"
)

// Box is a service bay, the resource appointments are assigned to.
type Box struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         datatypes.JSONType[i18n.Text]             `json:"name"`
	Description  datatypes.JSONType[i18n.Text]             `json:"description"`
	IsActive     bool                                      `gorm:"not null" json:"is_active"`
	WorkingHours datatypes.JSONType[schedule.WeeklyHours] `json:"working_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
