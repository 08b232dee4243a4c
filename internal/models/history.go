package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ServiceHistory struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint        `gorm:"uniqueIndex;not null" json:"appointment_id"`
	Appointment   Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"appointment"`

	CompletedAt    time.Time       `json:"completed_at"`
	MechanicNotes  string          `gorm:"type:text" json:"mechanic_notes"`
	ActualDuration int             `json:"actual_duration"`
	FinalPrice     decimal.Decimal `gorm:"type:numeric(10,2)" json:"final_price"`
}

func (ServiceHistory) TableName() string {
	return "service_history"
}

const (
	LoyaltyEarned = "earned"
	LoyaltySpent  = "spent"
)

type LoyaltyTransaction struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint `gorm:"index;not null" json:"customer_id"`

	TransactionType string `gorm:"size:10;not null" json:"transaction_type"`
	Points          int    `json:"points"`
	Description     string `gorm:"size:200" json:"description"`

	CreatedAt time.Time `json:"created_at"`
}
