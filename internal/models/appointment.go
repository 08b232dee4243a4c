package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ServiceID uint    `gorm:"index;not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service"`

	BoxID *uint `gorm:"index:idx_appointments_box_date,priority:1" json:"box_id"`
	Box   *Box  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"box"`

	CustomerID *uint     `gorm:"index" json:"customer_id"`
	Customer   *Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	GuestName  string `gorm:"size:100" json:"guest_name"`
	GuestPhone string `gorm:"size:20" json:"guest_phone"`
	GuestEmail string `gorm:"size:254" json:"guest_email"`

	AppointmentDate string `gorm:"size:10;not null;index:idx_appointments_box_date,priority:2" json:"appointment_date"`
	StartTime       string `gorm:"size:5;not null" json:"appointment_time"`
	EndTime         string `gorm:"size:5;not null" json:"end_time"`
	DurationMinutes int    `gorm:"not null" json:"duration_minutes"`

	Status     string          `gorm:"size:20;default:'pending';index" json:"status"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
	Notes      string          `gorm:"type:text" json:"notes"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactName is the customer's full name or the guest name.
func (a Appointment) ContactName() string {
	if a.Customer != nil {
		return a.Customer.User.FullName()
	}
	return a.GuestName
}

// ContactEmail is where notifications for this appointment go.
func (a Appointment) ContactEmail() string {
	if a.Customer != nil {
		return a.Customer.User.Email
	}
	return a.GuestEmail
}
