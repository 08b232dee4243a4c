package dto

import (
	"time"

	"github.com/BruksfildServices01/sto-scheduler/internal/i18n"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

type AppointmentDTO struct {
	ID           uint         `json:"id"`
	Customer     *CustomerDTO `json:"customer"`
	CustomerName string       `json:"customer_name"`
	GuestName    string       `json:"guest_name"`
	GuestPhone   string       `json:"guest_phone"`
	GuestEmail   string       `json:"guest_email"`

	Service ServiceDTO `json:"service"`
	Box     *BoxDTO    `json:"box"`

	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`

	Status     string `json:"status"`
	Notes      string `json:"notes"`
	TotalPrice string `json:"total_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func Appointment(a models.Appointment, l i18n.Locale) AppointmentDTO {
	out := AppointmentDTO{
		ID:              a.ID,
		CustomerName:    a.ContactName(),
		GuestName:       a.GuestName,
		GuestPhone:      a.GuestPhone,
		GuestEmail:      a.GuestEmail,
		Service:         Service(a.Service, l),
		AppointmentDate: a.AppointmentDate,
		AppointmentTime: a.StartTime,
		EndTime:         a.EndTime,
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
		Notes:           a.Notes,
		TotalPrice:      a.TotalPrice.StringFixed(2),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.Customer != nil {
		c := Customer(*a.Customer)
		out.Customer = &c
	}
	if a.Box != nil {
		b := Box(*a.Box, l)
		out.Box = &b
	}
	return out
}

type ServiceHistoryDTO struct {
	ID             uint           `json:"id"`
	Appointment    AppointmentDTO `json:"appointment"`
	CompletedAt    time.Time      `json:"completed_at"`
	MechanicNotes  string         `json:"mechanic_notes"`
	ActualDuration int            `json:"actual_duration"`
	FinalPrice     string         `json:"final_price"`
}

func ServiceHistory(h models.ServiceHistory, l i18n.Locale) ServiceHistoryDTO {
	return ServiceHistoryDTO{
		ID:             h.ID,
		Appointment:    Appointment(h.Appointment, l),
		CompletedAt:    h.CompletedAt,
		MechanicNotes:  h.MechanicNotes,
		ActualDuration: h.ActualDuration,
		FinalPrice:     h.FinalPrice.StringFixed(2),
	}
}
