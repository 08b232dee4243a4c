package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	"github.com/BruksfildServices01/sto-scheduler/internal/i18n"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

var subjects = map[string]string{
	audit.ActionAppointmentCreated:          "Запис прийнято / Booking received",
	audit.ActionAppointmentUpdated:          "Запис змінено / Booking changed",
	audit.ActionAppointmentConfirmed:        "Запис підтверджено / Booking confirmed",
	audit.ActionAppointmentCancelled:        "Запис скасовано / Booking cancelled",
	audit.ActionAppointmentCancelledByAdmin: "Запис скасовано СТО / Booking cancelled by the service center",
	audit.ActionAppointmentCompleted:        "Обслуговування завершено / Service completed",
}

// BookingNotifier emails the contact of an appointment when its booking
// changes. Events without a contact email are skipped.
type BookingNotifier struct {
	sender EmailSender
}

// NewBookingNotifier returns nil when sender is nil.
func NewBookingNotifier(sender EmailSender) *BookingNotifier {
	if sender == nil {
		return nil
	}
	return &BookingNotifier{sender: sender}
}

func (n *BookingNotifier) Handle(ctx context.Context, ev audit.Event) error {
	if n == nil || ev.Appointment == nil {
		return nil
	}
	subject, ok := subjects[ev.Action]
	if !ok {
		return nil
	}

	ap := ev.Appointment
	to := ap.ContactEmail()
	if to == "" {
		return nil
	}

	return n.sender.Send(ctx, EmailMessage{
		To:      to,
		ToName:  ap.ContactName(),
		Subject: subject,
		Body:    body(ap),
	})
}

func body(ap *models.Appointment) string {
	var b strings.Builder

	service := ap.Service.Name.Data()
	fmt.Fprintf(&b, "%s\n\n", ap.ContactName())
	fmt.Fprintf(&b, "%s / %s\n", service.Get(i18n.UK), service.Get(i18n.EN))
	fmt.Fprintf(&b, "%s %s-%s\n", ap.AppointmentDate, ap.StartTime, ap.EndTime)
	if ap.Box != nil {
		fmt.Fprintf(&b, "Бокс / Box: %s\n", ap.Box.Name.Data().Get(i18n.UK))
	}
	fmt.Fprintf(&b, "Статус / Status: %s\n", ap.Status)
	fmt.Fprintf(&b, "Вартість / Price: %s\n", ap.TotalPrice.StringFixed(2))
	return b.String()
}
