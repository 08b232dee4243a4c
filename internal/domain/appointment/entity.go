package appointment

import (
	"time"

	"github.com/BruksfildServices01/sto-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

// EditWindow is how long before its start an appointment stops being editable.
const EditWindow = 2 * time.Hour

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := apply(ap, StatusConfirmed); err != nil {
		return err
	}
	ap.ConfirmedAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := apply(ap, StatusCompleted); err != nil {
		return err
	}
	ap.CompletedAt = &now
	return nil
}

// Cancel is the customer's own cancellation.
func Cancel(ap *models.Appointment, now time.Time) error {
	if err := apply(ap, StatusCancelled); err != nil {
		return err
	}
	ap.CancelledAt = &now
	return nil
}

func CancelByAdmin(ap *models.Appointment, now time.Time) error {
	if err := apply(ap, StatusCancelledByAdmin); err != nil {
		return err
	}
	ap.CancelledAt = &now
	return nil
}

func apply(ap *models.Appointment, to Status) error {
	if err := Transition(Status(ap.Status), to); err != nil {
		return err
	}
	ap.Status = string(to)
	return nil
}

// StartsAt is the appointment start in loc.
func StartsAt(ap *models.Appointment, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(
		schedule.DateLayout+" "+schedule.TimeLayout,
		ap.AppointmentDate+" "+ap.StartTime,
		loc,
	)
}

// CanEdit allows rescheduling only for pending appointments whose start is
// at least window away from now.
func CanEdit(ap *models.Appointment, now time.Time, window time.Duration) error {
	if Status(ap.Status) != StatusPending {
		return httperr.InvalidTransition(
			"not_editable",
			"Only pending appointments can be changed.",
		)
	}

	start, err := StartsAt(ap, now.Location())
	if err != nil {
		return err
	}

	if start.Sub(now) < window {
		return httperr.InvalidTransition(
			"edit_window_closed",
			"Appointments cannot be changed this close to the start.",
		)
	}
	return nil
}
