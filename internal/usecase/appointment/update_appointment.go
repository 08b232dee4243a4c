package appointment

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/sto-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/pricing"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

type UpdateAppointmentInput struct {
	AppointmentID uint
	Actor         Actor

	GuestName  string
	GuestPhone string
	GuestEmail string

	ServiceID uint
	Date      string
	Time      string
	Notes     string
}

type UpdateAppointment struct {
	repo  domain.Repository
	avail *Availability
	alloc *Allocator
	audit *audit.Dispatcher
	cfg   Settings
}

func NewUpdateAppointment(
	repo domain.Repository,
	avail *Availability,
	alloc *Allocator,
	audit *audit.Dispatcher,
	cfg Settings,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		avail: avail,
		alloc: alloc,
		audit: audit,
		cfg:   cfg,
	}
}

// Execute reschedules a pending appointment. Price and end time are
// recomputed and frozen again; the box is kept when the slot is unchanged
// and reallocated otherwise.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ctx, span := tracer.Start(ctx, "appointment.update")
	defer span.End()
	span.SetAttributes(
		attribute.Int("booking.appointment_id", int(in.AppointmentID)),
		attribute.String("booking.date", in.Date),
	)

	ap, err := uc.execute(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(httperr.KindOf(err)))
		return nil, err
	}
	return ap, nil
}

func (uc *UpdateAppointment) execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := authorizeOwner(ctx, uc.repo, in.Actor, ap); err != nil {
		return nil, err
	}

	if err := domain.CanEdit(ap, uc.cfg.now(), uc.cfg.EditWindow); err != nil {
		return nil, err
	}

	day, err := uc.avail.parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	start, err := parseTime(in.Time)
	if err != nil {
		return nil, err
	}
	if !uc.avail.startsInFuture(day, start) {
		return nil, httperr.Validation("appointment_in_past", "Appointment time must be in the future.")
	}

	service, err := uc.avail.activeService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	if ap.CustomerID == nil {
		if err := validateGuest(&in.GuestName, &in.GuestPhone, &in.GuestEmail); err != nil {
			return nil, err
		}
		ap.GuestName = in.GuestName
		ap.GuestPhone = in.GuestPhone
		ap.GuestEmail = in.GuestEmail
	}

	completed := 0
	if ap.CustomerID != nil {
		if completed, err = uc.repo.CountCompleted(ctx, *ap.CustomerID); err != nil {
			return nil, err
		}
	}

	date := day.Format(schedule.DateLayout)
	slotChanged := ap.AppointmentDate != date ||
		ap.StartTime != start.String() ||
		ap.ServiceID != service.ID

	ap.ServiceID = service.ID
	ap.Service = *service
	ap.AppointmentDate = date
	ap.StartTime = start.String()
	ap.EndTime = start.Add(service.Duration()).String()
	ap.DurationMinutes = service.Duration()
	ap.TotalPrice = pricing.TotalPrice(service.Price, completed)
	ap.Notes = strings.TrimSpace(in.Notes)

	if slotChanged || ap.BoxID == nil {
		err = uc.alloc.Place(ctx, ap, day, ap.ID, uc.repo.Reschedule)
	} else {
		err = uc.repo.Reschedule(ctx, ap)
	}
	if err != nil {
		return nil, err
	}

	updated, err := uc.repo.GetAppointment(ctx, ap.ID)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:      &in.Actor.UserID,
		Action:      audit.ActionAppointmentUpdated,
		Entity:      "appointment",
		EntityID:    &updated.ID,
		Metadata:    bookingMetadata(updated),
		Appointment: updated,
	})

	return updated, nil
}
