package appointment

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/sto-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/pricing"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/metrics"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
	"github.com/BruksfildServices01/sto-scheduler/internal/validators"
)

var tracer = otel.Tracer("sto/booking")

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	// UserID is the authenticated user; nil books as a guest.
	UserID *uint

	GuestName  string
	GuestPhone string
	GuestEmail string

	ServiceID uint
	Date      string
	Time      string
	Notes     string
}

func (in CreateAppointmentInput) guest() bool {
	return in.UserID == nil
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo    domain.Repository
	avail   *Availability
	alloc   *Allocator
	audit   *audit.Dispatcher
	metrics *metrics.BookingMetrics
	cfg     Settings
}

func NewCreateAppointment(
	repo domain.Repository,
	avail *Availability,
	alloc *Allocator,
	audit *audit.Dispatcher,
	m *metrics.BookingMetrics,
	cfg Settings,
) *CreateAppointment {
	return &CreateAppointment{
		repo:    repo,
		avail:   avail,
		alloc:   alloc,
		audit:   audit,
		metrics: m,
		cfg:     cfg,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ctx, span := tracer.Start(ctx, "appointment.create")
	defer span.End()
	span.SetAttributes(
		attribute.Bool("booking.guest", in.guest()),
		attribute.Int("booking.service_id", int(in.ServiceID)),
		attribute.String("booking.date", in.Date),
	)

	ap, err := uc.execute(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(httperr.KindOf(err)))
		return nil, err
	}
	span.SetAttributes(attribute.Int("booking.box_id", int(*ap.BoxID)))
	return ap, nil
}

func (uc *CreateAppointment) execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Input
	// --------------------------------------------------
	if in.guest() {
		if err := validateGuest(&in.GuestName, &in.GuestPhone, &in.GuestEmail); err != nil {
			return nil, err
		}
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

	// --------------------------------------------------
	// 2️⃣ Service
	// --------------------------------------------------
	service, err := uc.avail.activeService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Customer + price
	// --------------------------------------------------
	ap := &models.Appointment{
		ServiceID:       service.ID,
		AppointmentDate: day.Format(schedule.DateLayout),
		StartTime:       start.String(),
		EndTime:         start.Add(service.Duration()).String(),
		DurationMinutes: service.Duration(),
		Status:          string(domain.InitialStatus()),
		Notes:           strings.TrimSpace(in.Notes),
	}

	completed := 0
	if in.guest() {
		ap.GuestName = in.GuestName
		ap.GuestPhone = in.GuestPhone
		ap.GuestEmail = in.GuestEmail
	} else {
		customer, err := uc.repo.CustomerForUser(ctx, *in.UserID)
		if err != nil {
			return nil, err
		}
		if customer.IsBlocked {
			return nil, httperr.BlockedCustomer()
		}
		if completed, err = uc.repo.CountCompleted(ctx, customer.ID); err != nil {
			return nil, err
		}
		ap.CustomerID = &customer.ID
		ap.Customer = customer
	}
	ap.TotalPrice = pricing.TotalPrice(service.Price, completed)

	// --------------------------------------------------
	// 4️⃣ Box allocation (critical section)
	// --------------------------------------------------
	if err := uc.alloc.Place(ctx, ap, day, 0, uc.repo.Create); err != nil {
		return nil, err
	}

	created, err := uc.repo.GetAppointment(ctx, ap.ID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Events
	// --------------------------------------------------
	uc.metrics.ObserveCreated(in.guest())
	uc.audit.Dispatch(audit.Event{
		UserID:      in.UserID,
		Action:      audit.ActionAppointmentCreated,
		Entity:      "appointment",
		EntityID:    &created.ID,
		Metadata:    bookingMetadata(created),
		Appointment: created,
	})

	return created, nil
}

// validateGuest normalizes the guest contact in place.
func validateGuest(name, phone, email *string) error {
	*name = strings.TrimSpace(*name)
	*phone = validators.NormalizePhone(*phone)
	*email = validators.NormalizeEmail(*email)

	fields := map[string]string{}
	if *name == "" {
		fields["guest_name"] = "This field is required."
	}
	switch {
	case *phone == "":
		fields["guest_phone"] = "This field is required."
	case !validators.IsPhone(*phone):
		fields["guest_phone"] = "Enter a valid phone number."
	}
	if *email != "" && !validators.IsEmail(*email) {
		fields["guest_email"] = "Enter a valid email address."
	}

	if len(fields) > 0 {
		return httperr.ValidationFields(fields)
	}
	return nil
}

func bookingMetadata(ap *models.Appointment) map[string]any {
	meta := map[string]any{
		"service_id":  ap.ServiceID,
		"date":        ap.AppointmentDate,
		"time":        ap.StartTime,
		"end_time":    ap.EndTime,
		"status":      ap.Status,
		"total_price": ap.TotalPrice.StringFixed(2),
	}
	if ap.BoxID != nil {
		meta["box_id"] = *ap.BoxID
	}
	return meta
}
