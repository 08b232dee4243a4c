package appointment

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/sto-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/sto-scheduler/internal/metrics"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

type CompleteAppointmentInput struct {
	AppointmentID  uint
	MechanicNotes  string
	ActualDuration int
}

type CompleteAppointment struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.BookingMetrics
	cfg     Settings
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	m *metrics.BookingMetrics,
	cfg Settings,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:    repo,
		audit:   audit,
		metrics: m,
		cfg:     cfg,
	}
}

// Execute completes a confirmed appointment, writes its service history
// and credits the customer one loyalty point per whole currency unit paid.
func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	actor Actor,
	in CompleteAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	now := uc.cfg.now()
	from := domain.Status(ap.Status)
	if err := domain.Complete(ap, now); err != nil {
		return nil, err
	}

	duration := in.ActualDuration
	if duration <= 0 {
		duration = ap.DurationMinutes
	}

	history := &models.ServiceHistory{
		CompletedAt:    now,
		MechanicNotes:  strings.TrimSpace(in.MechanicNotes),
		ActualDuration: duration,
		FinalPrice:     ap.TotalPrice,
	}

	points := int(ap.TotalPrice.Floor().IntPart())
	if err := uc.repo.CompleteWithHistory(ctx, ap, from, history, points); err != nil {
		return nil, err
	}

	uc.metrics.ObserveTransition(ap.Status)
	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   audit.ActionAppointmentCompleted,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"status":         ap.Status,
			"loyalty_points": points,
		},
		Appointment: ap,
	})

	return ap, nil
}
