package appointment

import (
	"context"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/sto-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/sto-scheduler/internal/metrics"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

type CancelAppointment struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.BookingMetrics
	cfg     Settings
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	m *metrics.BookingMetrics,
	cfg Settings,
) *CancelAppointment {
	return &CancelAppointment{
		repo:    repo,
		audit:   audit,
		metrics: m,
		cfg:     cfg,
	}
}

// Execute cancels on behalf of the owner.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := authorizeOwner(ctx, uc.repo, Actor{UserID: actor.UserID}, ap); err != nil {
		return nil, err
	}

	from := domain.Status(ap.Status)
	if err := domain.Cancel(ap, uc.cfg.now()); err != nil {
		return nil, err
	}

	return ap, saveStatus(ctx, uc.repo, uc.audit, uc.metrics, actor, ap, from, audit.ActionAppointmentCancelled)
}

type CancelAppointmentByAdmin struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.BookingMetrics
	cfg     Settings
}

func NewCancelAppointmentByAdmin(
	repo domain.Repository,
	audit *audit.Dispatcher,
	m *metrics.BookingMetrics,
	cfg Settings,
) *CancelAppointmentByAdmin {
	return &CancelAppointmentByAdmin{
		repo:    repo,
		audit:   audit,
		metrics: m,
		cfg:     cfg,
	}
}

func (uc *CancelAppointmentByAdmin) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(ap.Status)
	if err := domain.CancelByAdmin(ap, uc.cfg.now()); err != nil {
		return nil, err
	}

	return ap, saveStatus(ctx, uc.repo, uc.audit, uc.metrics, actor, ap, from, audit.ActionAppointmentCancelledByAdmin)
}

// saveStatus persists a status change made from status from and
// announces it.
func saveStatus(
	ctx context.Context,
	repo domain.Repository,
	dispatcher *audit.Dispatcher,
	m *metrics.BookingMetrics,
	actor Actor,
	ap *models.Appointment,
	from domain.Status,
	action string,
) error {
	if err := repo.UpdateStatus(ctx, ap, from); err != nil {
		return err
	}

	m.ObserveTransition(ap.Status)
	dispatcher.Dispatch(audit.Event{
		UserID:      &actor.UserID,
		Action:      action,
		Entity:      "appointment",
		EntityID:    &ap.ID,
		Metadata:    map[string]any{"status": ap.Status},
		Appointment: ap,
	})
	return nil
}
