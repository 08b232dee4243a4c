package appointment

import (
	"context"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/sto-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/sto-scheduler/internal/metrics"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

type ConfirmAppointment struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.BookingMetrics
	cfg     Settings
}

func NewConfirmAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	m *metrics.BookingMetrics,
	cfg Settings,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:    repo,
		audit:   audit,
		metrics: m,
		cfg:     cfg,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	actor Actor,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(ap.Status)
	if err := domain.Confirm(ap, uc.cfg.now()); err != nil {
		return nil, err
	}

	return ap, saveStatus(ctx, uc.repo, uc.audit, uc.metrics, actor, ap, from, audit.ActionAppointmentConfirmed)
}
