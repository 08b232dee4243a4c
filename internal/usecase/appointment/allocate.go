package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/sto-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/sto-scheduler/internal/metrics"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

// writeFunc stores ap once a box has been chosen for it.
type writeFunc func(ctx context.Context, ap *models.Appointment) error

// Allocator assigns a box to an appointment and stores it inside the
// critical section of that box and date.
type Allocator struct {
	avail   *Availability
	repo    domain.Repository
	locker  lock.Locker
	metrics *metrics.BookingMetrics
	audit   *audit.Dispatcher
}

func NewAllocator(
	avail *Availability,
	repo domain.Repository,
	locker lock.Locker,
	m *metrics.BookingMetrics,
) *Allocator {
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	return &Allocator{avail: avail, repo: repo, locker: locker, metrics: m}
}

// WithAudit records lost races as appointment_conflict events.
func (a *Allocator) WithAudit(d *audit.Dispatcher) *Allocator {
	a.audit = d
	return a
}

// Place tries the lowest free box. When a concurrent booking wins that box
// the free set is recomputed once and the next box is tried; a second loss
// or an empty free set yields NoBoxAvailable.
func (a *Allocator) Place(
	ctx context.Context,
	ap *models.Appointment,
	day time.Time,
	excludeID uint,
	write writeFunc,
) error {

	start, err := schedule.ParseClock(ap.StartTime)
	if err != nil {
		return httperr.Validation("invalid_time", "Time must be in HH:MM format.")
	}

	lost := map[uint]bool{}
	for attempt := 0; attempt < 2; attempt++ {
		boxes, err := a.repo.ListActiveBoxes(ctx)
		if err != nil {
			return err
		}
		ids, err := a.avail.freeBoxes(ctx, boxes, day, start, ap.DurationMinutes, excludeID)
		if err != nil {
			return err
		}

		boxID, ok := firstUntried(ids, lost)
		if !ok {
			break
		}

		err = a.placeOn(ctx, boxID, ap, write)
		if err == nil {
			return nil
		}
		if !httperr.IsKind(err, httperr.KindConflict) {
			return err
		}

		a.metrics.ObserveConflict()
		a.audit.Dispatch(audit.Event{
			Action:   audit.ActionAppointmentConflict,
			Entity:   "box",
			EntityID: &boxID,
			Metadata: map[string]any{
				"date":  ap.AppointmentDate,
				"start": ap.StartTime,
				"end":   ap.EndTime,
			},
		})
		lost[boxID] = true
	}

	a.metrics.ObserveNoBox()
	return httperr.NoBoxAvailable()
}

func (a *Allocator) placeOn(
	ctx context.Context,
	boxID uint,
	ap *models.Appointment,
	write writeFunc,
) error {

	release, err := a.locker.Acquire(ctx, lock.BoxDateKey(boxID, ap.AppointmentDate))
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return httperr.Conflict("box_busy", "The box is being booked by someone else.")
		}
		return err
	}
	defer release()

	previous := ap.BoxID
	id := boxID
	ap.BoxID = &id

	if err := write(ctx, ap); err != nil {
		ap.BoxID = previous
		return err
	}
	return nil
}

func firstUntried(ids []uint, lost map[uint]bool) (uint, bool) {
	for _, id := range ids {
		if !lost[id] {
			return id, true
		}
	}
	return 0, false
}
