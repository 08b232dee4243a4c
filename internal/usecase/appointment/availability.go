package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/sto-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type DatesInput struct {
	ServiceID uint
	From      string
	ExcludeID uint
}

type TimesInput struct {
	ServiceID uint
	Date      string
	ExcludeID uint
}

type BoxesInput struct {
	ServiceID uint
	Date      string
	Time      string
	ExcludeID uint
}

// ======================================================
// USE CASE
// ======================================================

// Availability answers which dates, times and boxes can take a booking.
type Availability struct {
	repo domain.Repository
	cfg  Settings
}

func NewAvailability(repo domain.Repository, cfg Settings) *Availability {
	return &Availability{repo: repo, cfg: cfg}
}

// Dates lists the days within the booking horizon on which some box has a
// free window as long as the service. The time of day is not considered;
// Times drops the start times already past.
func (uc *Availability) Dates(ctx context.Context, in DatesInput) ([]string, error) {
	service, err := uc.activeService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	today := uc.cfg.today()
	start := today
	if in.From != "" {
		from, err := uc.parseDate(in.From)
		if err != nil {
			return nil, err
		}
		if from.After(today) {
			start = from
		}
	}
	end := start.AddDate(0, 0, uc.cfg.HorizonDays-1)

	days, err := uc.snapshot(ctx, start, end, in.ExcludeID)
	if err != nil {
		return nil, err
	}

	out := []string{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(schedule.DateLayout)
		if schedule.HasFreeWindow(days[key], service.Duration()) {
			out = append(out, key)
		}
	}
	return out, nil
}

// Times lists the start times on a date that fit the service on some box.
func (uc *Availability) Times(ctx context.Context, in TimesInput) ([]string, error) {
	service, err := uc.activeService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	day, err := uc.parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	if day.Before(uc.cfg.today()) {
		return []string{}, nil
	}

	days, err := uc.snapshot(ctx, day, day, in.ExcludeID)
	if err != nil {
		return nil, err
	}

	times := schedule.FreeTimes(
		days[day.Format(schedule.DateLayout)],
		service.Duration(),
		uc.cfg.SlotStep,
		uc.cutoff(day),
	)

	out := make([]string, len(times))
	for i, c := range times {
		out[i] = c.String()
	}
	return out, nil
}

// Boxes lists the boxes free for the whole slot. Without a service the slot
// is one step long.
func (uc *Availability) Boxes(ctx context.Context, in BoxesInput) ([]models.Box, error) {
	duration := uc.cfg.SlotStep
	if in.ServiceID != 0 {
		service, err := uc.activeService(ctx, in.ServiceID)
		if err != nil {
			return nil, err
		}
		duration = service.Duration()
	}

	day, err := uc.parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	start, err := parseTime(in.Time)
	if err != nil {
		return nil, err
	}

	boxes, err := uc.repo.ListActiveBoxes(ctx)
	if err != nil {
		return nil, err
	}
	if !uc.startsInFuture(day, start) {
		return []models.Box{}, nil
	}

	ids, err := uc.freeBoxes(ctx, boxes, day, start, duration, in.ExcludeID)
	if err != nil {
		return nil, err
	}

	free := make(map[uint]bool, len(ids))
	for _, id := range ids {
		free[id] = true
	}
	out := []models.Box{}
	for _, b := range boxes {
		if free[b.ID] {
			out = append(out, b)
		}
	}
	return out, nil
}

// ======================================================
// HELPERS
// ======================================================

func (uc *Availability) activeService(ctx context.Context, id uint) (*models.Service, error) {
	if id == 0 {
		return nil, httperr.ValidationFields(map[string]string{
			"service_id": "This field is required.",
		})
	}
	service, err := uc.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if !service.IsActive {
		return nil, httperr.NotFoundErr("service_not_found", "Service not found.")
	}
	return service, nil
}

func invalidDate() error {
	return httperr.Validation("invalid_date", "Date must be in YYYY-MM-DD format.")
}

func (uc *Availability) parseDate(s string) (time.Time, error) {
	d, err := schedule.ParseDate(s, uc.cfg.Location)
	if err != nil {
		return time.Time{}, invalidDate()
	}
	return d, nil
}

func parseTime(s string) (schedule.Clock, error) {
	c, err := schedule.ParseClock(s)
	if err != nil {
		return 0, httperr.Validation("invalid_time", "Time must be in HH:MM format.")
	}
	return c, nil
}

// cutoff is the current time of day when day is today, else nil.
func (uc *Availability) cutoff(day time.Time) *schedule.Clock {
	if !day.Equal(uc.cfg.today()) {
		return nil
	}
	now := schedule.ClockOf(uc.cfg.now())
	return &now
}

func (uc *Availability) startsInFuture(day time.Time, start schedule.Clock) bool {
	return start.On(day).After(uc.cfg.now())
}

// snapshot builds the per-box day views for every date in [from, to],
// keyed by date. Closed boxes are left out of a date.
func (uc *Availability) snapshot(
	ctx context.Context,
	from time.Time,
	to time.Time,
	excludeID uint,
) (map[string][]schedule.BoxDay, error) {

	boxes, err := uc.repo.ListActiveBoxes(ctx)
	if err != nil {
		return nil, err
	}
	return uc.snapshotFor(ctx, boxes, from, to, excludeID)
}

func (uc *Availability) snapshotFor(
	ctx context.Context,
	boxes []models.Box,
	from time.Time,
	to time.Time,
	excludeID uint,
) (map[string][]schedule.BoxDay, error) {

	out := map[string][]schedule.BoxDay{}
	if len(boxes) == 0 {
		return out, nil
	}

	apps, err := uc.repo.ListActiveBetween(
		ctx,
		from.Format(schedule.DateLayout),
		to.Format(schedule.DateLayout),
		excludeID,
	)
	if err != nil {
		return nil, err
	}

	type boxDate struct {
		box  uint
		date string
	}
	busy := map[boxDate][]schedule.Interval{}
	for _, ap := range apps {
		if ap.BoxID == nil {
			continue
		}
		start, err1 := schedule.ParseClock(ap.StartTime)
		end, err2 := schedule.ParseClock(ap.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		k := boxDate{*ap.BoxID, ap.AppointmentDate}
		busy[k] = append(busy[k], schedule.Interval{Start: start, End: end})
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(schedule.DateLayout)
		for _, b := range boxes {
			day, ok := schedule.NewBoxDay(
				b.ID,
				b.WorkingHours.Data(),
				d.Weekday(),
				busy[boxDate{b.ID, key}],
			)
			if ok {
				out[key] = append(out[key], day)
			}
		}
	}
	return out, nil
}

// freeBoxes returns the ids of active boxes that can host the slot, lowest first.
func (uc *Availability) freeBoxes(
	ctx context.Context,
	boxes []models.Box,
	day time.Time,
	start schedule.Clock,
	duration int,
	excludeID uint,
) ([]uint, error) {

	days, err := uc.snapshotFor(ctx, boxes, day, day, excludeID)
	if err != nil {
		return nil, err
	}
	return schedule.FreeBoxes(days[day.Format(schedule.DateLayout)], start, duration), nil
}
