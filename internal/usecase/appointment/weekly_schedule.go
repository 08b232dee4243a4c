package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/sto-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

type Week struct {
	Start string
	End   string
	Days  []Day
	Boxes []models.Box
}

type Day struct {
	Date    string
	Weekday time.Weekday
	Boxes   []BoxSchedule
}

// BoxSchedule groups one day's appointments of a box. Box is nil for
// appointments that have no box.
type BoxSchedule struct {
	Box          *models.Box
	Appointments []models.Appointment
}

type WeeklySchedule struct {
	repo domain.Repository
	cfg  Settings
}

func NewWeeklySchedule(repo domain.Repository, cfg Settings) *WeeklySchedule {
	return &WeeklySchedule{repo: repo, cfg: cfg}
}

// Execute returns Monday to Sunday of the week containing weekStart, or of
// the current week when weekStart is empty.
func (uc *WeeklySchedule) Execute(ctx context.Context, weekStart string) (*Week, error) {
	anchor := uc.cfg.today()
	if weekStart != "" {
		d, err := schedule.ParseDate(weekStart, uc.cfg.Location)
		if err != nil {
			return nil, invalidDate()
		}
		anchor = d
	}

	offset := (int(anchor.Weekday()) + 6) % 7
	monday := anchor.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)

	boxes, err := uc.repo.ListActiveBoxes(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := uc.repo.ListBetween(
		ctx,
		monday.Format(schedule.DateLayout),
		sunday.Format(schedule.DateLayout),
	)
	if err != nil {
		return nil, err
	}

	week := &Week{
		Start: monday.Format(schedule.DateLayout),
		End:   sunday.Format(schedule.DateLayout),
		Boxes: boxes,
	}

	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		key := d.Format(schedule.DateLayout)

		day := Day{Date: key, Weekday: d.Weekday()}
		byBox := map[uint]int{}
		for j := range boxes {
			byBox[boxes[j].ID] = len(day.Boxes)
			day.Boxes = append(day.Boxes, BoxSchedule{
				Box:          &boxes[j],
				Appointments: []models.Appointment{},
			})
		}

		var unassigned []models.Appointment
		for _, ap := range apps {
			if ap.AppointmentDate != key {
				continue
			}
			if ap.BoxID != nil {
				if idx, ok := byBox[*ap.BoxID]; ok {
					day.Boxes[idx].Appointments = append(day.Boxes[idx].Appointments, ap)
					continue
				}
			}
			unassigned = append(unassigned, ap)
		}
		if len(unassigned) > 0 {
			day.Boxes = append(day.Boxes, BoxSchedule{Appointments: unassigned})
		}

		week.Days = append(week.Days, day)
	}

	return week, nil
}

type Statistics struct {
	repo domain.Repository
	cfg  Settings
}

func NewStatistics(repo domain.Repository, cfg Settings) *Statistics {
	return &Statistics{repo: repo, cfg: cfg}
}

func (uc *Statistics) Execute(ctx context.Context) (*domain.Stats, error) {
	return uc.repo.Stats(ctx, uc.cfg.today().Format(schedule.DateLayout))
}
