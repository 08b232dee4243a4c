package appointment

import (
	"time"

	"github.com/BruksfildServices01/sto-scheduler/internal/config"
	domain "github.com/BruksfildServices01/sto-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/sto-scheduler/internal/timezone"
)

// Settings holds the scheduling knobs shared by the booking use cases.
type Settings struct {
	Location    *time.Location
	SlotStep    int
	HorizonDays int
	EditWindow  time.Duration

	// Now is replaceable in tests.
	Now func() time.Time
}

func DefaultSettings() Settings {
	loc := timezone.Location(timezone.DefaultTimezone)
	return Settings{
		Location:    loc,
		SlotStep:    30,
		HorizonDays: 30,
		EditWindow:  domain.EditWindow,
		Now:         func() time.Time { return time.Now().In(loc) },
	}
}

func SettingsFromConfig(cfg *config.Config) Settings {
	s := DefaultSettings()
	s.Location = timezone.Location(cfg.Timezone)
	s.Now = timezone.Clock(cfg.Timezone)
	if cfg.SlotStepMinutes > 0 {
		s.SlotStep = cfg.SlotStepMinutes
	}
	if cfg.BookingHorizonDays > 0 {
		s.HorizonDays = cfg.BookingHorizonDays
	}
	if cfg.EditWindow > 0 {
		s.EditWindow = cfg.EditWindow
	}
	return s
}

func (s Settings) now() time.Time {
	if s.Now == nil {
		return time.Now().In(s.Location)
	}
	return s.Now().In(s.Location)
}

func (s Settings) today() time.Time {
	n := s.now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.Location)
}
