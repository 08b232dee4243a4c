package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DayHours is the open/close pair of a box on one weekday. Equal values
// (for example 00:00-00:00) mean the box is closed that day.
type DayHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeklyHours maps a lowercase English weekday name to its hours.
type WeeklyHours map[string]DayHours

var ErrInvalidWorkingHours = errors.New("invalid working hours")

func weekdayKey(d time.Weekday) string {
	return strings.ToLower(d.String())
}

func DefaultWeeklyHours() WeeklyHours {
	wh := WeeklyHours{}
	for d := time.Monday; d <= time.Friday; d++ {
		wh[weekdayKey(d)] = DayHours{Start: "08:00", End: "18:00"}
	}
	wh[weekdayKey(time.Saturday)] = DayHours{Start: "09:00", End: "15:00"}
	wh[weekdayKey(time.Sunday)] = DayHours{Start: "00:00", End: "00:00"}
	return wh
}

func (w WeeklyHours) Validate() error {
	for day, h := range w {
		if !isWeekdayKey(day) {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalidWorkingHours, day)
		}
		start, err := ParseClock(h.Start)
		if err != nil {
			return fmt.Errorf("%w: %s start: %v", ErrInvalidWorkingHours, day, err)
		}
		end, err := ParseClock(h.End)
		if err != nil {
			return fmt.Errorf("%w: %s end: %v", ErrInvalidWorkingHours, day, err)
		}
		if end < start {
			return fmt.Errorf("%w: %s closes before it opens", ErrInvalidWorkingHours, day)
		}
	}
	return nil
}

// Window returns the open interval for the weekday. ok is false when the box
// does not work that day.
func (w WeeklyHours) Window(d time.Weekday) (open, shut Clock, ok bool) {
	h, found := w[weekdayKey(d)]
	if !found {
		return 0, 0, false
	}

	open, err := ParseClock(h.Start)
	if err != nil {
		return 0, 0, false
	}
	shut, err = ParseClock(h.End)
	if err != nil {
		return 0, 0, false
	}

	if shut <= open {
		return 0, 0, false
	}
	return open, shut, true
}

func isWeekdayKey(s string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if weekdayKey(d) == s {
			return true
		}
	}
	return false
}
