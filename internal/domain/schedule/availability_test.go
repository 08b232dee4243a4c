package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clock(t *testing.T, s string) Clock {
	t.Helper()
	c, err := ParseClock(s)
	require.NoError(t, err)
	return c
}

func span(t *testing.T, from, to string) Interval {
	return Interval{Start: clock(t, from), End: clock(t, to)}
}

func formatted(cs []Clock) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.String()
	}
	return out
}

func TestClockRoundTrip(t *testing.T) {
	c := clock(t, "09:45")
	assert.Equal(t, Clock(585), c)
	assert.Equal(t, "09:45", c.String())
	assert.Equal(t, "10:45", c.Add(60).String())

	_, err := ParseClock("25:00")
	assert.Error(t, err)
}

func TestIntervalOverlapIsHalfOpen(t *testing.T) {
	a := span(t, "10:00", "11:00")
	assert.True(t, a.Overlaps(span(t, "10:30", "11:30")))
	assert.False(t, a.Overlaps(span(t, "11:00", "12:00")))
	assert.False(t, a.Overlaps(span(t, "09:00", "10:00")))
	assert.True(t, a.Overlaps(span(t, "09:00", "12:00")))
}

func TestWeeklyHoursWindow(t *testing.T) {
	wh := WeeklyHours{
		"monday": {Start: "08:00", End: "18:00"},
		"sunday": {Start: "00:00", End: "00:00"},
	}

	open, shut, ok := wh.Window(time.Monday)
	require.True(t, ok)
	assert.Equal(t, "08:00", open.String())
	assert.Equal(t, "18:00", shut.String())

	_, _, ok = wh.Window(time.Sunday)
	assert.False(t, ok, "equal start and end means closed")

	_, _, ok = wh.Window(time.Tuesday)
	assert.False(t, ok, "missing day means closed")
}

func TestWeeklyHoursValidate(t *testing.T) {
	assert.NoError(t, DefaultWeeklyHours().Validate())

	err := WeeklyHours{"monday": {Start: "18:00", End: "08:00"}}.Validate()
	assert.ErrorIs(t, err, ErrInvalidWorkingHours)

	err = WeeklyHours{"funday": {Start: "08:00", End: "10:00"}}.Validate()
	assert.ErrorIs(t, err, ErrInvalidWorkingHours)

	err = WeeklyHours{"monday": {Start: "8am", End: "10:00"}}.Validate()
	assert.ErrorIs(t, err, ErrInvalidWorkingHours)
}

func TestCandidatesRespectClosingTime(t *testing.T) {
	day := BoxDay{BoxID: 1, Open: clock(t, "08:00"), Close: clock(t, "10:00")}

	got := formatted(day.Candidates(60, 30))
	assert.Equal(t, []string{"08:00", "08:30", "09:00"}, got)
}

func TestCandidatesSkipBusyAndIncludeBusyEnds(t *testing.T) {
	day := BoxDay{
		BoxID: 1,
		Open:  clock(t, "08:00"),
		Close: clock(t, "12:00"),
		Busy:  []Interval{span(t, "08:00", "09:15")},
	}

	got := formatted(day.Candidates(60, 30))
	assert.Equal(t, []string{"09:15", "09:30", "10:00", "10:30", "11:00"}, got)
}

func TestFreeTimesUnionAcrossBoxes(t *testing.T) {
	days := []BoxDay{
		{BoxID: 1, Open: clock(t, "08:00"), Close: clock(t, "10:00"), Busy: []Interval{span(t, "08:00", "10:00")}},
		{BoxID: 2, Open: clock(t, "09:00"), Close: clock(t, "11:00")},
	}

	got := formatted(FreeTimes(days, 60, 30, nil))
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, got)

	now := clock(t, "09:30")
	got = formatted(FreeTimes(days, 60, 30, &now))
	assert.Equal(t, []string{"10:00"}, got)
}

func TestHasFreeWindowFindsOffGridGap(t *testing.T) {
	days := []BoxDay{{
		BoxID: 1,
		Open:  clock(t, "08:00"),
		Close: clock(t, "11:15"),
		Busy:  []Interval{span(t, "08:00", "10:15")},
	}}

	assert.True(t, HasFreeWindow(days, 60))
	assert.False(t, HasFreeWindow(days, 90))
	assert.False(t, HasFreeWindow(nil, 30))
}

func TestFreeBoxesLowestIDFirst(t *testing.T) {
	days := []BoxDay{
		{BoxID: 3, Open: clock(t, "08:00"), Close: clock(t, "18:00")},
		{BoxID: 1, Open: clock(t, "08:00"), Close: clock(t, "18:00"), Busy: []Interval{span(t, "10:00", "11:00")}},
		{BoxID: 2, Open: clock(t, "08:00"), Close: clock(t, "18:00")},
	}

	assert.Equal(t, []uint{2, 3}, FreeBoxes(days, clock(t, "10:30"), 60))
	assert.Equal(t, []uint{1, 2, 3}, FreeBoxes(days, clock(t, "11:00"), 60))
	assert.Empty(t, FreeBoxes(days, clock(t, "17:30"), 60))
}

func TestNewBoxDayClosedWeekday(t *testing.T) {
	_, ok := NewBoxDay(1, DefaultWeeklyHours(), time.Sunday, nil)
	assert.False(t, ok)

	day, ok := NewBoxDay(1, DefaultWeeklyHours(), time.Saturday, nil)
	require.True(t, ok)
	assert.Equal(t, "09:00", day.Open.String())
	assert.Equal(t, "15:00", day.Close.String())
}
