package schedule

import (
	"sort"
	"time"
)

// BoxDay is the working window of one box on one date together with the
// intervals already taken by active appointments.
type BoxDay struct {
	BoxID uint
	Open  Clock
	Close Clock
	Busy  []Interval
}

// NewBoxDay builds the day view for a box. ok is false when the box is
// closed on that weekday.
func NewBoxDay(boxID uint, hours WeeklyHours, day time.Weekday, busy []Interval) (BoxDay, bool) {
	open, shut, ok := hours.Window(day)
	if !ok {
		return BoxDay{}, false
	}
	return BoxDay{BoxID: boxID, Open: open, Close: shut, Busy: busy}, true
}

// Fits reports whether [start, start+duration) lies inside the working
// window and does not overlap any busy interval.
func (b BoxDay) Fits(start Clock, duration int) bool {
	if duration <= 0 {
		return false
	}
	slot := Interval{Start: start, End: start.Add(duration)}
	if slot.Start < b.Open || slot.End > b.Close {
		return false
	}
	for _, busy := range b.Busy {
		if slot.Overlaps(busy) {
			return false
		}
	}
	return true
}

// Candidates lists the start times on this box that can host a service of
// the given duration. Starts are taken from a grid of step minutes anchored
// at the opening time plus the end of every busy interval, so any free
// window long enough for the service yields at least one candidate.
func (b BoxDay) Candidates(duration, step int) []Clock {
	if step <= 0 {
		step = duration
	}
	if step <= 0 {
		return nil
	}

	seen := map[Clock]bool{}
	var out []Clock

	try := func(c Clock) {
		if seen[c] {
			return
		}
		seen[c] = true
		if b.Fits(c, duration) {
			out = append(out, c)
		}
	}

	for c := b.Open; c.Add(duration) <= b.Close; c = c.Add(step) {
		try(c)
	}
	for _, busy := range b.Busy {
		try(busy.End)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FreeTimes is the sorted union of candidate starts over all boxes. Starts
// at or before notAfter are dropped when notAfter is set.
func FreeTimes(days []BoxDay, duration, step int, notAfter *Clock) []Clock {
	set := map[Clock]bool{}
	for _, d := range days {
		for _, c := range d.Candidates(duration, step) {
			if notAfter != nil && c <= *notAfter {
				continue
			}
			set[c] = true
		}
	}

	out := make([]Clock, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// HasFreeWindow reports whether any box has a contiguous free window of at
// least duration minutes.
func HasFreeWindow(days []BoxDay, duration int) bool {
	for _, d := range days {
		if len(d.Candidates(duration, duration)) > 0 {
			return true
		}
	}
	return false
}

// FreeBoxes returns the ids of boxes that can host [start, start+duration),
// lowest id first.
func FreeBoxes(days []BoxDay, start Clock, duration int) []uint {
	var ids []uint
	for _, d := range days {
		if d.Fits(start, duration) {
			ids = append(ids, d.BoxID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
