package domain

import "time"

// ValidInterval reports whether [start, end) is a well-formed appointment
// slot. Zero-length and inverted intervals are rejected.
func ValidInterval(start, end time.Time) bool {
	return start.Before(end)
}

// Overlaps is the conflict detector's core test: two half-open intervals
// [a.Start, a.End) and [b.Start, b.End) overlap iff each starts before the
// other ends. Touching endpoints do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// FindConflict scans a vendor's existing appointments for one whose committed
// interval overlaps the proposed slot. Appointments whose status does not
// hold an interval (completed, cancelled, no-show) never conflict, so
// rebooking a freed slot succeeds. Returns nil when the slot is clear.
func FindConflict(proposed Interval, existing []Appointment) *Appointment {
	for i := range existing {
		if !AppointmentActive(existing[i].Status) {
			continue
		}
		if Overlaps(proposed, existing[i].Interval()) {
			return &existing[i]
		}
	}
	return nil
}

// DayInterval returns the half-open interval covering the calendar day that
// contains t, in t's location. Used by the availability view.
func DayInterval(t time.Time) Interval {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}
