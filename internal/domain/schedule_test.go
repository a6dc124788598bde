package domain

import (
	"math/rand"
	"testing"
	"time"
)

var base = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func ival(sh, sm, eh, em int) Interval {
	return Interval{Start: at(sh, sm), End: at(eh, em)}
}

func TestValidInterval(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		valid bool
	}{
		{"startBeforeEnd", at(10, 0), at(11, 0), true},
		{"startEqualsEnd", at(10, 0), at(10, 0), false},
		{"startAfterEnd", at(11, 0), at(10, 0), false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidInterval(tt.start, tt.end); got != tt.valid {
				t.Errorf("ValidInterval(%v, %v)=%v, want %v", tt.start, tt.end, got, tt.valid)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name    string
		a, b    Interval
		overlap bool
	}{
		{"disjoint", ival(10, 0, 11, 0), ival(12, 0, 13, 0), false},
		{"partial", ival(10, 0, 11, 0), ival(10, 30, 11, 30), true},
		{"contained", ival(10, 0, 12, 0), ival(10, 30, 11, 0), true},
		{"identical", ival(10, 0, 11, 0), ival(10, 0, 11, 0), true},
		{"touchingEndToStart", ival(10, 0, 11, 0), ival(11, 0, 12, 0), false},
		{"touchingStartToEnd", ival(11, 0, 12, 0), ival(10, 0, 11, 0), false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.overlap {
				t.Errorf("Overlaps(%v, %v)=%v, want %v", tt.a, tt.b, got, tt.overlap)
			}
			// overlap is symmetric
			if got := Overlaps(tt.b, tt.a); got != tt.overlap {
				t.Errorf("Overlaps(%v, %v)=%v, want %v", tt.b, tt.a, got, tt.overlap)
			}
		})
	}
}

// Random interval pairs cross-checked against a minute-by-minute scan of the
// half-open intervals.
func TestOverlapsRandomPairs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	randIval := func() Interval {
		s := rng.Intn(24 * 60)
		d := 1 + rng.Intn(6*60)
		return Interval{
			Start: base.Add(time.Duration(s) * time.Minute),
			End:   base.Add(time.Duration(s+d) * time.Minute),
		}
	}

	for i := 0; i < 2000; i++ {
		a, b := randIval(), randIval()

		want := false
		for m := a.Start; m.Before(a.End); m = m.Add(time.Minute) {
			if !m.Before(b.Start) && m.Before(b.End) {
				want = true
				break
			}
		}

		if got := Overlaps(a, b); got != want {
			t.Fatalf("Overlaps(%v, %v)=%v, want %v", a, b, got, want)
		}
	}
}

func TestFindConflict(t *testing.T) {
	appt := func(status AppointmentStatus, iv Interval) Appointment {
		return Appointment{
			VendorID:       1,
			ScheduledStart: iv.Start,
			ScheduledEnd:   iv.End,
			Status:         status,
		}
	}

	cases := []struct {
		name     string
		proposed Interval
		existing []Appointment
		conflict bool
	}{
		{
			name:     "emptyCalendar",
			proposed: ival(10, 0, 11, 0),
			conflict: false,
		},
		{
			name:     "overlapScheduled",
			proposed: ival(10, 30, 11, 30),
			existing: []Appointment{appt(AppointmentScheduled, ival(10, 0, 11, 0))},
			conflict: true,
		},
		{
			name:     "overlapConfirmed",
			proposed: ival(10, 30, 11, 30),
			existing: []Appointment{appt(AppointmentConfirmed, ival(10, 0, 11, 0))},
			conflict: true,
		},
		{
			name:     "overlapInProgress",
			proposed: ival(10, 30, 11, 30),
			existing: []Appointment{appt(AppointmentInProgress, ival(10, 0, 11, 0))},
			conflict: true,
		},
		{
			name:     "cancelledSlotIsFree",
			proposed: ival(10, 0, 11, 0),
			existing: []Appointment{appt(AppointmentCancelled, ival(10, 0, 11, 0))},
			conflict: false,
		},
		{
			name:     "completedSlotIsFree",
			proposed: ival(10, 0, 11, 0),
			existing: []Appointment{appt(AppointmentCompleted, ival(10, 0, 11, 0))},
			conflict: false,
		},
		{
			name:     "noShowSlotIsFree",
			proposed: ival(10, 0, 11, 0),
			existing: []Appointment{appt(AppointmentNoShow, ival(10, 0, 11, 0))},
			conflict: false,
		},
		{
			name:     "backToBack",
			proposed: ival(11, 0, 12, 0),
			existing: []Appointment{appt(AppointmentScheduled, ival(10, 0, 11, 0))},
			conflict: false,
		},
		{
			name:     "secondOfManyConflicts",
			proposed: ival(13, 30, 14, 0),
			existing: []Appointment{
				appt(AppointmentScheduled, ival(10, 0, 11, 0)),
				appt(AppointmentConfirmed, ival(13, 0, 14, 0)),
			},
			conflict: true,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := FindConflict(tt.proposed, tt.existing)
			if (got != nil) != tt.conflict {
				t.Errorf("FindConflict(%v)=%v, want conflict=%v", tt.proposed, got, tt.conflict)
			}
		})
	}
}

func TestDayInterval(t *testing.T) {
	day := DayInterval(time.Date(2025, 6, 2, 15, 42, 7, 0, time.UTC))

	if !day.Start.Equal(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day start = %v", day.Start)
	}
	if !day.End.Equal(time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day end = %v", day.End)
	}

	// an appointment ending exactly at midnight belongs to the previous day
	if Overlaps(day, ival(-2, 0, 0, 0)) {
		t.Error("interval ending at midnight must not intersect the day")
	}
}
