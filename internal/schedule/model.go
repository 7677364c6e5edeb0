package schedule

import (
	"net/http"
	"strings"
	"time"

	"github.com/slotwise/booking-backend/internal/pkg/apperror"
)

var (
	ErrInvalidDay       = apperror.New(http.StatusBadRequest, "schedule start time must be before end time")
	ErrBreakOutOfBounds = apperror.New(http.StatusBadRequest, "break periods must fall within working hours")
	ErrInvalidClock     = apperror.New(http.StatusBadRequest, "times must be in HH:MM format")
)

// BreakPeriod is a non-bookable window inside a working day (e.g. lunch).
type BreakPeriod struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// DaySchedule describes a single weekday in an entity's weekly template.
type DaySchedule struct {
	IsAvailable bool          `json:"is_available"`
	StartTime   string        `json:"start_time"`
	EndTime     string        `json:"end_time"`
	Breaks      []BreakPeriod `json:"breaks,omitempty"`
}

// Weekly maps lowercase weekday names ("monday".."sunday") to day templates.
// Days absent from the map are treated as closed.
type Weekly map[string]DaySchedule

// DayFor returns the template for the weekday of the given date.
func (w Weekly) DayFor(date time.Time) DaySchedule {
	day, ok := w[strings.ToLower(date.Weekday().String())]
	if !ok {
		return DaySchedule{IsAvailable: false}
	}
	return day
}

// Validate checks the invariants of a day template: start before end and
// every break contained in [start, end). Overlapping breaks are permitted.
func (d DaySchedule) Validate() error {
	if !d.IsAvailable {
		return nil
	}

	start, err := ParseClock(d.StartTime)
	if err != nil {
		return apperror.Wrap(err, http.StatusBadRequest, ErrInvalidClock.Message)
	}
	end, err := ParseClock(d.EndTime)
	if err != nil {
		return apperror.Wrap(err, http.StatusBadRequest, ErrInvalidClock.Message)
	}
	if start >= end {
		return ErrInvalidDay
	}

	for _, b := range d.Breaks {
		bs, err := ParseClock(b.StartTime)
		if err != nil {
			return apperror.Wrap(err, http.StatusBadRequest, ErrInvalidClock.Message)
		}
		be, err := ParseClock(b.EndTime)
		if err != nil {
			return apperror.Wrap(err, http.StatusBadRequest, ErrInvalidClock.Message)
		}
		if bs >= be || bs < start || be > end {
			return ErrBreakOutOfBounds
		}
	}

	return nil
}

// Validate checks every open day of the weekly template.
func (w Weekly) Validate() error {
	for _, d := range w {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}
