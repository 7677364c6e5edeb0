package availability

import (
	"github.com/slotwise/booking-backend/internal/schedule"
)

// GenerateDaySlots expands a day template into contiguous slots of
// slotDuration minutes covering [start, end). The final slot is clipped to
// the closing time rather than dropped. Slots overlapping a break period are
// generated but marked unavailable with reason "break". A buffer > 0 leaves
// idle minutes between consecutive slots.
func GenerateDaySlots(day schedule.DaySchedule, slotDuration, buffer int) ([]TimeSlot, error) {
	if slotDuration <= 0 {
		return nil, ErrInvalidSlotDuration
	}
	if !day.IsAvailable {
		return nil, nil
	}
	if err := day.Validate(); err != nil {
		return nil, err
	}

	start, err := schedule.ParseClock(day.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := schedule.ParseClock(day.EndTime)
	if err != nil {
		return nil, err
	}

	type window struct{ start, end int }
	breaks := make([]window, 0, len(day.Breaks))
	for _, b := range day.Breaks {
		bs, err := schedule.ParseClock(b.StartTime)
		if err != nil {
			return nil, err
		}
		be, err := schedule.ParseClock(b.EndTime)
		if err != nil {
			return nil, err
		}
		breaks = append(breaks, window{bs, be})
	}

	var slots []TimeSlot
	for cur := start; cur < end; cur += slotDuration + buffer {
		slotEnd := cur + slotDuration
		if slotEnd > end {
			slotEnd = end
		}

		slot := TimeSlot{
			StartTime:   schedule.FormatClock(cur),
			EndTime:     schedule.FormatClock(slotEnd),
			IsAvailable: true,
		}

		// Half-open overlap test against every break period.
		for _, b := range breaks {
			if cur < b.end && slotEnd > b.start {
				slot.IsAvailable = false
				slot.ReasonUnavailable = ReasonBreak
				break
			}
		}

		slots = append(slots, slot)
	}

	return slots, nil
}
