// Package eligibility decides which calendar dates accept bookings and which
// hourly windows each of those dates offers. Everything here is pure.
package eligibility

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of a booking date.
const DateLayout = "2006-01-02"

type Template string

const (
	// TemplateMorning opens at 09:00.
	TemplateMorning Template = "A"
	// TemplateLate opens at 10:00.
	TemplateLate Template = "B"
)

const slotsPerDay = 9

// Window is one bookable hour of a day's schedule.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

// Policy restricts bookings to the odd-numbered days of one calendar month.
type Policy struct {
	Year  int
	Month time.Month
}

// Default is the March 2026 booking month.
func Default() Policy {
	return Policy{Year: 2026, Month: time.March}
}

func (p Policy) IsBookable(date string) bool {
	_, ok := p.day(date)
	return ok
}

// SlotSchedule returns the ordered windows for date, or nil when the date is
// not bookable.
func (p Policy) SlotSchedule(date string) []Window {
	day, ok := p.day(date)
	if !ok {
		return nil
	}

	startHour := 9
	if TemplateFor(day) == TemplateLate {
		startHour = 10
	}

	windows := make([]Window, 0, slotsPerDay)
	for h := startHour; h < startHour+slotsPerDay; h++ {
		start := fmt.Sprintf("%02d:00", h)
		end := fmt.Sprintf("%02d:00", h+1)
		windows = append(windows, Window{
			Start: start,
			End:   end,
			Label: start + "-" + end,
		})
	}
	return windows
}

// TemplateFor alternates templates over the eligible days of the month: the
// 1st, 3rd, 5th... eligible day gets A, the 2nd, 4th, 6th... gets B.
func TemplateFor(day int) Template {
	ordinal := (day - 1) / 2
	if ordinal%2 == 0 {
		return TemplateMorning
	}
	return TemplateLate
}

func (p Policy) day(date string) (int, bool) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, false
	}
	if t.Year() != p.Year || t.Month() != p.Month {
		return 0, false
	}
	if t.Day()%2 == 0 {
		return 0, false
	}
	return t.Day(), true
}
