package entities

import (
	"errors"
	"strings"
	"time"
)

var ErrUnknownTimeOfDay = errors.New("unknown time of day")

// TimeOfDay tags a scheduled distribution run.
type TimeOfDay string

const (
	Morning TimeOfDay = "morning"
	Evening TimeOfDay = "evening"
)

// ParseTimeOfDay accepts "morning" or "evening", ignoring case.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	switch TimeOfDay(strings.ToLower(strings.TrimSpace(s))) {
	case Morning:
		return Morning, nil
	case Evening:
		return Evening, nil
	}
	return "", ErrUnknownTimeOfDay
}

// Greeting returns the salutation used in scheduled messages.
func (t TimeOfDay) Greeting() string {
	if t == Evening {
		return "Good evening!"
	}
	return "Good morning!"
}

// ScheduleSlot is one fixed daily distribution time in UTC.
type ScheduleSlot struct {
	TimeOfDay TimeOfDay `json:"type"`
	Hour      int       `json:"hour"`
	Spec      string    `json:"cron"`
	Label     string    `json:"time"`
}

// DefaultSchedule pushes challenges at 08:00 and 18:00 UTC.
var DefaultSchedule = []ScheduleSlot{
	{TimeOfDay: Morning, Hour: 8, Spec: "0 8 * * *", Label: "8:00 AM UTC"},
	{TimeOfDay: Evening, Hour: 18, Spec: "0 18 * * *", Label: "6:00 PM UTC"},
}

// NextRun returns the first slot strictly after now, wrapping to the next day.
// Slots must be ordered by hour.
func NextRun(slots []ScheduleSlot, now time.Time) (ScheduleSlot, time.Time) {
	now = now.UTC()
	if len(slots) == 0 {
		return ScheduleSlot{}, time.Time{}
	}

	for _, slot := range slots {
		at := time.Date(now.Year(), now.Month(), now.Day(), slot.Hour, 0, 0, 0, time.UTC)
		if now.Before(at) {
			return slot, at
		}
	}

	first := slots[0]
	at := time.Date(now.Year(), now.Month(), now.Day(), first.Hour, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return first, at
}
