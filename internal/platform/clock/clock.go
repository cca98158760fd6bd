package clock

import "time"

// DateLayout is the calendar-day key format used by habits, plans and the daily quest.
const DateLayout = "2006-01-02"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Today returns the calendar-day key for the clock's current time.
func Today(c Clock) string {
	return c.Now().Format(DateLayout)
}
