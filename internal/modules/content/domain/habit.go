package domain

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type HabitGoal string

const (
	GoalDaily  HabitGoal = "daily"
	GoalWeekly HabitGoal = "weekly"
)

// Habit keeps completed days as present keys of History. A missing key means
// the day was not completed; false is never stored.
type Habit struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Goal      HabitGoal       `json:"goal"`
	CreatedAt int64           `json:"createdAt"`
	History   map[string]bool `json:"history"`
}

func (h Habit) Validate() error {
	if strings.TrimSpace(h.Title) == "" {
		return fmt.Errorf("habit title is required")
	}
	switch h.Goal {
	case GoalDaily, GoalWeekly:
		return nil
	default:
		return fmt.Errorf("unsupported habit goal %q", string(h.Goal))
	}
}

// Toggle flips completion of date and returns the new state.
func (h *Habit) Toggle(date string) (bool, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return false, fmt.Errorf("invalid habit date %q: %w", date, err)
	}
	if h.History == nil {
		h.History = map[string]bool{}
	}
	if h.History[date] {
		delete(h.History, date)
		return false, nil
	}
	h.History[date] = true
	return true, nil
}

func (h Habit) DoneOn(date string) bool {
	return h.History[date]
}

// Streak counts consecutive completed days ending today, or ending yesterday
// when today is not completed yet.
func (h Habit) Streak(today time.Time) int {
	day := today.UTC()
	if !h.History[day.Format(dateLayout)] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for h.History[day.Format(dateLayout)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func (h Habit) Clone() Habit {
	out := h
	out.History = make(map[string]bool, len(h.History))
	for k, v := range h.History {
		if v {
			out.History[k] = true
		}
	}
	return out
}
