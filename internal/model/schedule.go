package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// slotLayout is the wall-clock format slots are compared in.  There is no
// timezone handling; everything is naive local time like the data itself.
const slotLayout = "2006-01-02 15:04"

// DefaultDurationMinutes applies when an event's duration is absent,
// unparseable or sums to zero.
const DefaultDurationMinutes = 180

// Slot is a single (date, time) occurrence of an event.  An event may have
// one slot derived from its Date/Time columns or many from its Schedules
// column (a JSON array of slots).
type Slot struct {
	Date string `json:"Date"`
	Time string `json:"Time"`
}

// Start resolves the slot to a wall-clock instant.  The boolean is false
// when the date or time is malformed; callers skip such slots silently
// rather than failing, matching the lenient behavior of the data source.
func (s Slot) Start() (time.Time, bool) {
	t, err := time.Parse(slotLayout, strings.TrimSpace(s.Date)+" "+strings.TrimSpace(s.Time))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseSlots decodes a Schedules cell.  A malformed or empty cell yields
// nil so callers fall back to the event's single Date/Time slot.
func ParseSlots(raw string) []Slot {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var slots []Slot
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil
	}
	return slots
}

// MarshalSlots serializes slots back into the stored cell form.
func MarshalSlots(slots []Slot) string {
	b, err := json.Marshal(slots)
	if err != nil {
		return ""
	}
	return string(b)
}

// ParseDurationMinutes sums whitespace-separated "<N>h" and "<N>m" tokens,
// case-insensitively.  "2h 30m" -> 150.  Unparseable tokens are skipped; a
// zero or negative total falls back to DefaultDurationMinutes.
func ParseDurationMinutes(text string) int {
	total := 0
	for _, p := range strings.Fields(strings.ToLower(text)) {
		switch {
		case strings.Contains(p, "h"):
			if n, err := strconv.Atoi(strings.ReplaceAll(p, "h", "")); err == nil {
				total += n * 60
			}
		case strings.Contains(p, "m"):
			if n, err := strconv.Atoi(strings.ReplaceAll(p, "m", "")); err == nil {
				total += n
			}
		}
	}
	if total <= 0 {
		return DefaultDurationMinutes
	}
	return total
}
