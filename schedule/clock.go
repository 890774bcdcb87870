package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// MINUTE-OF-DAY HELPERS
// =============================================================================
// Slot boundaries are expressed as minutes since local midnight. A slot end of
// 1440 means "24:00", the exclusive end of the day. Nothing here touches
// time.Time; these are pure integer/string conversions.

// MinutesPerDay is the exclusive upper bound for a slot end.
const MinutesPerDay = 24 * 60

// MinutesToClock formats a minute-of-day value as "HH:mm".
// Accepts 0..1440 inclusive so slot ends at midnight render as "24:00".
func MinutesToClock(minutes int) (string, error) {
	if minutes < 0 || minutes > MinutesPerDay {
		return "", fmt.Errorf("%w: %d out of range [0, %d]", ErrInvalidTimeFormat, minutes, MinutesPerDay)
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// ClockToMinutes parses a strict "HH:mm" clock string into minutes since
// midnight. "24:00" parses to 1440; anything past that is rejected.
func ClockToMinutes(text string) (int, error) {
	parts := strings.Split(text, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q (want HH:mm)", ErrInvalidTimeFormat, text)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}
	if mins < 0 || mins > 59 || hours < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, text)
	}
	total := hours*60 + mins
	if total > MinutesPerDay {
		return 0, fmt.Errorf("%w: %q exceeds 24:00", ErrInvalidTimeFormat, text)
	}
	return total, nil
}

// FormatRange renders a half-open minute range as "HH:mm-HH:mm".
func FormatRange(startMinutes, endMinutes int) string {
	return mustClock(startMinutes) + "-" + mustClock(endMinutes)
}

// mustClock is for internal formatting of already-validated slot boundaries.
func mustClock(minutes int) string {
	s, err := MinutesToClock(minutes)
	if err != nil {
		return "??:??"
	}
	return s
}
