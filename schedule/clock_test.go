package schedule_test

import (
	"errors"
	"testing"

	"github.com/warp/schedule-engine/schedule"
)

func TestMinutesToClock(t *testing.T) {
	cases := []struct {
		minutes int
		want    string
		wantErr bool
	}{
		{0, "00:00", false},
		{540, "09:00", false},
		{785, "13:05", false},
		{1439, "23:59", false},
		{1440, "24:00", false},
		{-1, "", true},
		{1441, "", true},
	}

	for _, tc := range cases {
		got, err := schedule.MinutesToClock(tc.minutes)
		if tc.wantErr {
			if err == nil {
				t.Errorf("MinutesToClock(%d): expected error, got %q", tc.minutes, got)
			} else if !errors.Is(err, schedule.ErrInvalidTimeFormat) {
				t.Errorf("MinutesToClock(%d): error is not ErrInvalidTimeFormat: %v", tc.minutes, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("MinutesToClock(%d): unexpected error: %v", tc.minutes, err)
			continue
		}
		if got != tc.want {
			t.Errorf("MinutesToClock(%d) = %q, want %q", tc.minutes, got, tc.want)
		}
	}
}

func TestClockToMinutes(t *testing.T) {
	cases := []struct {
		text    string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"13:05", 785, false},
		{"23:59", 1439, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"9:00", 0, true},   // single-digit hour is rejected
		{"09:60", 0, true},
		{"0900", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := schedule.ClockToMinutes(tc.text)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ClockToMinutes(%q): expected error, got %d", tc.text, got)
			} else if !errors.Is(err, schedule.ErrInvalidTimeFormat) {
				t.Errorf("ClockToMinutes(%q): error is not ErrInvalidTimeFormat: %v", tc.text, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ClockToMinutes(%q): unexpected error: %v", tc.text, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ClockToMinutes(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestClockRoundTrip(t *testing.T) {
	for minutes := 0; minutes <= schedule.MinutesPerDay; minutes++ {
		text, err := schedule.MinutesToClock(minutes)
		if err != nil {
			t.Fatalf("MinutesToClock(%d): %v", minutes, err)
		}
		back, err := schedule.ClockToMinutes(text)
		if err != nil {
			t.Fatalf("ClockToMinutes(%q): %v", text, err)
		}
		if back != minutes {
			t.Fatalf("round trip %d -> %q -> %d", minutes, text, back)
		}
	}
}

func TestTimeSlot_Construction(t *testing.T) {
	// Valid slot
	slot, err := schedule.NewTimeSlot("s1", 540, 780, schedule.SlotWork, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slot.DurationMinutes() != 240 {
		t.Errorf("duration = %d, want 240", slot.DurationMinutes())
	}
	if got := slot.FormatRange(); got != "09:00-13:00" {
		t.Errorf("FormatRange() = %q, want %q", got, "09:00-13:00")
	}

	// end <= start is rejected at construction
	invalid := []struct{ start, end int }{
		{540, 540},
		{540, 500},
		{-1, 60},
		{100, 1441},
	}
	for _, tc := range invalid {
		_, err := schedule.NewTimeSlot("bad", tc.start, tc.end, schedule.SlotWork, true)
		if !errors.Is(err, schedule.ErrInvalidSlotRange) {
			t.Errorf("NewTimeSlot(%d, %d): want ErrInvalidSlotRange, got %v", tc.start, tc.end, err)
		}
	}
}

func TestWorkDayPattern_RejectsOverlap(t *testing.T) {
	a, _ := schedule.NewTimeSlot("a", 540, 780, schedule.SlotWork, true)
	b, _ := schedule.NewTimeSlot("b", 700, 900, schedule.SlotWork, true)

	_, err := schedule.NewWorkDayPattern(0, []schedule.TimeSlot{a, b})
	if !errors.Is(err, schedule.ErrOverlappingSlots) {
		t.Fatalf("want ErrOverlappingSlots, got %v", err)
	}

	// Touching slots are fine: [540,780) then [780,900)
	c, _ := schedule.NewTimeSlot("c", 780, 900, schedule.SlotBreak, false)
	p, err := schedule.NewWorkDayPattern(0, []schedule.TimeSlot{c, a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Slots[0].ID != "a" {
		t.Errorf("slots not sorted by start: first is %s", p.Slots[0].ID)
	}
	if p.ScheduledMinutes() != 360 {
		t.Errorf("ScheduledMinutes() = %d, want 360", p.ScheduledMinutes())
	}
}
