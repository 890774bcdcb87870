package schedule

import (
	"math"
	"sort"
)

// =============================================================================
// PERIOD SELECTOR - Picks the period active on a date
// =============================================================================
// Multiple periods may cover the same date. Selection is deterministic:
//
//   1. Category rank desc       (SPECIAL > INTENSIVE > REGULAR)
//   2. Range specificity desc   (narrower range wins; open-ended = widest)
//   3. CreatedAt desc           (most recently created wins)
//   4. Period ID asc            (final stable tie-break)
//
// Rule 4 makes repeated calls reproducible even for pathological data where
// two periods share category, length, and creation time.

// SelectPeriod returns the winning period for the date, or false when none
// covers it and resolution falls through to the template's base patterns.
func SelectPeriod(periods []SchedulePeriod, date LocalDate) (SchedulePeriod, bool) {
	var active []SchedulePeriod
	for _, p := range periods {
		if p.Range.Contains(date) {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return SchedulePeriod{}, false
	}

	sort.Slice(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if ra, rb := a.Category.Rank(), b.Category.Rank(); ra != rb {
			return ra > rb
		}
		if la, lb := rangeLengthForSort(a.Range), rangeLengthForSort(b.Range); la != lb {
			return la < lb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	return active[0], true
}

// rangeLengthForSort treats open-ended ranges as infinitely long, making them
// the least specific.
func rangeLengthForSort(r DateRange) int {
	if n, ok := r.LengthDays(); ok {
		return n
	}
	return math.MaxInt
}
