/*
Package factory provides JSON to Go schedule template conversion.

PURPOSE:
  Converts JSON template definitions into validated schedule.ScheduleTemplate
  values. This enables schedule configuration without code changes - HR can
  define templates in JSON, and the factory creates the proper Go structs
  with every slot/pattern invariant checked up front.

JSON SCHEMA:
  {
    "id": "tpl-office",
    "name": "Office 9-18",
    "kind": "fixed",
    "patterns": [
      {
        "day_index": 0,
        "slots": [
          {"start": "09:00", "end": "13:00", "type": "work"},
          {"start": "13:00", "end": "14:00", "type": "break", "counts_as_work": false},
          {"start": "14:00", "end": "18:00", "type": "work"}
        ]
      }
    ],
    "periods": [
      {
        "id": "per-summer",
        "category": "intensive",
        "start_date": "2024-07-01",
        "end_date": "2024-08-31",
        "patterns": [ ... ]
      }
    ]
  }

KEY FEATURES:
  - Clock strings ("HH:mm") convert to minute-of-day integers
  - Slot/pattern invariants are rejected at parse time, not at resolution
  - Missing slot IDs are generated so paid-break configuration can
    reference them later
  - Rotation templates require a positive cycle_length

SEE ALSO:
  - schedule/types.go: The value types built here
  - store/sqlite: Persists parsed templates
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/warp/schedule-engine/schedule"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// TemplateJSON is the JSON representation of a schedule template.
type TemplateJSON struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Kind        string        `json:"kind"` // fixed, flexible, shift, rotation
	CycleLength int           `json:"cycle_length,omitempty"`
	Patterns    []PatternJSON `json:"patterns"`
	Periods     []PeriodJSON  `json:"periods,omitempty"`
}

// PatternJSON represents one day's slot sequence.
type PatternJSON struct {
	DayIndex int        `json:"day_index"`
	Slots    []SlotJSON `json:"slots"`
}

// SlotJSON represents a slot with clock-string boundaries.
type SlotJSON struct {
	ID           string `json:"id,omitempty"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Type         string `json:"type"` // work, break
	CountsAsWork bool   `json:"counts_as_work,omitempty"`
}

// PeriodJSON represents a date-bounded pattern override.
type PeriodJSON struct {
	ID        string        `json:"id"`
	Category  string        `json:"category"` // regular, intensive, special
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date,omitempty"` // empty = open-ended
	Patterns  []PatternJSON `json:"patterns"`
}

// =============================================================================
// TEMPLATE FACTORY
// =============================================================================

// TemplateFactory converts JSON templates to validated Go structs.
type TemplateFactory struct{}

// NewTemplateFactory creates a new template factory.
func NewTemplateFactory() *TemplateFactory {
	return &TemplateFactory{}
}

// ParseTemplate parses a JSON string into a ScheduleTemplate.
func (f *TemplateFactory) ParseTemplate(jsonStr string) (*schedule.ScheduleTemplate, error) {
	var tj TemplateJSON
	if err := json.Unmarshal([]byte(jsonStr), &tj); err != nil {
		return nil, fmt.Errorf("failed to parse template JSON: %w", err)
	}
	return f.FromJSON(tj)
}

// FromJSON converts TemplateJSON into a validated ScheduleTemplate.
func (f *TemplateFactory) FromJSON(tj TemplateJSON) (*schedule.ScheduleTemplate, error) {
	if tj.ID == "" {
		tj.ID = "tpl-" + uuid.NewString()
	}
	if tj.Name == "" {
		return nil, fmt.Errorf("template %s: name is required", tj.ID)
	}

	kind, err := parseKind(tj.Kind)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", tj.ID, err)
	}
	if kind.IsRotating() && tj.CycleLength <= 0 {
		return nil, fmt.Errorf("template %s: %w (%d)", tj.ID, schedule.ErrInvalidCycleLength, tj.CycleLength)
	}

	patterns, err := f.ParsePatterns(tj.Patterns)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", tj.ID, err)
	}

	template := &schedule.ScheduleTemplate{
		ID:          schedule.TemplateID(tj.ID),
		Name:        tj.Name,
		Kind:        kind,
		CycleLength: tj.CycleLength,
		Patterns:    patterns,
		CreatedAt:   time.Now(),
	}

	for _, pj := range tj.Periods {
		period, err := f.parsePeriod(template.ID, pj)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", tj.ID, err)
		}
		template.Periods = append(template.Periods, period)
	}

	return template, nil
}

func (f *TemplateFactory) parsePeriod(templateID schedule.TemplateID, pj PeriodJSON) (schedule.SchedulePeriod, error) {
	if pj.ID == "" {
		pj.ID = "per-" + uuid.NewString()
	}

	category, err := parseCategory(pj.Category)
	if err != nil {
		return schedule.SchedulePeriod{}, fmt.Errorf("period %s: %w", pj.ID, err)
	}

	start, err := schedule.ParseLocalDate(pj.StartDate)
	if err != nil {
		return schedule.SchedulePeriod{}, fmt.Errorf("period %s: %w", pj.ID, err)
	}
	dateRange := schedule.OpenRange(start)
	if pj.EndDate != "" {
		end, err := schedule.ParseLocalDate(pj.EndDate)
		if err != nil {
			return schedule.SchedulePeriod{}, fmt.Errorf("period %s: %w", pj.ID, err)
		}
		dateRange, err = schedule.NewDateRange(start, end)
		if err != nil {
			return schedule.SchedulePeriod{}, fmt.Errorf("period %s: %w", pj.ID, err)
		}
	}

	patterns, err := f.ParsePatterns(pj.Patterns)
	if err != nil {
		return schedule.SchedulePeriod{}, fmt.Errorf("period %s: %w", pj.ID, err)
	}

	return schedule.SchedulePeriod{
		ID:         schedule.PeriodID(pj.ID),
		TemplateID: templateID,
		Category:   category,
		Range:      dateRange,
		Patterns:   patterns,
		CreatedAt:  time.Now(),
	}, nil
}

// ParsePatterns converts pattern JSON into validated day patterns. Exposed so
// stores persisting patterns in their JSON form can rehydrate them.
func (f *TemplateFactory) ParsePatterns(pjs []PatternJSON) ([]schedule.WorkDayPattern, error) {
	seen := make(map[int]bool)
	var patterns []schedule.WorkDayPattern
	for _, pj := range pjs {
		if seen[pj.DayIndex] {
			return nil, fmt.Errorf("duplicate pattern for day index %d", pj.DayIndex)
		}
		seen[pj.DayIndex] = true

		slots, err := f.ParseSlots(pj.Slots)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", pj.DayIndex, err)
		}

		pattern, err := schedule.NewWorkDayPattern(pj.DayIndex, slots)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}

// ParseSlots converts slot JSON into validated time slots.
func (f *TemplateFactory) ParseSlots(sjs []SlotJSON) ([]schedule.TimeSlot, error) {
	slots := make([]schedule.TimeSlot, 0, len(sjs))
	for _, sj := range sjs {
		slot, err := f.parseSlot(sj)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

func (f *TemplateFactory) parseSlot(sj SlotJSON) (schedule.TimeSlot, error) {
	start, err := schedule.ClockToMinutes(sj.Start)
	if err != nil {
		return schedule.TimeSlot{}, err
	}
	end, err := schedule.ClockToMinutes(sj.End)
	if err != nil {
		return schedule.TimeSlot{}, err
	}

	var slotType schedule.SlotType
	switch sj.Type {
	case "work", "":
		slotType = schedule.SlotWork
	case "break":
		slotType = schedule.SlotBreak
	default:
		return schedule.TimeSlot{}, fmt.Errorf("unknown slot type %q", sj.Type)
	}

	id := sj.ID
	if id == "" {
		id = "slot-" + uuid.NewString()
	}
	return schedule.NewTimeSlot(schedule.SlotID(id), start, end, slotType, sj.CountsAsWork)
}

// =============================================================================
// ENCODING - Back to the JSON form
// =============================================================================

// EncodeTemplate renders a template in its JSON document form, clock strings
// and all. Inverse of FromJSON up to generated IDs and timestamps.
func EncodeTemplate(tpl *schedule.ScheduleTemplate) TemplateJSON {
	tj := TemplateJSON{
		ID:          string(tpl.ID),
		Name:        tpl.Name,
		Kind:        string(tpl.Kind),
		CycleLength: tpl.CycleLength,
		Patterns:    EncodePatterns(tpl.Patterns),
	}
	for _, p := range tpl.Periods {
		pj := PeriodJSON{
			ID:        string(p.ID),
			Category:  string(p.Category),
			StartDate: p.Range.Start.String(),
			Patterns:  EncodePatterns(p.Patterns),
		}
		if p.Range.End != nil {
			pj.EndDate = p.Range.End.String()
		}
		tj.Periods = append(tj.Periods, pj)
	}
	return tj
}

// EncodePatterns renders day patterns in their JSON form.
func EncodePatterns(patterns []schedule.WorkDayPattern) []PatternJSON {
	pjs := make([]PatternJSON, 0, len(patterns))
	for _, p := range patterns {
		pjs = append(pjs, PatternJSON{DayIndex: p.DayIndex, Slots: EncodeSlots(p.Slots)})
	}
	return pjs
}

// EncodeSlots renders time slots in their JSON form.
func EncodeSlots(slots []schedule.TimeSlot) []SlotJSON {
	sjs := make([]SlotJSON, 0, len(slots))
	for _, s := range slots {
		// Boundaries were validated at construction; formatting cannot fail.
		start, _ := schedule.MinutesToClock(s.StartMinutes)
		end, _ := schedule.MinutesToClock(s.EndMinutes)
		sjs = append(sjs, SlotJSON{
			ID:           string(s.ID),
			Start:        start,
			End:          end,
			Type:         string(s.Type),
			CountsAsWork: s.CountsAsWork,
		})
	}
	return sjs
}

func parseKind(s string) (schedule.ScheduleKind, error) {
	switch schedule.ScheduleKind(s) {
	case schedule.KindFixed, schedule.KindFlexible, schedule.KindShift, schedule.KindRotation:
		return schedule.ScheduleKind(s), nil
	case "":
		return schedule.KindFixed, nil
	default:
		return "", fmt.Errorf("unknown schedule kind %q", s)
	}
}

func parseCategory(s string) (schedule.PeriodCategory, error) {
	switch schedule.PeriodCategory(s) {
	case schedule.CategoryRegular, schedule.CategoryIntensive, schedule.CategorySpecial:
		return schedule.PeriodCategory(s), nil
	case "":
		return schedule.CategoryRegular, nil
	default:
		return "", fmt.Errorf("unknown period category %q", s)
	}
}
