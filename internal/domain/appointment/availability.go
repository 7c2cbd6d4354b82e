package appointment

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/medical-scheduler/internal/calendar"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
)

// FallbackSlotMinutes is used when neither a weekday rule nor the doctor
// provides a slot duration.
const FallbackSlotMinutes = 30

type AvailabilityInput struct {
	DoctorID uint
	From     time.Time
	To       time.Time
}

// ResolveInput is a consistent snapshot of one doctor's schedule data.
type ResolveInput struct {
	DoctorID           uint
	From               time.Time
	To                 time.Time
	Location           *time.Location
	DefaultSlotMinutes int

	Rules        []models.DoctorAvailabilityRule
	Exceptions   []models.AvailabilityException
	Appointments []models.Appointment
}

type DaySlots struct {
	Date  string      `json:"date"`
	Slots []time.Time `json:"slots"`
}

type window struct {
	start time.Time
	end   time.Time
	step  time.Duration
}

// ResolveSlots turns recurring rules and date exceptions into bookable slot
// start times for every date in [From, To], dropping slots already taken by
// pending or confirmed appointments. Dates without availability are kept
// with an empty slot list.
func ResolveSlots(in ResolveInput) []DaySlots {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	first := calendar.DateOf(in.From)
	last := calendar.DateOf(in.To)
	if last.Before(first) {
		return []DaySlots{}
	}

	rulesByDay := activeRulesByWeekday(in.DoctorID, in.Rules)
	exceptions := activeExceptionsByDate(in.DoctorID, in.Exceptions)
	booked := bookedInstants(in.DoctorID, in.Appointments)

	var out []DaySlots
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		dateKey := d.Format(calendar.DateLayout)

		windows := windowsFor(
			d, loc,
			rulesByDay[d.Weekday()],
			exceptions[dateKey],
			in.DefaultSlotMinutes,
		)

		out = append(out, DaySlots{
			Date:  dateKey,
			Slots: generate(windows, booked),
		})
	}

	return out
}

func windowsFor(
	day time.Time,
	loc *time.Location,
	rules []models.DoctorAvailabilityRule,
	exc *models.AvailabilityException,
	defaultMinutes int,
) []window {

	if exc != nil {
		if !exc.IsAvailable {
			return nil
		}
		if exc.HasWindow() {
			w, ok := makeWindow(day, loc, exc.StartTime, exc.EndTime, overrideMinutes(rules, defaultMinutes))
			if !ok {
				return nil
			}
			return []window{w}
		}
	}

	windows := make([]window, 0, len(rules))
	for _, r := range rules {
		if w, ok := makeWindow(day, loc, r.StartTime, r.EndTime, r.SlotDurationMinutes); ok {
			windows = append(windows, w)
		}
	}
	return windows
}

// overrideMinutes picks the slot duration for an exception window: the
// weekday template if there is one, then the doctor default, then the fallback.
func overrideMinutes(rules []models.DoctorAvailabilityRule, defaultMinutes int) int {
	best := 0
	for _, r := range rules {
		if r.SlotDurationMinutes > 0 && (best == 0 || r.SlotDurationMinutes < best) {
			best = r.SlotDurationMinutes
		}
	}
	if best > 0 {
		return best
	}
	if defaultMinutes > 0 {
		return defaultMinutes
	}
	return FallbackSlotMinutes
}

func makeWindow(day time.Time, loc *time.Location, startHM, endHM string, minutes int) (window, bool) {
	if minutes <= 0 {
		return window{}, false
	}

	sh, sm, err := ParseClock(startHM)
	if err != nil {
		return window{}, false
	}
	eh, em, err := ParseClock(endHM)
	if err != nil {
		return window{}, false
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), sh, sm, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), eh, em, 0, 0, loc)
	if !start.Before(end) {
		return window{}, false
	}

	return window{start: start, end: end, step: time.Duration(minutes) * time.Minute}, true
}

// generate walks every window, emits slots whose full duration fits, and
// returns them sorted and de-duplicated.
func generate(windows []window, booked map[int64]struct{}) []time.Time {
	seen := make(map[int64]struct{})
	slots := []time.Time{}

	for _, w := range windows {
		for cur := w.start; !cur.Add(w.step).After(w.end); cur = cur.Add(w.step) {
			k := cur.UnixNano()
			if _, taken := booked[k]; taken {
				continue
			}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			slots = append(slots, cur)
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	return slots
}

func activeRulesByWeekday(doctorID uint, rules []models.DoctorAvailabilityRule) map[time.Weekday][]models.DoctorAvailabilityRule {
	out := make(map[time.Weekday][]models.DoctorAvailabilityRule)
	for _, r := range rules {
		if !r.Active || r.DoctorID != doctorID {
			continue
		}
		wd := time.Weekday(r.Weekday)
		out[wd] = append(out[wd], r)
	}
	return out
}

// activeExceptionsByDate keeps one exception per date. Should two active
// rows exist for the same date, the most recent one (highest ID) wins.
func activeExceptionsByDate(doctorID uint, exceptions []models.AvailabilityException) map[string]*models.AvailabilityException {
	out := make(map[string]*models.AvailabilityException)
	for i := range exceptions {
		e := &exceptions[i]
		if !e.Active || e.DoctorID != doctorID {
			continue
		}
		if cur, ok := out[e.Date]; ok && cur.ID > e.ID {
			continue
		}
		out[e.Date] = e
	}
	return out
}

func bookedInstants(doctorID uint, appointments []models.Appointment) map[int64]struct{} {
	out := make(map[int64]struct{})
	for _, ap := range appointments {
		if ap.DoctorID != doctorID || !Status(ap.Status).IsActive() {
			continue
		}
		out[ap.DateTime.UnixNano()] = struct{}{}
	}
	return out
}

// ===============================
// Lookups over resolved slots
// ===============================

func SlotsOn(days []DaySlots, date string) []time.Time {
	for _, d := range days {
		if d.Date == date {
			return d.Slots
		}
	}
	return nil
}

func ContainsSlot(days []DaySlots, at time.Time) bool {
	for _, s := range SlotsOn(days, at.Format(calendar.DateLayout)) {
		if s.Equal(at) {
			return true
		}
	}
	return false
}
