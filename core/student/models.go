package student

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trezcool/tuition/core"
)

const NotScheduled = "Not scheduled"

// Schedule maps each weekday a student has class on to the time-slot of that class, eg. "4:00 PM - 5:00 PM".
type Schedule map[core.Weekday]string

// Has reports whether the schedule has a class on day.
func (s Schedule) Has(day core.Weekday) bool {
	_, ok := s[day]
	return ok
}

// SlotFor returns the time-slot scheduled on day.
func (s Schedule) SlotFor(day core.Weekday) (string, bool) {
	slot, ok := s[day]
	return slot, ok
}

// Days returns the scheduled weekdays, Monday first.
func (s Schedule) Days() []core.Weekday {
	days := make([]core.Weekday, 0, len(s))
	for d := range s {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Index() < days[j].Index() })
	return days
}

func (s Schedule) clone() Schedule {
	c := make(Schedule, len(s))
	for d, slot := range s {
		c[d] = slot
	}
	return c
}

// Payment records one fee payment for a (month, year) period.
type Payment struct {
	Month  int             `json:"month"`
	Year   int             `json:"year"`
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"` // student's fee at payment time
}

func (p Payment) Period() core.Period {
	return core.Period{Month: p.Month, Year: p.Year}
}

type Student struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Grade      string          `json:"grade"`
	Subject    string          `json:"subject"`
	Schedule   Schedule        `json:"schedule"`
	MonthlyFee decimal.Decimal `json:"monthly_fee"`
	Contact    string          `json:"contact"`
	FeesPaid   []Payment       `json:"fees_paid"`
	CreatedAt  time.Time       `json:"created_at,omitempty"` // UTC
}

// SlotFor returns the regular time-slot on day, or NotScheduled.
func (s Student) SlotFor(day core.Weekday) string {
	if slot, ok := s.Schedule.SlotFor(day); ok {
		return slot
	}
	return NotScheduled
}

// HasPaid reports whether at least one payment covers the period.
func (s Student) HasPaid(p core.Period) bool {
	for _, pmt := range s.FeesPaid {
		if pmt.Month == p.Month && pmt.Year == p.Year {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so that callers never share the store's maps and slices.
func (s Student) Clone() Student {
	c := s
	c.Schedule = s.Schedule.clone()
	c.FeesPaid = append(make([]Payment, 0, len(s.FeesPaid)), s.FeesPaid...)
	return c
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name       string          `json:"name" validate:"notblank"`
	Grade      string          `json:"grade" validate:"notblank"`
	Subject    string          `json:"subject" validate:"notblank"`
	Schedule   Schedule        `json:"schedule" validate:"required,min=1,dive,keys,weekday,endkeys,notblank"`
	MonthlyFee decimal.Decimal `json:"monthly_fee"`
	Contact    string          `json:"contact"`
}

// Clean trims text fields and normalizes the schedule's weekday names ("tue" -> "Tuesday").
// Unknown weekday names are kept as given so that validation reports them.
func (ns *NewStudent) Clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Grade = core.CleanString(ns.Grade)
	ns.Subject = core.CleanString(ns.Subject)
	ns.Contact = core.CleanString(ns.Contact)

	if ns.Schedule == nil {
		return
	}
	sched := make(Schedule, len(ns.Schedule))
	for day, slot := range ns.Schedule {
		if d, err := core.ParseWeekday(string(day)); err == nil {
			day = d
		}
		sched[day] = core.CleanString(slot)
	}
	ns.Schedule = sched
}

func (ns *NewStudent) Validate(v *core.Validator) error {
	if day, ok := ns.duplicateDay(); ok {
		return core.NewValidationError(nil, core.FieldError{Field: "schedule", Error: string(day) + " is listed more than once"})
	}
	ns.Clean()
	return v.Struct(ns)
}

// duplicateDay finds a weekday given under two spellings, eg. "Tue" and "tuesday".
func (ns *NewStudent) duplicateDay() (core.Weekday, bool) {
	seen := make(map[core.Weekday]bool, len(ns.Schedule))
	for name := range ns.Schedule {
		day, err := core.ParseWeekday(string(name))
		if err != nil {
			continue
		}
		if seen[day] {
			return day, true
		}
		seen[day] = true
	}
	return "", false
}

// QueryFilter narrows down QueryAll results.
type QueryFilter struct {
	Search string       // case-insensitive match on Name
	IDs    []int        // any of
	Day    core.Weekday // scheduled on
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.IDs == nil && qf.Day == ""
}
