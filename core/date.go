package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const DateLayout = "2006-01-02"

// Weekday is one of the seven canonical weekday names, eg. "Monday".
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// AllWeekdays in display order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayIndex = map[Weekday]int{
	Monday: 0, Tuesday: 1, Wednesday: 2, Thursday: 3, Friday: 4, Saturday: 5, Sunday: 6,
}

func (d Weekday) Valid() bool {
	_, ok := weekdayIndex[d]
	return ok
}

// Index returns the Monday-first position of d, or -1 if d is not a canonical weekday.
func (d Weekday) Index() int {
	if i, ok := weekdayIndex[d]; ok {
		return i
	}
	return -1
}

// ParseWeekday accepts full names and 3-letter abbreviations, case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	ls := CleanString(s, true /* lower */)
	if len(ls) >= 3 {
		for _, d := range AllWeekdays {
			name := strings.ToLower(string(d))
			if ls == name || ls == name[:3] {
				return d, nil
			}
		}
	}
	return "", errors.Errorf("invalid weekday %q", s)
}

func fromTimeWeekday(wd time.Weekday) Weekday {
	return AllWeekdays[(int(wd)+6)%7]
}

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current date in loc.
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return DateOf(NowFunc().In(loc))
}

// ParseDate parses an ISO date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, errors.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) Weekday() Weekday { return fromTimeWeekday(d.Time().Weekday()) }

func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }

func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }

func (d Date) After(o Date) bool { return d.Time().After(o.Time()) }

// Between reports whether from <= d <= to.
func (d Date) Between(from, to Date) bool {
	return !d.Before(from) && !d.After(to)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateLayout)
}

// Long renders eg. "June 04, 2024".
func (d Date) Long() string { return d.Time().Format("January 02, 2006") }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	// tolerate full timestamps
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Period is a (month, year) pair, the unit of fee accounting.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func PeriodOf(d Date) Period {
	return Period{Month: int(d.Month), Year: d.Year}
}

func (p Period) Validate() error {
	var flds []FieldError
	if p.Month < 1 || p.Month > 12 {
		flds = append(flds, FieldError{Field: "month", Error: "month must be between 1 and 12"})
	}
	if p.Year < 1 {
		flds = append(flds, FieldError{Field: "year", Error: "year must be a positive number"})
	}
	if flds != nil {
		return NewValidationError(nil, flds...)
	}
	return nil
}

func (p Period) String() string {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Sprintf("%d/%d", p.Month, p.Year)
	}
	return fmt.Sprintf("%s %d", time.Month(p.Month), p.Year)
}

// NowFunc is mockable
var NowFunc = time.Now
