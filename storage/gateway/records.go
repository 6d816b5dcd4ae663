package gateway

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/attendance"
	"github.com/trezcool/tuition/core/reschedule"
	"github.com/trezcool/tuition/core/student"
)

func init() {
	// fees are stored as plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// timestamp accepts RFC 3339 as well as zone-less ISO timestamps. Zone-less values are wall-clock
// times of the location they are resolved in.
type timestamp struct {
	t        time.Time
	zoneless bool
}

var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	core.DateLayout,
}

func stamp(t time.Time) timestamp { return timestamp{t: t} }

// in returns the instant, reading zone-less values in loc.
func (ts timestamp) in(loc *time.Location) time.Time {
	if !ts.zoneless || ts.t.IsZero() {
		return ts.t
	}
	y, m, d := ts.t.Date()
	return time.Date(y, m, d, ts.t.Hour(), ts.t.Minute(), ts.t.Second(), ts.t.Nanosecond(), loc)
}

func (ts timestamp) MarshalJSON() ([]byte, error) {
	if ts.t.IsZero() {
		return []byte(`null`), nil
	}
	return json.Marshal(ts.t)
}

func (ts *timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		*ts = timestamp{} // null or garbage: unknown instant
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		*ts = timestamp{t: t}
		return nil
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*ts = timestamp{t: t, zoneless: true}
			return nil
		}
	}
	return errors.Errorf("invalid timestamp %q", s)
}

// scheduleShape tells which of the two stored schedule shapes a student record uses.
type scheduleShape int

const (
	shapeNone    scheduleShape = iota
	shapePerDay                // {"schedule": {"Monday": "4-5pm"}}
	shapeLegacy                // {"days": ["Monday"], "time_slot": "4-5pm"}
)

// storedSchedule is the tagged variant of the two shapes, normalized by canonical.
type storedSchedule struct {
	shape    scheduleShape
	perDay   map[string]string
	days     []string
	timeSlot string
}

// canonical returns the per-weekday mapping. Unknown weekday names are returned in skipped.
func (ss storedSchedule) canonical() (sched student.Schedule, skipped []string) {
	sched = make(student.Schedule)
	add := func(name, slot string) {
		day, err := core.ParseWeekday(name)
		if err != nil {
			skipped = append(skipped, name)
			return
		}
		sched[day] = slot
	}
	switch ss.shape {
	case shapePerDay:
		for name, slot := range ss.perDay {
			add(name, slot)
		}
	case shapeLegacy:
		for _, name := range ss.days {
			add(name, ss.timeSlot)
		}
	}
	return sched, skipped
}

type paymentRecord struct {
	Month  int             `json:"month"`
	Year   int             `json:"year"`
	Date   timestamp       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type studentRecord struct {
	ID         int               `json:"id"`
	Name       string            `json:"name"`
	Grade      string            `json:"grade"`
	Subject    string            `json:"subject"`
	Schedule   map[string]string `json:"schedule,omitempty"`
	Days       []string          `json:"days,omitempty"`
	TimeSlot   string            `json:"time_slot,omitempty"`
	MonthlyFee decimal.Decimal   `json:"monthly_fee"`
	Contact    string            `json:"contact"`
	FeesPaid   []paymentRecord   `json:"fees_paid"`
	CreatedAt  timestamp         `json:"created_at"`
}

func (rec studentRecord) storedSchedule() storedSchedule {
	switch {
	case rec.Schedule != nil:
		return storedSchedule{shape: shapePerDay, perDay: rec.Schedule}
	case rec.Days != nil:
		return storedSchedule{shape: shapeLegacy, days: rec.Days, timeSlot: strings.TrimSpace(rec.TimeSlot)}
	}
	return storedSchedule{shape: shapeNone}
}

// toStudent normalizes rec. skipped lists the schedule's unknown weekday names.
func (rec studentRecord) toStudent(loc *time.Location) (std student.Student, skipped []string) {
	sched, skipped := rec.storedSchedule().canonical()
	std = student.Student{
		ID:         rec.ID,
		Name:       rec.Name,
		Grade:      rec.Grade,
		Subject:    rec.Subject,
		Schedule:   sched,
		MonthlyFee: rec.MonthlyFee,
		Contact:    rec.Contact,
		FeesPaid:   make([]student.Payment, 0, len(rec.FeesPaid)),
		CreatedAt:  rec.CreatedAt.in(loc),
	}
	for _, p := range rec.FeesPaid {
		std.FeesPaid = append(std.FeesPaid, student.Payment{
			Month:  p.Month,
			Year:   p.Year,
			Date:   p.Date.in(loc),
			Amount: p.Amount,
		})
	}
	return std, skipped
}

// fromStudent always writes the per-weekday shape.
func fromStudent(std student.Student) studentRecord {
	rec := studentRecord{
		ID:         std.ID,
		Name:       std.Name,
		Grade:      std.Grade,
		Subject:    std.Subject,
		Schedule:   make(map[string]string, len(std.Schedule)),
		MonthlyFee: std.MonthlyFee,
		Contact:    std.Contact,
		FeesPaid:   make([]paymentRecord, 0, len(std.FeesPaid)),
		CreatedAt:  stamp(std.CreatedAt),
	}
	for day, slot := range std.Schedule {
		rec.Schedule[string(day)] = slot
	}
	for _, p := range std.FeesPaid {
		rec.FeesPaid = append(rec.FeesPaid, paymentRecord{
			Month:  p.Month,
			Year:   p.Year,
			Date:   stamp(p.Date),
			Amount: p.Amount,
		})
	}
	return rec
}

type attendanceRecord struct {
	StudentID   int       `json:"student_id"`
	StudentName string    `json:"student_name"`
	Date        core.Date `json:"date"`
	Status      string    `json:"status"`
	Timestamp   timestamp `json:"timestamp"`
}

func (rec attendanceRecord) toRecord(loc *time.Location) attendance.Record {
	return attendance.Record{
		StudentID:   rec.StudentID,
		StudentName: rec.StudentName,
		Date:        rec.Date,
		Status:      attendance.Status(core.CleanString(rec.Status, true /* lower */)),
		Timestamp:   rec.Timestamp.in(loc),
	}
}

func fromRecord(r attendance.Record) attendanceRecord {
	return attendanceRecord{
		StudentID:   r.StudentID,
		StudentName: r.StudentName,
		Date:        r.Date,
		Status:      string(r.Status),
		Timestamp:   stamp(r.Timestamp),
	}
}

type rescheduleRecord struct {
	ID           int       `json:"id"`
	StudentID    int       `json:"student_id"`
	StudentName  string    `json:"student_name"`
	OriginalDate core.Date `json:"original_date"`
	NewDate      core.Date `json:"new_date"`
	NewTime      string    `json:"new_time"`
	Reason       string    `json:"reason"`
	Status       string    `json:"status"`
	CreatedAt    timestamp `json:"created_at"`
}

func (rec rescheduleRecord) toReschedule(loc *time.Location) reschedule.Reschedule {
	status := reschedule.Status(core.CleanString(rec.Status, true /* lower */))
	if status == "" {
		status = reschedule.Active
	}
	return reschedule.Reschedule{
		ID:           rec.ID,
		StudentID:    rec.StudentID,
		StudentName:  rec.StudentName,
		OriginalDate: rec.OriginalDate,
		NewDate:      rec.NewDate,
		NewTime:      rec.NewTime,
		Reason:       rec.Reason,
		Status:       status,
		CreatedAt:    rec.CreatedAt.in(loc),
	}
}

func fromReschedule(r reschedule.Reschedule) rescheduleRecord {
	return rescheduleRecord{
		ID:           r.ID,
		StudentID:    r.StudentID,
		StudentName:  r.StudentName,
		OriginalDate: r.OriginalDate,
		NewDate:      r.NewDate,
		NewTime:      r.NewTime,
		Reason:       r.Reason,
		Status:       string(r.Status),
		CreatedAt:    stamp(r.CreatedAt),
	}
}
