// Package schedule resolves which students have class on a weekday or on a given date.
package schedule

import (
	"sort"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/reschedule"
	"github.com/trezcool/tuition/core/student"
)

type (
	// Entry is one class of the resolved schedule.
	Entry struct {
		Student student.Student `json:"student"`
		Time    string          `json:"time"`
		// Reschedule is set when the class was moved onto the resolved date.
		Reschedule *reschedule.Reschedule `json:"reschedule,omitempty"`
	}

	StudentStore interface {
		QueryAll() ([]student.Student, error)
		GetByID(id int) (student.Student, error)
	}

	RescheduleStore interface {
		QueryActive(filter reschedule.QueryFilter) ([]reschedule.Reschedule, error)
	}

	Resolver struct {
		students    StudentStore
		reschedules RescheduleStore
	}
)

func NewResolver(students StudentStore, reschedules RescheduleStore) *Resolver {
	return &Resolver{students: students, reschedules: reschedules}
}

// ForWeekday returns the students whose weekly schedule includes day, in insertion order.
func (r *Resolver) ForWeekday(day core.Weekday) ([]Entry, error) {
	students, err := r.students.QueryAll()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0)
	for _, std := range students {
		if slot, ok := std.Schedule.SlotFor(day); ok {
			entries = append(entries, Entry{Student: std, Time: slot})
		}
	}
	return entries, nil
}

// ForDate returns the classes held on date: the weekday's students, minus those rescheduled away
// from date, plus those rescheduled onto it.
//
// A student rescheduled onto date is listed once, after the regular classes, with the time of the
// latest such reschedule, even when also scheduled or rescheduled away on that date.
// A reschedule onto date whose student no longer exists is reported as a *core.DataIntegrityError.
func (r *Resolver) ForDate(date core.Date) ([]Entry, error) {
	base, err := r.ForWeekday(date.Weekday())
	if err != nil {
		return nil, err
	}

	removed, err := r.reschedules.QueryActive(reschedule.QueryFilter{OriginalDate: date})
	if err != nil {
		return nil, err
	}
	added, err := r.addedOn(date)
	if err != nil {
		return nil, err
	}

	skip := make(map[int]bool, len(removed)+len(added))
	for _, res := range removed {
		skip[res.StudentID] = true
	}
	for _, e := range added {
		skip[e.Student.ID] = true
	}

	entries := make([]Entry, 0, len(base)+len(added))
	for _, e := range base {
		if !skip[e.Student.ID] {
			entries = append(entries, e)
		}
	}
	return append(entries, added...), nil
}

// TimeFor returns the time of the student's class on date, or student.NotScheduled.
func (r *Resolver) TimeFor(std student.Student, date core.Date) (string, error) {
	moved, err := r.reschedules.QueryActive(reschedule.QueryFilter{StudentID: std.ID, NewDate: date})
	if err != nil {
		return "", err
	}
	if n := len(moved); n > 0 {
		return timeOf(moved[n-1], std), nil
	}
	return std.SlotFor(date.Weekday()), nil
}

// addedOn resolves the students rescheduled onto date, ordered by the id of their latest reschedule.
func (r *Resolver) addedOn(date core.Date) ([]Entry, error) {
	moved, err := r.reschedules.QueryActive(reschedule.QueryFilter{NewDate: date})
	if err != nil {
		return nil, err
	}

	latest := make(map[int]reschedule.Reschedule, len(moved))
	for _, res := range moved {
		if cur, ok := latest[res.StudentID]; !ok || res.ID > cur.ID {
			latest[res.StudentID] = res
		}
	}

	winners := make([]reschedule.Reschedule, 0, len(latest))
	for _, res := range latest {
		winners = append(winners, res)
	}
	sort.Slice(winners, func(i, j int) bool { return winners[i].ID < winners[j].ID })

	entries := make([]Entry, 0, len(winners))
	for i := range winners {
		res := winners[i]
		std, err := r.students.GetByID(res.StudentID)
		if err != nil {
			if core.IsNotFound(err) {
				return nil, core.NewDataIntegrityError("reschedule", res.ID, res.StudentID)
			}
			return nil, err
		}
		entries = append(entries, Entry{Student: std, Time: timeOf(res, std), Reschedule: &res})
	}
	return entries, nil
}

// timeOf is the reschedule's time, falling back to the regular slot of the original weekday.
func timeOf(res reschedule.Reschedule, std student.Student) string {
	if res.NewTime != "" {
		return res.NewTime
	}
	return std.SlotFor(res.OriginalDate.Weekday())
}
