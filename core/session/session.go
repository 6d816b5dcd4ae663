// Package session holds the explicit application state: the loaded collections, the services
// operating on them and the gateway every mutation is flushed through.
package session

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/attendance"
	"github.com/trezcool/tuition/core/fee"
	"github.com/trezcool/tuition/core/reschedule"
	"github.com/trezcool/tuition/core/schedule"
	"github.com/trezcool/tuition/core/student"
)

type (
	// State is the full content of the three persisted collections.
	State struct {
		Students    []student.Student
		Attendance  []attendance.Record
		Reschedules []reschedule.Reschedule
		// LastStudentID is the highest student id ever assigned, deleted students included.
		LastStudentID int
	}

	Store interface {
		Students() student.Repository
		Attendance() attendance.Repository
		Reschedules() reschedule.Repository
		Snapshot() State
		Restore(state State)
	}

	Gateway interface {
		LoadAll(ctx context.Context) (State, error)
		// SaveAll persists each collection independently and reports failures as a *core.SaveError.
		SaveAll(ctx context.Context, state State) error
	}

	Session struct {
		mu    sync.Mutex
		store Store
		gw    Gateway
		log   core.Logger

		students    *student.Service
		attendance  *attendance.Ledger
		reschedules *reschedule.Service
		schedule    *schedule.Resolver
		fees        *fee.Ledger
	}
)

// Open loads every collection through gw into store and wires the services over it.
func Open(ctx context.Context, store Store, gw Gateway, v *core.Validator, log core.Logger) (*Session, error) {
	state, err := gw.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	store.Restore(state)
	log.Info("session loaded", map[string]interface{}{
		"students":    len(state.Students),
		"attendance":  len(state.Attendance),
		"reschedules": len(state.Reschedules),
	})

	students := student.NewService(store.Students(), v)
	reschedules := reschedule.NewService(store.Reschedules(), students, v)
	return &Session{
		store:       store,
		gw:          gw,
		log:         log,
		students:    students,
		attendance:  attendance.NewLedger(store.Attendance(), students, v),
		reschedules: reschedules,
		schedule:    schedule.NewResolver(students, reschedules),
		fees:        fee.NewLedger(students),
	}, nil
}

// flush saves the whole state. It must be called with mu held.
func (s *Session) flush(ctx context.Context) error {
	if err := s.gw.SaveAll(ctx, s.store.Snapshot()); err != nil {
		s.log.Warn("flushing session", err)
		if core.IsSaveWarning(err) {
			return err
		}
		return &core.SaveError{Failed: map[string]error{"all": err}}
	}
	return nil
}

// Mutations: each returns its result along with a *core.SaveError when the flush failed.

func (s *Session) AddStudent(ctx context.Context, ns student.NewStudent) (student.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	std, err := s.students.Create(ns)
	if err != nil {
		return student.Student{}, err
	}
	return std, s.flush(ctx)
}

// DeleteStudent removes the student. Attendance records and reschedules referencing it are kept.
func (s *Session) DeleteStudent(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.students.Delete(id); err != nil {
		return err
	}
	return s.flush(ctx)
}

func (s *Session) SetAttendance(ctx context.Context, studentID int, date core.Date, status attendance.Status) (attendance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.attendance.SetStatus(studentID, date, status)
	if err != nil {
		return attendance.Record{}, err
	}
	return rec, s.flush(ctx)
}

func (s *Session) CreateReschedule(ctx context.Context, nr reschedule.NewReschedule) (reschedule.Reschedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.reschedules.Create(nr)
	if err != nil {
		return reschedule.Reschedule{}, err
	}
	return res, s.flush(ctx)
}

func (s *Session) MarkPaid(ctx context.Context, studentID int, p core.Period) (student.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	std, err := s.fees.MarkPaid(studentID, p)
	if err != nil {
		return student.Student{}, err
	}
	return std, s.flush(ctx)
}

// Queries

func (s *Session) ListStudents() ([]student.Student, error) { return s.students.QueryAll() }

func (s *Session) SearchStudents(term string) ([]student.Student, error) {
	return s.students.Search(term)
}

func (s *Session) GetStudent(id int) (student.Student, error) { return s.students.GetByID(id) }

func (s *Session) ScheduleForWeekday(day core.Weekday) ([]schedule.Entry, error) {
	return s.schedule.ForWeekday(day)
}

func (s *Session) ScheduleForDate(date core.Date) ([]schedule.Entry, error) {
	return s.schedule.ForDate(date)
}

func (s *Session) TimeFor(std student.Student, date core.Date) (string, error) {
	return s.schedule.TimeFor(std, date)
}

func (s *Session) AttendanceStatus(studentID int, date core.Date) attendance.Status {
	return s.attendance.GetStatus(studentID, date)
}

// AttendanceReport returns the records within [from, to], newest first, and their summary.
func (s *Session) AttendanceReport(from, to core.Date) ([]attendance.Record, attendance.Summary, error) {
	recs, err := s.attendance.Query(from, to)
	if err != nil {
		return nil, attendance.Summary{}, err
	}
	sum, err := s.attendance.Summarize(from, to)
	if err != nil {
		return nil, attendance.Summary{}, err
	}
	return recs, sum, nil
}

func (s *Session) Reschedules(filter reschedule.QueryFilter) ([]reschedule.Reschedule, error) {
	if filter == (reschedule.QueryFilter{}) {
		return s.reschedules.QueryAll()
	}
	return s.reschedules.QueryActive(filter)
}

func (s *Session) IsPaid(std student.Student, p core.Period) bool { return s.fees.IsPaid(std, p) }

func (s *Session) FeeStatuses(p core.Period, search string) ([]fee.Status, error) {
	return s.fees.Statuses(p, search)
}

func (s *Session) FeeTotals(p core.Period) (fee.Totals, error) { return s.fees.Totals(p) }

func (s *Session) FeeReport() (fee.Report, error) { return s.fees.Report() }

// Dashboard is the overview of today.
type Dashboard struct {
	Date          core.Date        `json:"date"`
	TotalStudents int              `json:"total_students"`
	Received      decimal.Decimal  `json:"received"`
	Pending       decimal.Decimal  `json:"pending"`
	Today         []schedule.Entry `json:"today"`
}

func (s *Session) Dashboard(today core.Date) (Dashboard, error) {
	students, err := s.students.QueryAll()
	if err != nil {
		return Dashboard{}, err
	}
	totals, err := s.fees.Totals(core.PeriodOf(today))
	if err != nil {
		return Dashboard{}, err
	}
	entries, err := s.schedule.ForDate(today)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Date:          today,
		TotalStudents: len(students),
		Received:      totals.Received,
		Pending:       totals.Pending,
		Today:         entries,
	}, nil
}
