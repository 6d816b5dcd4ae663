// Package memdb keeps the three collections in memory. Rows keep insertion order and every value
// crossing the package boundary is a copy.
package memdb

import (
	"sync"

	"github.com/trezcool/tuition/core/attendance"
	"github.com/trezcool/tuition/core/reschedule"
	"github.com/trezcool/tuition/core/session"
	"github.com/trezcool/tuition/core/student"
)

type (
	DB struct {
		student    *studentTable
		attendance *attendanceTable
		reschedule *rescheduleTable
	}

	studentTable struct {
		sync.RWMutex
		rows   []*student.Student
		lastID int // high-water mark: deleted ids are not handed out again
	}

	attendanceTable struct {
		sync.RWMutex
		rows []attendance.Record
	}

	rescheduleTable struct {
		sync.RWMutex
		rows   []reschedule.Reschedule
		lastID int
	}
)

var _ session.Store = (*DB)(nil) // interface compliance check

func Open() *DB {
	return &DB{
		student:    &studentTable{},
		attendance: &attendanceTable{},
		reschedule: &rescheduleTable{},
	}
}

func (db *DB) Students() student.Repository       { return &studentRepository{db: db.student} }
func (db *DB) Attendance() attendance.Repository  { return &attendanceRepository{db: db.attendance} }
func (db *DB) Reschedules() reschedule.Repository { return &rescheduleRepository{db: db.reschedule} }

// Snapshot copies the content of every table.
func (db *DB) Snapshot() session.State {
	var state session.State

	db.student.RLock()
	state.Students = make([]student.Student, 0, len(db.student.rows))
	for _, std := range db.student.rows {
		state.Students = append(state.Students, std.Clone())
	}
	state.LastStudentID = db.student.lastID
	db.student.RUnlock()

	db.attendance.RLock()
	state.Attendance = append(make([]attendance.Record, 0, len(db.attendance.rows)), db.attendance.rows...)
	db.attendance.RUnlock()

	db.reschedule.RLock()
	state.Reschedules = append(make([]reschedule.Reschedule, 0, len(db.reschedule.rows)), db.reschedule.rows...)
	db.reschedule.RUnlock()

	return state
}

// Restore replaces the content of every table with state. The student counter resumes after the highest
// id state knows of: the saved counter, the stored students and the ids referenced by attendance and
// reschedules, so that records of a deleted student never attach to a new one.
func (db *DB) Restore(state session.State) {
	db.student.Lock()
	db.student.rows = make([]*student.Student, 0, len(state.Students))
	db.student.lastID = state.LastStudentID
	for _, std := range state.Students {
		std := std.Clone()
		db.student.rows = append(db.student.rows, &std)
		if std.ID > db.student.lastID {
			db.student.lastID = std.ID
		}
	}
	for _, rec := range state.Attendance {
		if rec.StudentID > db.student.lastID {
			db.student.lastID = rec.StudentID
		}
	}
	for _, res := range state.Reschedules {
		if res.StudentID > db.student.lastID {
			db.student.lastID = res.StudentID
		}
	}
	db.student.Unlock()

	db.attendance.Lock()
	db.attendance.rows = append(make([]attendance.Record, 0, len(state.Attendance)), state.Attendance...)
	db.attendance.Unlock()

	db.reschedule.Lock()
	db.reschedule.rows = append(make([]reschedule.Reschedule, 0, len(state.Reschedules)), state.Reschedules...)
	db.reschedule.lastID = 0
	for _, res := range state.Reschedules {
		if res.ID > db.reschedule.lastID {
			db.reschedule.lastID = res.ID
		}
	}
	db.reschedule.Unlock()
}
