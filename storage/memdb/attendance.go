package memdb

import (
	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func (repo *attendanceRepository) ReplaceRecord(rec attendance.Record) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rows := repo.db.rows[:0]
	for _, r := range repo.db.rows {
		if r.StudentID != rec.StudentID || r.Date != rec.Date {
			rows = append(rows, r)
		}
	}
	repo.db.rows = append(rows, rec)
	return rec, nil
}

func (repo *attendanceRepository) GetRecord(studentID int, date core.Date) (attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, r := range repo.db.rows {
		if r.StudentID == studentID && r.Date == date {
			return r, nil
		}
	}
	return attendance.Record{}, attendance.ErrNotFound(studentID)
}

func (repo *attendanceRepository) QueryRecords(from, to core.Date) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]attendance.Record, 0)
	for _, r := range repo.db.rows {
		if r.Date.Between(from, to) {
			recs = append(recs, r)
		}
	}
	return recs, nil
}
