package memdb

import (
	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.rows))
	for _, std := range repo.db.rows {
		students = append(students, std.Clone())
	}
	return students
}

func (repo *studentRepository) index(id int) int {
	for i, std := range repo.db.rows {
		if std.ID == id {
			return i
		}
	}
	return -1
}

func (repo *studentRepository) CreateStudent(std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.lastID++
	std = std.Clone()
	std.ID = repo.db.lastID
	repo.db.rows = append(repo.db.rows, &std)
	return std.Clone(), nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) GetStudentByID(id int) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if i := repo.index(id); i >= 0 {
		return repo.db.rows[i].Clone(), nil
	}
	return student.Student{}, student.ErrNotFound(id)
}

func (repo *studentRepository) FilterStudents(filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := repo.query()

	// students with search keyword matching Name ?
	if filter.Search != "" {
		var filtered []student.Student
		for _, std := range students {
			if core.ContainsFold(std.Name, filter.Search) {
				filtered = append(filtered, std)
			}
		}
		students = filtered
	}
	// students with any of the specified ids
	if students != nil && len(filter.IDs) > 0 {
		ids := make(map[int]bool, len(filter.IDs))
		for _, id := range filter.IDs {
			ids[id] = true
		}
		var filtered []student.Student
		for _, std := range students {
			if ids[std.ID] {
				filtered = append(filtered, std)
			}
		}
		students = filtered
	}
	if students != nil && filter.Day != "" {
		var filtered []student.Student
		for _, std := range students {
			if std.Schedule.Has(filter.Day) {
				filtered = append(filtered, std)
			}
		}
		students = filtered
	}

	if students == nil {
		students = []student.Student{}
	}
	return students, nil
}

func (repo *studentRepository) AppendPayment(id int, pmt student.Payment) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	i := repo.index(id)
	if i < 0 {
		return student.Student{}, student.ErrNotFound(id)
	}
	std := repo.db.rows[i]
	std.FeesPaid = append(std.FeesPaid, pmt)
	return std.Clone(), nil
}

func (repo *studentRepository) DeleteStudentByID(id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	i := repo.index(id)
	if i < 0 {
		return student.ErrNotFound(id)
	}
	repo.db.rows = append(repo.db.rows[:i], repo.db.rows[i+1:]...)
	return nil
}
