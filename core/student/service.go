package student

import (
	"github.com/trezcool/tuition/core"
)

const kind = "student"

type (
	Repository interface {
		// CreateStudent assigns the next id to std and stores it.
		CreateStudent(std Student) (Student, error)
		// QueryAllStudents returns every student in insertion order.
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id int) (Student, error)
		// FilterStudents applies AND operation on available QueryFilter fields.
		FilterStudents(filter QueryFilter) ([]Student, error)
		AppendPayment(id int, pmt Payment) (Student, error)
		DeleteStudentByID(id int) error
	}

	Service struct {
		repo Repository
		v    *core.Validator
	}
)

func NewService(repo Repository, v *core.Validator) *Service {
	registerValidators(v)
	return &Service{repo: repo, v: v}
}

func (svc *Service) Create(ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.v); err != nil {
		return Student{}, err
	}
	std := Student{
		Name:       ns.Name,
		Grade:      ns.Grade,
		Subject:    ns.Subject,
		Schedule:   ns.Schedule,
		MonthlyFee: ns.MonthlyFee,
		Contact:    ns.Contact,
		FeesPaid:   []Payment{},
		CreatedAt:  core.NowFunc().UTC(),
	}
	return svc.repo.CreateStudent(std)
}

func (svc *Service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *Service) GetByID(id int) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

// Search returns the students whose name contains term, ignoring case. A blank term matches everyone.
func (svc *Service) Search(term string) ([]Student, error) {
	return svc.Filter(QueryFilter{Search: term})
}

func (svc *Service) Filter(filter QueryFilter) ([]Student, error) {
	filter.Clean()
	if filter.IsEmpty() {
		return svc.repo.QueryAllStudents()
	}
	return svc.repo.FilterStudents(filter)
}

// AddPayment appends pmt to the student's payment history.
func (svc *Service) AddPayment(id int, pmt Payment) (Student, error) {
	if pmt.Date.IsZero() {
		pmt.Date = core.NowFunc()
	}
	return svc.repo.AppendPayment(id, pmt)
}

func (svc *Service) Delete(id int) error {
	return svc.repo.DeleteStudentByID(id)
}

// ErrNotFound builds the error repositories return for an unknown student id.
func ErrNotFound(id int) error {
	return core.NewNotFoundError(kind, id)
}
