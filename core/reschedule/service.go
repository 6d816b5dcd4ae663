package reschedule

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/student"
)

type (
	Repository interface {
		// CreateReschedule assigns the next id to r and stores it.
		CreateReschedule(r Reschedule) (Reschedule, error)
		// QueryAllReschedules returns every reschedule in id order.
		QueryAllReschedules() ([]Reschedule, error)
	}

	StudentGetter interface {
		GetByID(id int) (student.Student, error)
	}

	Service struct {
		repo     Repository
		students StudentGetter
		v        *core.Validator
	}
)

func NewService(repo Repository, students StudentGetter, v *core.Validator) *Service {
	v.RegisterStructValidation(rescheduleStructValidation, NewReschedule{})
	return &Service{repo: repo, students: students, v: v}
}

func (svc *Service) Create(nr NewReschedule) (Reschedule, error) {
	nr.Clean()
	if err := svc.v.Struct(nr); err != nil {
		return Reschedule{}, err
	}

	std, err := svc.students.GetByID(nr.StudentID)
	if err != nil {
		return Reschedule{}, err
	}

	newTime := nr.NewTime
	if newTime == "" {
		// left blank when the student has no class on that weekday
		newTime, _ = std.Schedule.SlotFor(nr.OriginalDate.Weekday())
	}
	return svc.repo.CreateReschedule(Reschedule{
		StudentID:    std.ID,
		StudentName:  std.Name,
		OriginalDate: nr.OriginalDate,
		NewDate:      nr.NewDate,
		NewTime:      newTime,
		Reason:       nr.Reason,
		Status:       Active,
		CreatedAt:    core.NowFunc().UTC(),
	})
}

func (svc *Service) QueryAll() ([]Reschedule, error) {
	return svc.repo.QueryAllReschedules()
}

// QueryActive returns the active reschedules matching every set field of filter, in id order.
func (svc *Service) QueryActive(filter QueryFilter) ([]Reschedule, error) {
	all, err := svc.repo.QueryAllReschedules()
	if err != nil {
		return nil, err
	}
	var res []Reschedule
	for _, r := range all {
		if !r.IsActive() {
			continue
		}
		if filter.StudentID != 0 && r.StudentID != filter.StudentID {
			continue
		}
		if !filter.OriginalDate.IsZero() && r.OriginalDate != filter.OriginalDate {
			continue
		}
		if !filter.NewDate.IsZero() && r.NewDate != filter.NewDate {
			continue
		}
		res = append(res, r)
	}
	return res, nil
}

func rescheduleStructValidation(sl validator.StructLevel) {
	if nr, ok := sl.Current().Interface().(NewReschedule); ok {
		if nr.OriginalDate.IsZero() {
			sl.ReportError(nr.OriginalDate, "original_date", "OriginalDate", "required", "")
		}
		if nr.NewDate.IsZero() {
			sl.ReportError(nr.NewDate, "new_date", "NewDate", "required", "")
		}
	}
}
