package attendance

import (
	"sort"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/student"
)

const kind = "attendance"

type (
	Repository interface {
		// ReplaceRecord drops any record of (rec.StudentID, rec.Date) then stores rec.
		ReplaceRecord(rec Record) (Record, error)
		GetRecord(studentID int, date core.Date) (Record, error)
		// QueryRecords returns the records dated within [from, to], in storage order.
		QueryRecords(from, to core.Date) ([]Record, error)
	}

	StudentGetter interface {
		GetByID(id int) (student.Student, error)
	}

	Ledger struct {
		repo     Repository
		students StudentGetter
		v        *core.Validator
	}
)

func NewLedger(repo Repository, students StudentGetter, v *core.Validator) *Ledger {
	v.RegisterStructValidation(markStructValidation, Mark{})
	return &Ledger{repo: repo, students: students, v: v}
}

// SetStatus records status for the student on date, replacing any earlier mark of that day.
func (l *Ledger) SetStatus(studentID int, date core.Date, status Status) (Record, error) {
	m := Mark{StudentID: studentID, Date: date, Status: status}
	m.Clean()
	if err := l.v.Struct(m); err != nil {
		return Record{}, err
	}

	std, err := l.students.GetByID(studentID)
	if err != nil {
		return Record{}, err
	}
	return l.repo.ReplaceRecord(Record{
		StudentID:   std.ID,
		StudentName: std.Name,
		Date:        m.Date,
		Status:      m.Status,
		Timestamp:   core.NowFunc(),
	})
}

// GetStatus returns the recorded status, or Unmarked.
func (l *Ledger) GetStatus(studentID int, date core.Date) Status {
	rec, err := l.repo.GetRecord(studentID, date)
	if err != nil {
		return Unmarked
	}
	return rec.Status
}

// Query returns the records dated within [from, to], newest date first.
func (l *Ledger) Query(from, to core.Date) ([]Record, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}
	recs, err := l.repo.QueryRecords(from, to)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Date.After(recs[j].Date) })
	return recs, nil
}

// Summarize counts present and absent marks within [from, to].
func (l *Ledger) Summarize(from, to core.Date) (Summary, error) {
	recs, err := l.Query(from, to)
	if err != nil {
		return Summary{}, err
	}
	var sum Summary
	for _, rec := range recs {
		switch rec.Status {
		case Present:
			sum.Present++
		case Absent:
			sum.Absent++
		}
	}
	return sum, nil
}

// ErrNotFound builds the error repositories return when no mark exists.
func ErrNotFound(studentID int) error {
	return core.NewNotFoundError(kind, studentID)
}

func validateRange(from, to core.Date) error {
	var flds []core.FieldError
	if from.IsZero() {
		flds = append(flds, core.FieldError{Field: "from", Error: "this field is required"})
	}
	if to.IsZero() {
		flds = append(flds, core.FieldError{Field: "to", Error: "this field is required"})
	}
	if flds == nil && from.After(to) {
		flds = append(flds, core.FieldError{Field: "from", Error: "from must not be after to"})
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

func markStructValidation(sl validator.StructLevel) {
	if m, ok := sl.Current().Interface().(Mark); ok && m.Date.IsZero() {
		sl.ReportError(m.Date, "date", "Date", "required", "")
	}
}
