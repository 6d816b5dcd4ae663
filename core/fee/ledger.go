// Package fee keeps the monthly fee ledger: who paid for which period and how much was collected.
package fee

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/student"
)

type (
	StudentStore interface {
		QueryAll() ([]student.Student, error)
		GetByID(id int) (student.Student, error)
		Search(term string) ([]student.Student, error)
		AddPayment(id int, pmt student.Payment) (student.Student, error)
	}

	Ledger struct {
		students StudentStore
	}

	// Totals aggregates the current monthly fees of all students for a period.
	Totals struct {
		Period   core.Period     `json:"period"`
		Expected decimal.Decimal `json:"expected"`
		Received decimal.Decimal `json:"received"`
		Pending  decimal.Decimal `json:"pending"`
	}

	Status struct {
		Student student.Student `json:"student"`
		Paid    bool            `json:"paid"`
	}

	ReportRow struct {
		StudentID   int             `json:"student_id"`
		StudentName string          `json:"student_name"`
		Month       string          `json:"month"`
		Year        int             `json:"year"`
		Amount      decimal.Decimal `json:"amount"`
		Date        time.Time       `json:"date"`
	}

	Report struct {
		Rows []ReportRow `json:"rows"`
		// Total sums every stored payment, duplicates included.
		Total decimal.Decimal `json:"total"`
	}
)

func NewLedger(students StudentStore) *Ledger {
	return &Ledger{students: students}
}

// IsPaid reports whether std has at least one payment for p.
func (l *Ledger) IsPaid(std student.Student, p core.Period) bool {
	return std.HasPaid(p)
}

// MarkPaid appends a payment of the student's current fee for p.
// Paying twice for the same period records two payments.
func (l *Ledger) MarkPaid(studentID int, p core.Period) (student.Student, error) {
	if err := p.Validate(); err != nil {
		return student.Student{}, err
	}
	std, err := l.students.GetByID(studentID)
	if err != nil {
		return student.Student{}, err
	}
	return l.students.AddPayment(std.ID, student.Payment{
		Month:  p.Month,
		Year:   p.Year,
		Date:   core.NowFunc(),
		Amount: std.MonthlyFee,
	})
}

// Totals computes expected, received and pending amounts for p.
// Received sums the current fee of each paid student, not the stored payment amounts.
func (l *Ledger) Totals(p core.Period) (Totals, error) {
	if err := p.Validate(); err != nil {
		return Totals{}, err
	}
	students, err := l.students.QueryAll()
	if err != nil {
		return Totals{}, err
	}

	t := Totals{Period: p, Expected: decimal.Zero, Received: decimal.Zero}
	for _, std := range students {
		t.Expected = t.Expected.Add(std.MonthlyFee)
		if l.IsPaid(std, p) {
			t.Received = t.Received.Add(std.MonthlyFee)
		}
	}
	t.Pending = t.Expected.Sub(t.Received)
	return t, nil
}

// Statuses lists the payment status for p of the students whose name matches search.
func (l *Ledger) Statuses(p core.Period, search string) ([]Status, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	students, err := l.students.Search(search)
	if err != nil {
		return nil, err
	}
	statuses := make([]Status, 0, len(students))
	for _, std := range students {
		statuses = append(statuses, Status{Student: std, Paid: l.IsPaid(std, p)})
	}
	return statuses, nil
}

// Report lists every stored payment, grouped by student.
func (l *Ledger) Report() (Report, error) {
	students, err := l.students.QueryAll()
	if err != nil {
		return Report{}, err
	}
	rep := Report{Rows: make([]ReportRow, 0), Total: decimal.Zero}
	for _, std := range students {
		for _, pmt := range std.FeesPaid {
			rep.Rows = append(rep.Rows, ReportRow{
				StudentID:   std.ID,
				StudentName: std.Name,
				Month:       monthName(pmt.Month),
				Year:        pmt.Year,
				Amount:      pmt.Amount,
				Date:        pmt.Date,
			})
			rep.Total = rep.Total.Add(pmt.Amount)
		}
	}
	return rep, nil
}

func monthName(m int) string {
	if m < 1 || m > 12 {
		return "?"
	}
	return time.Month(m).String()
}
