package attendance

import (
	"time"

	"github.com/trezcool/tuition/core"
)

type Status string

const (
	Present  Status = "present"
	Absent   Status = "absent"
	Unmarked Status = "unmarked" // never stored
)

// ParseStatus accepts "present"/"p" and "absent"/"a", case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch core.CleanString(s, true /* lower */) {
	case "present", "p":
		return Present, nil
	case "absent", "a":
		return Absent, nil
	}
	return "", core.NewValidationError(nil, core.FieldError{Field: "status", Error: "status must be one of present absent"})
}

// Record is the single attendance mark of a student on a date.
type Record struct {
	StudentID   int       `json:"student_id"`
	StudentName string    `json:"student_name"`
	Date        core.Date `json:"date"`
	Status      Status    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// Mark contains information needed to set a student's status on a date.
type Mark struct {
	StudentID int       `json:"student_id" validate:"required,gt=0"`
	Date      core.Date `json:"date"`
	Status    Status    `json:"status" validate:"required,oneof=present absent"`
}

func (m *Mark) Clean() {
	m.Status = Status(core.CleanString(string(m.Status), true /* lower */))
}

// Summary counts the marks over a date range.
type Summary struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
}

func (s Summary) Total() int { return s.Present + s.Absent }
