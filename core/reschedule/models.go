package reschedule

import (
	"time"

	"github.com/trezcool/tuition/core"
)

type Status string

// Active is the only status a reschedule can currently hold.
const Active Status = "active"

// Reschedule moves one class of a student from OriginalDate to NewDate.
type Reschedule struct {
	ID           int       `json:"id"`
	StudentID    int       `json:"student_id"`
	StudentName  string    `json:"student_name"`
	OriginalDate core.Date `json:"original_date"`
	NewDate      core.Date `json:"new_date"`
	NewTime      string    `json:"new_time"`
	Reason       string    `json:"reason"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r Reschedule) IsActive() bool { return r.Status == Active }

// NewReschedule contains information needed to create a new Reschedule.
type NewReschedule struct {
	StudentID    int       `json:"student_id" validate:"required,gt=0"`
	OriginalDate core.Date `json:"original_date"`
	NewDate      core.Date `json:"new_date"`
	NewTime      string    `json:"new_time"` // defaults to the regular slot of OriginalDate's weekday
	Reason       string    `json:"reason"`
}

func (nr *NewReschedule) Clean() {
	nr.NewTime = core.CleanString(nr.NewTime)
	nr.Reason = core.CleanString(nr.Reason)
}

// QueryFilter selects active reschedules; zero fields are ignored.
type QueryFilter struct {
	StudentID    int
	OriginalDate core.Date
	NewDate      core.Date
}
