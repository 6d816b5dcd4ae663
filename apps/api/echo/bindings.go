package echoapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/attendance"
	"github.com/trezcool/tuition/core/session"
)

type tuitionAPI struct {
	sess *session.Session
	loc  *time.Location
}

type (
	AttendanceRequest struct {
		StudentID int               `json:"student_id"`
		Date      core.Date         `json:"date"`
		Status    attendance.Status `json:"status"`
	}

	AttendanceStatusResponse struct {
		StudentID int               `json:"student_id"`
		Date      core.Date         `json:"date"`
		Status    attendance.Status `json:"status"`
	}

	AttendanceReportResponse struct {
		From    core.Date           `json:"from"`
		To      core.Date           `json:"to"`
		Records []attendance.Record `json:"records"`
		Summary attendance.Summary  `json:"summary"`
	}

	PaymentRequest struct {
		StudentID int `json:"student_id"`
		Month     int `json:"month"`
		Year      int `json:"year"`
	}
)

func invalidParam(name, msg string) error {
	return core.NewValidationError(nil, core.FieldError{Field: name, Error: msg})
}

func (api *tuitionAPI) today() core.Date {
	return core.Today(api.loc)
}

// queryDate reads an ISO date query param, defaulting to def when absent.
func queryDate(ctx echo.Context, name string, def core.Date) (core.Date, error) {
	s := strings.TrimSpace(ctx.QueryParam(name))
	if s == "" {
		return def, nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, invalidParam(name, err.Error())
	}
	return d, nil
}

// queryInt reads an integer query param, defaulting to def when absent.
func queryInt(ctx echo.Context, name string, def int) (int, error) {
	s := strings.TrimSpace(ctx.QueryParam(name))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalidParam(name, name+" must be a number")
	}
	return n, nil
}

func paramID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, invalidParam("id", "id must be a number")
	}
	return id, nil
}

// queryPeriod reads month and year, defaulting to the current period.
func (api *tuitionAPI) queryPeriod(ctx echo.Context) (core.Period, error) {
	p := core.PeriodOf(api.today())
	var err error
	if p.Month, err = queryInt(ctx, "month", p.Month); err != nil {
		return core.Period{}, err
	}
	if p.Year, err = queryInt(ctx, "year", p.Year); err != nil {
		return core.Period{}, err
	}
	return p, nil
}
