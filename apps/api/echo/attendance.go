package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tuition/core"
)

func registerAttendanceAPI(g *echo.Group, api *tuitionAPI) {
	ag := g.Group("/attendance")
	ag.GET("", api.retrieveAttendance)
	ag.PUT("", api.setAttendance)
	ag.GET("/report", api.attendanceReport)
}

func (api *tuitionAPI) setAttendance(ctx echo.Context) error {
	var data AttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AttendanceRequest")
	}
	rec, err := api.sess.SetAttendance(ctx.Request().Context(), data.StudentID, data.Date, data.Status)
	return respond(ctx, http.StatusOK, rec, errors.Wrap(err, "setting attendance"))
}

// retrieveAttendance reports the status of ?student=ID on ?date=DATE, "unmarked" when not recorded.
func (api *tuitionAPI) retrieveAttendance(ctx echo.Context) error {
	id, err := queryInt(ctx, "student", 0)
	if err != nil {
		return err
	}
	if id <= 0 {
		return invalidParam("student", "this field is required")
	}
	date, err := queryDate(ctx, "date", api.today())
	if err != nil {
		return err
	}
	if _, err = api.sess.GetStudent(id); err != nil {
		return errors.Wrap(err, "getting student")
	}
	return ctx.JSON(http.StatusOK, AttendanceStatusResponse{
		StudentID: id,
		Date:      date,
		Status:    api.sess.AttendanceStatus(id, date),
	})
}

func (api *tuitionAPI) attendanceReport(ctx echo.Context) error {
	today := api.today()
	from, err := queryDate(ctx, "from", core.NewDate(today.Year, today.Month, 1))
	if err != nil {
		return err
	}
	to, err := queryDate(ctx, "to", today)
	if err != nil {
		return err
	}
	recs, sum, err := api.sess.AttendanceReport(from, to)
	if err != nil {
		return errors.Wrap(err, "building attendance report")
	}
	return ctx.JSON(http.StatusOK, AttendanceReportResponse{From: from, To: to, Records: recs, Summary: sum})
}
