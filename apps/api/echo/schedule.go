package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/reschedule"
	"github.com/trezcool/tuition/core/schedule"
)

func registerScheduleAPI(g *echo.Group, api *tuitionAPI) {
	g.GET("/schedule", api.querySchedule)

	rg := g.Group("/reschedules")
	rg.GET("", api.queryReschedules)
	rg.POST("", api.createReschedule)
}

// querySchedule resolves ?day=WEEKDAY (regular classes) or ?date=DATE (defaults to today).
func (api *tuitionAPI) querySchedule(ctx echo.Context) error {
	var (
		entries []schedule.Entry
		err     error
	)
	if day := strings.TrimSpace(ctx.QueryParam("day")); day != "" {
		wd, err := core.ParseWeekday(day)
		if err != nil {
			return invalidParam("day", err.Error())
		}
		if entries, err = api.sess.ScheduleForWeekday(wd); err != nil {
			return errors.Wrap(err, "resolving weekday schedule")
		}
		return ctx.JSON(http.StatusOK, entries)
	}

	date, err := queryDate(ctx, "date", api.today())
	if err != nil {
		return err
	}
	if entries, err = api.sess.ScheduleForDate(date); err != nil {
		return errors.Wrap(err, "resolving schedule")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *tuitionAPI) queryReschedules(ctx echo.Context) error {
	var (
		filter reschedule.QueryFilter
		err    error
	)
	if filter.StudentID, err = queryInt(ctx, "student", 0); err != nil {
		return err
	}
	if filter.NewDate, err = queryDate(ctx, "date", core.Date{}); err != nil {
		return err
	}
	list, err := api.sess.Reschedules(filter)
	if err != nil {
		return errors.Wrap(err, "querying reschedules")
	}
	if list == nil {
		list = []reschedule.Reschedule{}
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *tuitionAPI) createReschedule(ctx echo.Context) error {
	var data reschedule.NewReschedule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReschedule")
	}
	res, err := api.sess.CreateReschedule(ctx.Request().Context(), data)
	return respond(ctx, http.StatusCreated, res, errors.Wrap(err, "creating reschedule"))
}

func (api *tuitionAPI) dashboard(ctx echo.Context) error {
	date, err := queryDate(ctx, "date", api.today())
	if err != nil {
		return err
	}
	dash, err := api.sess.Dashboard(date)
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}
