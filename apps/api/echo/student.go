package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tuition/core/student"
)

func registerStudentAPI(g *echo.Group, api *tuitionAPI) {
	sg := g.Group("/students")
	sg.GET("", api.queryStudents)
	sg.POST("", api.createStudent)
	sg.GET("/:id", api.retrieveStudent)
	sg.DELETE("/:id", api.destroyStudent)
}

func (api *tuitionAPI) queryStudents(ctx echo.Context) error {
	students, err := api.sess.SearchStudents(ctx.QueryParam("search"))
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *tuitionAPI) createStudent(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	std, err := api.sess.AddStudent(ctx.Request().Context(), data)
	return respond(ctx, http.StatusCreated, std, errors.Wrap(err, "creating student"))
}

func (api *tuitionAPI) retrieveStudent(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	std, err := api.sess.GetStudent(id)
	if err != nil {
		return errors.Wrap(err, "getting student")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *tuitionAPI) destroyStudent(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	err = api.sess.DeleteStudent(ctx.Request().Context(), id)
	return respond(ctx, http.StatusNoContent, nil, errors.Wrap(err, "deleting student"))
}
