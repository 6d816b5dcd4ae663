package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/tuition/core"
	"github.com/trezcool/tuition/core/fee"
)

type FeeStatusResponse struct {
	Totals   fee.Totals   `json:"totals"`
	Students []fee.Status `json:"students"`
}

func registerFeeAPI(g *echo.Group, api *tuitionAPI) {
	fg := g.Group("/fees")
	fg.GET("", api.queryFees)
	fg.POST("/pay", api.payFee)
	fg.GET("/report", api.feeReport)
}

func (api *tuitionAPI) queryFees(ctx echo.Context) error {
	p, err := api.queryPeriod(ctx)
	if err != nil {
		return err
	}
	totals, err := api.sess.FeeTotals(p)
	if err != nil {
		return errors.Wrap(err, "computing fee totals")
	}
	statuses, err := api.sess.FeeStatuses(p, ctx.QueryParam("search"))
	if err != nil {
		return errors.Wrap(err, "querying fee statuses")
	}
	return ctx.JSON(http.StatusOK, FeeStatusResponse{Totals: totals, Students: statuses})
}

func (api *tuitionAPI) payFee(ctx echo.Context) error {
	var data PaymentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PaymentRequest")
	}
	std, err := api.sess.MarkPaid(ctx.Request().Context(), data.StudentID, core.Period{Month: data.Month, Year: data.Year})
	return respond(ctx, http.StatusCreated, std, errors.Wrap(err, "marking fee paid"))
}

func (api *tuitionAPI) feeReport(ctx echo.Context) error {
	rep, err := api.sess.FeeReport()
	if err != nil {
		return errors.Wrap(err, "building fee report")
	}
	return ctx.JSON(http.StatusOK, rep)
}
