package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kwanza/kocha/core"
	"github.com/kwanza/kocha/core/report"
)

type reportApi struct {
	svc *report.Service
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *report.Service) {
	api := reportApi{svc: svc}

	rg := g.Group("/reports", jwt, staffMiddleware())
	rg.GET("/attendance", api.weeklyAttendance)
}

func (api *reportApi) weeklyAttendance(ctx echo.Context) error {
	year, err := strconv.Atoi(ctx.QueryParam("year"))
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "year", Error: "invalid year"})
	}
	week, err := strconv.Atoi(ctx.QueryParam("week"))
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "week", Error: "invalid week"})
	}

	rep, err := api.svc.Weekly(ctx.QueryParam("class_id"), year, week)
	if err != nil {
		if _, ok := errors.Cause(err).(*core.ValidationError); ok {
			return err
		}
		return errors.Wrap(err, "building weekly report")
	}
	return ctx.JSON(http.StatusOK, rep)
}
