package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/attendance"
)

type attendanceApi struct {
	svc *attendance.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance", jwt)
	ag.GET("", api.retrieve)
	ag.PUT("", api.save)
	ag.POST("/mark-all", api.markAll)
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	date, err := bindDate(ctx, "date")
	if err != nil {
		return err
	}
	day, err := api.svc.GetDay(ctx.Request().Context(), date)
	if err != nil {
		return errors.Wrap(err, "getting attendance day")
	}
	return ctx.JSON(http.StatusOK, day)
}

func (api *attendanceApi) save(ctx echo.Context) error {
	actor, err := getActor(ctx)
	if err != nil {
		return err
	}
	var data attendance.Marks
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Marks")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	date, snap, err := data.Parsed()
	if err != nil {
		return err
	}

	day, err := api.svc.SaveDay(ctx.Request().Context(), actor, date, snap)
	if err != nil {
		return errors.Wrap(err, "saving attendance day")
	}
	return ctx.JSON(http.StatusOK, day)
}

type MarkAllRequest struct {
	Date string `json:"date"`
}

func (api *attendanceApi) markAll(ctx echo.Context) error {
	var data MarkAllRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAllRequest")
	}
	date := core.Today()
	if val := core.CleanString(data.Date); val != "" {
		var err error
		if date, err = core.ParseDate(val); err != nil {
			return core.NewFieldError("date", errInvalidDate)
		}
	}

	day, err := api.svc.MarkAllPresent(ctx.Request().Context(), date)
	if err != nil {
		return errors.Wrap(err, "marking everyone present")
	}
	return ctx.JSON(http.StatusOK, day)
}
