package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/divyang/core"
)

const orderingParam = "ordering"

// bindOrdering reads ?ordering=a,-b
func bindOrdering(ctx echo.Context) []core.DBOrdering {
	return core.ParseOrdering(ctx.QueryParam(orderingParam))
}

// bindDate reads the date query param, defaulting to today.
func bindDate(ctx echo.Context, param string) (core.Date, error) {
	val := core.CleanString(ctx.QueryParam(param))
	if val == "" {
		return core.Today(), nil
	}
	date, err := core.ParseDate(val)
	if err != nil {
		return core.Date{}, core.NewFieldError(param, errInvalidDate)
	}
	return date, nil
}

type (
	SuccessResponse struct {
		Success string `json:"success"`
	}

	URLResponse struct {
		URL string `json:"url"`
	}
)
