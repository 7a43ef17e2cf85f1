package echoapi

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/divyang/core/report"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type reportApi struct {
	svc *report.Service
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *report.Service) {
	api := reportApi{svc: svc}

	rg := g.Group("/reports", jwt)
	rg.GET("/:type", api.export)
}

func (api *reportApi) export(ctx echo.Context) error {
	kind := report.Kind(ctx.Param("type"))
	format := ctx.QueryParam("format")
	if format == "" {
		format = report.FormatCSV
	}
	if format != report.FormatCSV && format != report.FormatXLSX {
		return echo.NewHTTPError(http.StatusBadRequest, "format must be one of csv, xlsx")
	}

	table, err := api.svc.Build(ctx.Request().Context(), kind)
	if err != nil {
		return errors.Wrap(err, "building report")
	}

	buf := new(bytes.Buffer)
	contentType := "text/csv; charset=utf-8"
	if format == report.FormatXLSX {
		contentType = mimeXLSX
		err = report.WriteXLSX(buf, string(kind), table)
	} else {
		err = report.WriteCSV(buf, table)
	}
	if err != nil {
		return errors.Wrap(err, "writing report")
	}

	fileName := report.FileName(kind, format, time.Now().UTC())
	ctx.Response().Header().Set(echo.HeaderContentDisposition, attachment(fileName))
	return ctx.Blob(http.StatusOK, contentType, buf.Bytes())
}
