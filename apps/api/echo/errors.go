package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/divyang/core"
	"github.com/trezcool/divyang/core/beneficiary"
	"github.com/trezcool/divyang/core/document"
	"github.com/trezcool/divyang/core/report"
	"github.com/trezcool/divyang/core/user"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "invalid credentials")
	errAccountDeactivated   = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired       = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")

	errInvalidDate = errors.New("date must be a valid date (YYYY-MM-DD)")
)

// notFoundErrs are answered with a 404 and their own message.
var notFoundErrs = []error{
	user.ErrNotFound,
	beneficiary.ErrNotFound,
	document.ErrNotFound,
	core.ErrBlobNotFound,
	report.ErrNoData,
	report.ErrUnknownKind,
}

func isNotFound(err error) bool {
	for _, nf := range notFoundErrs {
		if err == nf {
			return true
		}
	}
	return false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		body := echo.Map{}
		cause := errors.Cause(err)

		if verr, ok := core.AsValidationError(err); ok {
			code = http.StatusBadRequest
			body["error"] = verr.Error()
			if len(verr.Fields) > 0 {
				body["error"] = verr.Fields[0].Error
				body["fields"] = verr.FieldsMap()
			}
		} else if herr, ok := cause.(*echo.HTTPError); ok {
			if herr == middleware.ErrJWTMissing {
				herr = echo.NewHTTPError(http.StatusUnauthorized, herr.Message)
			} else if internal, ok := herr.Internal.(*echo.HTTPError); ok {
				herr = internal
			}
			code = herr.Code
			body["error"] = herr.Message
		} else if cause == core.ErrNoActor {
			code = http.StatusUnauthorized
			body["error"] = cause.Error()
		} else if isNotFound(cause) {
			code = http.StatusNotFound
			body["error"] = cause.Error()
		} else { // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			body["error"] = msg

			actor, _ := getActor(ctx)
			logger.Error(msg, errors.Wrap(err, msg), actor)

			if ctx.Echo().Debug {
				body["error"] = err.Error()
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
