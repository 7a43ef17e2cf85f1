package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/divyang/core"
)

// adminMiddleware lets through admins holding any of roles, or any admin when roles is empty.
func adminMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin && (len(roles) == 0 || hasAnyRole(claims.Roles, roles)) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func hasAnyRole(have, want []string) bool {
	for _, role := range want {
		if core.StringInSlice(role, have) {
			return true
		}
	}
	return false
}
