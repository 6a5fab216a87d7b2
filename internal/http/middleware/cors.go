package middleware

import (
	echo "github.com/labstack/echo/v4"
)

// AllowAnyOrigin sets Access-Control-Allow-Origin: * on every response,
// including requests that carry no Origin header.
func AllowAnyOrigin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
			return next(c)
		}
	}
}
