package http

import (
	echo "github.com/labstack/echo/v4"
)

// errorResponse is the failure envelope of every endpoint; Reference is the request id.
type errorResponse struct {
	Error     string `json:"Error"`
	Reference string `json:"Reference"`
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorResponse{
		Error:     msg,
		Reference: c.Response().Header().Get(echo.HeaderXRequestID),
	})
}
