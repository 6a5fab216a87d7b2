package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/jmehdipour/jokecast/internal/model"
	"github.com/jmehdipour/jokecast/internal/service/registry"
	echo "github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Registry interface {
	AddUser(ctx context.Context, username, rawPhone string) (model.User, error)
	AddTemplate(ctx context.Context, topic, body string) (model.Template, error)
}

type addUserReq struct {
	Username    string `json:"username"`
	PhoneNumber string `json:"phoneNumber"`
}

func addUserHandler(reg Registry, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req addUserReq
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "bad request")
		}

		u, err := reg.AddUser(c.Request().Context(), req.Username, req.PhoneNumber)
		if err != nil {
			if errors.Is(err, registry.ErrInvalidUser) {
				return fail(c, http.StatusBadRequest, err.Error())
			}
			log.Error("add user failed", zap.String("phone", req.PhoneNumber), zap.Error(err))
			return fail(c, http.StatusInternalServerError, err.Error())
		}

		return c.JSON(http.StatusCreated, map[string]string{
			"Username":    u.Username,
			"PhoneNumber": u.PhoneNumber,
			"CountryCode": u.CountryCode,
		})
	}
}
