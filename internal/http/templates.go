package http

import (
	"errors"
	"net/http"

	"github.com/jmehdipour/jokecast/internal/service/registry"
	echo "github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type addTemplateReq struct {
	Topic    string `json:"topic"`
	Template string `json:"template"`
}

func addTemplateHandler(reg Registry, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req addTemplateReq
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "bad request")
		}

		tpl, err := reg.AddTemplate(c.Request().Context(), req.Topic, req.Template)
		if err != nil {
			if errors.Is(err, registry.ErrEmptyTemplate) || errors.Is(err, registry.ErrUnknownPlaceholder) {
				return fail(c, http.StatusBadRequest, err.Error())
			}
			log.Error("add template failed", zap.String("topic", req.Topic), zap.Error(err))
			return fail(c, http.StatusInternalServerError, err.Error())
		}

		return c.JSON(http.StatusCreated, map[string]string{
			"Topic":      tpl.Topic,
			"TemplateId": tpl.TemplateID,
			"Template":   tpl.Body,
		})
	}
}
