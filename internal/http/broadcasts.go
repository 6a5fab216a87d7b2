package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/jmehdipour/jokecast/internal/model"
	echo "github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Broadcaster interface {
	Run(ctx context.Context) (model.BroadcastReport, error)
}

type BroadcastReports interface {
	Get(ctx context.Context, id string) (*model.BroadcastReport, error)
}

func triggerBroadcastHandler(b Broadcaster, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		rep, err := b.Run(c.Request().Context())
		if err != nil {
			log.Error("broadcast failed", zap.String("broadcast_id", rep.ID), zap.Error(err))
			return fail(c, http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, rep)
	}
}

func getBroadcastHandler(reports BroadcastReports, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := strings.TrimSpace(c.Param("id"))
		if id == "" {
			return fail(c, http.StatusBadRequest, "missing id")
		}

		rep, err := reports.Get(c.Request().Context(), id)
		if err != nil {
			log.Error("load broadcast report failed", zap.String("broadcast_id", id), zap.Error(err))
			return fail(c, http.StatusInternalServerError, "report lookup failed")
		}
		if rep == nil {
			return fail(c, http.StatusNotFound, "broadcast not found")
		}
		return c.JSON(http.StatusOK, rep)
	}
}
