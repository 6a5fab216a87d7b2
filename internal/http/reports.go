package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/jmehdipour/jokecast/internal/model"
	"github.com/jmehdipour/jokecast/internal/util"
	echo "github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type MessageLister interface {
	List(ctx context.Context, phone string, status model.MessageStatus, limit, offset int) ([]model.MessageLog, error)
}

func listMessagesHandler(lister MessageLister, defaultCountry string, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit := 50
		offset := 0
		if v := c.QueryParam("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				limit = n
			}
		}
		if v := c.QueryParam("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				offset = n
			}
		}

		var st model.MessageStatus
		if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
			tmp := model.MessageStatus(raw)
			if tmp.Valid() {
				st = tmp
			}
		}

		phone := ""
		if raw := strings.TrimSpace(c.QueryParam("phone")); raw != "" {
			p, err := util.NormalizePhone(raw, defaultCountry)
			if err != nil {
				return fail(c, http.StatusBadRequest, err.Error())
			}
			phone = p.E164
		}

		msgs, err := lister.List(c.Request().Context(), phone, st, limit, offset)
		if err != nil {
			log.Error("clickhouse list failed", zap.Error(err))
			return fail(c, http.StatusInternalServerError, "query failed")
		}

		return c.JSON(http.StatusOK, map[string]any{
			"limit":   limit,
			"offset":  offset,
			"count":   len(msgs),
			"results": msgs,
		})
	}
}
