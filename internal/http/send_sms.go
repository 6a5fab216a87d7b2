package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/jmehdipour/jokecast/internal/model"
	"github.com/jmehdipour/jokecast/internal/service/sender"
	echo "github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Sender interface {
	Send(ctx context.Context, req model.SendRequest) (model.Receipt, error)
}

type sendReq struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

func sendSMSHandler(snd Sender, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req sendReq
		if err := c.Bind(&req); err != nil {
			return fail(c, http.StatusBadRequest, "bad request")
		}

		rc, err := snd.Send(c.Request().Context(), model.SendRequest{To: req.To, Message: req.Message})
		if err != nil {
			if errors.Is(err, sender.ErrInvalidMessage) {
				return fail(c, http.StatusBadRequest, err.Error())
			}
			log.Error("send text failed", zap.String("to", req.To), zap.Error(err))
			return fail(c, http.StatusInternalServerError, err.Error())
		}

		return c.JSON(http.StatusOK, map[string]any{
			"message": "Text message successfully sent!",
			"data":    rc,
		})
	}
}
