package http

import (
	"context"
	"net/http"

	"github.com/jmehdipour/jokecast/internal/http/middleware"
	"github.com/jmehdipour/jokecast/internal/metrics"
	"github.com/jmehdipour/jokecast/internal/util"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the collaborators the handlers call into.
type Deps struct {
	Registry       Registry
	Sender         Sender
	Broadcaster    Broadcaster
	Reports        BroadcastReports // optional
	Messages       MessageLister    // optional
	DefaultCountry string
	Log            *zap.Logger
}

type Server struct {
	e   *echo.Echo
	log *zap.Logger
}

func NewServer(d Deps) *Server {
	lg := d.Log
	if lg == nil {
		lg = zap.NewNop()
	}

	// echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.WARN)
	e.Use(
		echoMid.Recover(),
		echoMid.RequestIDWithConfig(echoMid.RequestIDConfig{Generator: util.New}),
		middleware.AllowAnyOrigin(),
		middleware.ZapRequestLogger(lg),
	)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	// routes
	v1 := e.Group("/v1")
	v1.POST("/users", addUserHandler(d.Registry, lg))
	v1.POST("/templates", addTemplateHandler(d.Registry, lg))
	v1.POST("/sms/send", sendSMSHandler(d.Sender, lg))
	v1.POST("/broadcasts", triggerBroadcastHandler(d.Broadcaster, lg))
	if d.Reports != nil {
		v1.GET("/broadcasts/:id", getBroadcastHandler(d.Reports, lg))
	}
	if d.Messages != nil {
		v1.GET("/reports/messages", listMessagesHandler(d.Messages, d.DefaultCountry, lg))
	}

	return &Server{e: e, log: lg}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.e.ServeHTTP(w, r) }

func (s *Server) Start(addr string) error {
	s.log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
