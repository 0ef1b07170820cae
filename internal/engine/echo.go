package engine

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/angeloszaimis/dockerlabs/internal/hostinfo"
)

type echoRoutes struct {
	logger    *slog.Logger
	responder *hostinfo.Responder
}

func newEcho(responder *hostinfo.Responder, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	routes := &echoRoutes{
		logger:    logger,
		responder: responder,
	}

	e.GET("/", routes.root)
	e.GET("/health", routes.health)

	return e
}

// root leaves failures to echo's default error handler, which answers a
// generic 500.
func (r *echoRoutes) root(c echo.Context) error {
	body, err := r.responder.Root()
	if err != nil {
		r.logger.Error("Failed to resolve hostname",
			slog.String("path", c.Path()),
			slog.Any("err", err))
		return err
	}

	return c.String(http.StatusOK, body)
}

func (r *echoRoutes) health(c echo.Context) error {
	return c.JSON(http.StatusOK, hostinfo.Healthy())
}
