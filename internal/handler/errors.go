package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/health-tracker/internal/middleware"
	"github.com/iliyamo/health-tracker/internal/service"
)

var statusByKind = map[service.Kind]int{
	service.KindValidation: http.StatusBadRequest,
	service.KindConflict:   http.StatusConflict,
	service.KindAuth:       http.StatusUnauthorized,
	service.KindNotFound:   http.StatusNotFound,
}

// writeError maps a service error to its status.  Anything else is a store
// failure: it is logged with the request id and the client gets a generic
// 500.
func writeError(c echo.Context, log zerolog.Logger, err error) error {
	if se, ok := service.AsError(err); ok {
		if code, ok := statusByKind[se.Kind]; ok {
			return c.JSON(code, echo.Map{"error": se.Message})
		}
	}
	log.Error().Err(err).
		Str("request_id", middleware.RequestIDFrom(c)).
		Str("method", c.Request().Method).
		Str("route", c.Path()).
		Msg("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}
