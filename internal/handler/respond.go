package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/skywayair/skyway-web/internal/models"
)

func respondError(c echo.Context, code int, kind, message string) error {
	return c.JSON(code, models.ErrorResponse{
		Error:   kind,
		Message: message,
		Code:    code,
	})
}
