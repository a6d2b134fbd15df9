package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the load-balancer probe.  Plain text, no envelope.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Root answers the bare domain so a browser hitting the API base sees the
// service is alive.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Auditorium booking API is running",
	})
}
