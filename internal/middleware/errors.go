package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPErrorHandler is the global fallback for errors no handler mapped
// itself.  Echo's own HTTPErrors keep their status code; anything else
// becomes a 500 envelope carrying the message and the concrete Go type of
// the fault, which is what operators grep the logs for.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if he, ok := err.(*echo.HTTPError); ok {
		_ = c.JSON(he.Code, echo.Map{
			"status":  "failed",
			"message": fmt.Sprint(he.Message),
		})
		return
	}
	c.Logger().Error(err)
	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"status":  "error",
		"message": err.Error(),
		"type":    fmt.Sprintf("%T", err),
	})
}
