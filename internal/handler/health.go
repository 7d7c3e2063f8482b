package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health responds with a basic liveness payload for load balancers.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
