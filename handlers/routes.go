package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the preview endpoints. refreshLimit guards the
// manual refresh endpoint.
func RegisterRoutes(e *echo.Echo, h *DashboardHandler, refreshLimit echo.MiddlewareFunc) {
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/dashboard")
	})
	e.GET("/dashboard", h.DashboardPageHandler)
	e.GET("/charts/:slot", h.ChartImageHandler)
	e.GET("/export/dashboard", h.ExportHandler)

	api := e.Group("/api")
	{
		api.GET("/snapshot", h.SnapshotHandler)
		api.GET("/notifications", h.GetNotificationsHandler)
		api.POST("/notifications/:id/dismiss", h.DismissNotificationHandler)
		api.POST("/refresh", h.RefreshHandler, refreshLimit)
	}
}
