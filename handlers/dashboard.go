package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"student_dashboard_go/models"
	"student_dashboard_go/services/dashboard"
	"student_dashboard_go/services/export"
	"student_dashboard_go/services/i18n"
	"student_dashboard_go/services/notify"
	"student_dashboard_go/services/refresh"
	"student_dashboard_go/templates/pages"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// ConnectionState reports whether the live channel is up
type ConnectionState interface {
	Connected() bool
}

var counterLabels = map[string]string{
	models.AnchorTotalStudents:  "page.total_students",
	models.AnchorTotalSubjects:  "page.total_subjects",
	models.AnchorAttendanceRate: "page.attendance_rate",
	models.AnchorAverageGPA:     "page.average_gpa",
}

// DashboardHandler serves the preview of the dashboard client state
type DashboardHandler struct {
	dashboard *dashboard.Dashboard
	presenter *notify.Presenter
	live      ConnectionState
	policy    *bluemonday.Policy
	logger    *zap.Logger
}

func NewDashboardHandler(d *dashboard.Dashboard, presenter *notify.Presenter, live ConnectionState, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: d,
		presenter: presenter,
		live:      live,
		policy:    bluemonday.StrictPolicy(),
		logger:    logger.Named("handlers"),
	}
}

func render(c echo.Context, component templ.Component) error {
	return component.Render(c.Request().Context(), c.Response().Writer)
}

// DashboardPageHandler renders GET /dashboard
func (h *DashboardHandler) DashboardPageHandler(c echo.Context) error {
	view := h.view(c)
	view.PollEvery = 5 * time.Second

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return render(c, pages.Dashboard(view))
}

// SnapshotHandler returns the page state as JSON, polled by the page
func (h *DashboardHandler) SnapshotHandler(c echo.Context) error {
	snapshot, _ := h.dashboard.Snapshot()
	return c.JSON(http.StatusOK, struct {
		pages.DashboardView
		Snapshot *models.DashboardSnapshot `json:"snapshot"`
	}{h.view(c), snapshot})
}

// ChartImageHandler serves the PNG of a rendered chart
func (h *DashboardHandler) ChartImageHandler(c echo.Context) error {
	slot := models.Slot(c.Param("slot"))
	if !slot.IsValid() {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown chart")
	}

	chart := h.dashboard.Registry().Chart(slot)
	if chart == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Chart not rendered yet")
	}
	image := chart.Image()
	if len(image) == 0 {
		return c.NoContent(http.StatusNoContent)
	}

	c.Response().Header().Set("Cache-Control", "no-store")
	c.Response().Header().Set("ETag", `"`+chart.ID()+`"`)
	return c.Blob(http.StatusOK, "image/png", image)
}

// GetNotificationsHandler lists the visible notifications
func (h *DashboardHandler) GetNotificationsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, h.notifications())
}

// DismissNotificationHandler removes a notification on user request
func (h *DashboardHandler) DismissNotificationHandler(c echo.Context) error {
	if !h.presenter.Dismiss(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// RefreshHandler requests a refresh. With ?chart=<slot> only charts are refreshed.
func (h *DashboardHandler) RefreshHandler(c echo.Context) error {
	ctx := c.Request().Context()
	scope := refresh.ScopeAll
	message := i18n.T(ctx, "dashboard.refreshing")
	if chart := c.QueryParam("chart"); chart != "" {
		slot := models.Slot(chart)
		if !slot.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown chart")
		}
		h.logger.Info("Refreshing chart", zap.String("chart", chart))
		scope = refresh.ScopeCharts
		message = i18n.T(ctx, "dashboard.refreshing_chart", map[string]interface{}{
			"chart": i18n.T(ctx, "chart."+string(slot)),
		})
	}
	h.presenter.Notify(message, models.SeverityInfo)

	// detached from the request, the run outlives it
	h.dashboard.RequestRefresh(context.WithoutCancel(ctx), scope)

	if c.Request().Header.Get(echo.HeaderAccept) == echo.MIMEApplicationJSON {
		return c.JSON(http.StatusAccepted, map[string]string{"scope": scope.String()})
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// ExportHandler downloads the last snapshot as a workbook
func (h *DashboardHandler) ExportHandler(c echo.Context) error {
	snapshot, updated := h.dashboard.Snapshot()
	buf, err := export.GenerateSnapshotWorkbook(snapshot, updated)
	if errors.Is(err, export.ErrNoSnapshot) {
		return echo.NewHTTPError(http.StatusNotFound, i18n.T(c.Request().Context(), "page.never"))
	}
	if err != nil {
		h.logger.Error("Error generating export", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Error generating export")
	}

	filename := "dashboard_" + updated.Format("20060102_150405") + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}

func (h *DashboardHandler) view(c echo.Context) pages.DashboardView {
	ctx := c.Request().Context()
	p := h.dashboard.Page()
	_, updated := h.dashboard.Snapshot()

	view := pages.DashboardView{
		Notifications: h.notifications(),
		Connected:     h.live != nil && h.live.Connected(),
		UpdatedAt:     updated,
	}

	for _, anchor := range models.CounterAnchors {
		counter := p.Counter(anchor)
		if counter == nil {
			continue
		}
		view.Counters = append(view.Counters, pages.CounterView{
			ID:    anchor,
			Label: i18n.T(ctx, counterLabels[anchor]),
			Text:  counter.Text(),
		})
	}

	for _, slot := range models.Slots {
		if p.Canvas(slot.Anchor()) == nil {
			continue
		}
		cv := pages.ChartView{
			Slot:   string(slot),
			Anchor: slot.Anchor(),
			Title:  i18n.T(ctx, "chart."+string(slot)),
		}
		if chart := h.dashboard.Registry().Chart(slot); chart != nil && len(chart.Image()) > 0 {
			cv.Version = chart.ID()
			cv.Rendered = true
		}
		view.Charts = append(view.Charts, cv)
	}

	return view
}

func (h *DashboardHandler) notifications() []pages.NotificationView {
	visible := h.presenter.Visible()
	out := make([]pages.NotificationView, 0, len(visible))
	for _, n := range visible {
		out = append(out, pages.NotificationView{
			ID:       n.ID,
			Message:  h.policy.Sanitize(n.Message),
			Severity: string(n.Severity),
			Icon:     n.Severity.Icon(),
		})
	}
	return out
}
