package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"student_dashboard_go/models"
	"student_dashboard_go/services/charts"
	"student_dashboard_go/services/dashboard"
	"student_dashboard_go/services/i18n"
	"student_dashboard_go/services/notify"
	"student_dashboard_go/services/page"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticFetcher struct {
	snapshot *models.DashboardSnapshot
	err      error
}

func (f *staticFetcher) FetchDashboardStats(ctx context.Context) (*models.DashboardSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	copied := *f.snapshot
	return &copied, nil
}

func (f *staticFetcher) FetchAttendanceTrend(ctx context.Context, days int) ([]models.AttendancePoint, error) {
	return []models.AttendancePoint{{Date: "2026-10-18", Rate: 94}}, nil
}

type pngPainter struct{}

func (pngPainter) Paint(kind models.ChartKind, ds charts.Dataset) ([]byte, error) {
	return []byte("\x89PNG" + string(kind)), nil
}

type fixedConnection bool

func (f fixedConnection) Connected() bool { return bool(f) }

type testEnv struct {
	dashboard *dashboard.Dashboard
	presenter *notify.Presenter
	fetcher   *staticFetcher
	handler   *DashboardHandler
}

func setupHandler(t *testing.T) *testEnv {
	t.Helper()
	require.NoError(t, i18n.Load())

	fetcher := &staticFetcher{snapshot: &models.DashboardSnapshot{
		Overview:          models.Overview{TotalStudents: 120, TotalSubjects: 12, AttendanceRate: 93.5, AverageGPA: 3.2},
		EnrollmentTrend:   []models.EnrollmentPoint{{Month: "Oct 2026", Count: 5}},
		GradeDistribution: []models.GradeCount{{Grade: "A", Count: 3}},
		StudentsByGrade:   []models.GradeLevelCount{{GradeLevel: "1st Year", Count: 20}},
	}}

	p := page.Dashboard()
	presenter := notify.NewPresenter(time.Minute, 5, zap.NewNop())
	registry := charts.NewRegistry(p, pngPainter{}, zap.NewNop())
	d := dashboard.New(p, fetcher, registry, presenter, zap.NewNop(), dashboard.Options{AttendanceDays: 30})
	t.Cleanup(func() {
		d.Close()
		presenter.Close()
	})

	return &testEnv{
		dashboard: d,
		presenter: presenter,
		fetcher:   fetcher,
		handler:   NewDashboardHandler(d, presenter, fixedConnection(true), zap.NewNop()),
	}
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return e, c, rec
}
