// Package dashboard owns the single refresh pathway of the dashboard:
// stats fetch, counter updates and chart rendering through the registry.
package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"student_dashboard_go/models"
	"student_dashboard_go/services/charts"
	"student_dashboard_go/services/i18n"
	"student_dashboard_go/services/notify"
	"student_dashboard_go/services/page"
	"student_dashboard_go/services/refresh"
	"student_dashboard_go/services/stats"

	"go.uber.org/zap"
)

const (
	// DeltaAnimation is the counter animation for live deltas
	DeltaAnimation = 500 * time.Millisecond
	// RefreshAnimation is the counter animation for fetched values
	RefreshAnimation = 1000 * time.Millisecond
)

// Options tune a Dashboard
type Options struct {
	AttendanceDays  int
	Locale          string
	AnimateCounters bool
}

// Dashboard keeps a page in sync with the stats API
type Dashboard struct {
	page        *page.Page
	fetcher     stats.Fetcher
	registry    *charts.Registry
	notifier    notify.Notifier
	logger      *zap.Logger
	coordinator *refresh.Coordinator
	opts        Options

	seq atomic.Uint64

	mu          sync.Mutex
	appliedSeq  uint64
	deltaMark   uint64
	last        *models.DashboardSnapshot
	lastUpdated time.Time
}

func New(p *page.Page, fetcher stats.Fetcher, registry *charts.Registry, notifier notify.Notifier, logger *zap.Logger, opts Options) *Dashboard {
	if opts.AttendanceDays <= 0 {
		opts.AttendanceDays = 30
	}
	if opts.Locale == "" {
		opts.Locale = "en"
	}

	d := &Dashboard{
		page:     p,
		fetcher:  fetcher,
		registry: registry,
		notifier: notifier,
		logger:   logger.Named("dashboard"),
		opts:     opts,
	}
	d.coordinator = refresh.NewCoordinator(d.refresh, logger)
	return d
}

// RequestRefresh schedules a refresh through the coordinator. It returns at once.
func (d *Dashboard) RequestRefresh(ctx context.Context, scope refresh.Scope) {
	d.coordinator.Request(ctx, scope)
}

// Wait blocks until every requested refresh has settled
func (d *Dashboard) Wait() {
	d.coordinator.Wait()
}

// AdjustCounter moves a counter by delta without fetching. Fetches that were
// already in flight will not overwrite counters adjusted after they started.
func (d *Dashboard) AdjustCounter(anchor string, delta float64) {
	counter := d.page.Counter(anchor)
	if counter == nil {
		return
	}

	d.mu.Lock()
	d.deltaMark = d.seq.Load()
	d.mu.Unlock()

	value := counter.AnimateBy(delta, d.animation(DeltaAnimation))
	d.logger.Debug("counter adjusted", zap.String("anchor", anchor), zap.Float64("delta", delta), zap.Float64("value", value))
}

// SetCounter shows a server-pushed value without fetching
func (d *Dashboard) SetCounter(anchor string, value float64) {
	counter := d.page.Counter(anchor)
	if counter == nil {
		return
	}

	d.mu.Lock()
	d.deltaMark = d.seq.Load()
	d.mu.Unlock()

	counter.AnimateTo(value, d.animation(DeltaAnimation))
}

// Snapshot returns the last applied snapshot and when it was applied
func (d *Dashboard) Snapshot() (*models.DashboardSnapshot, time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last, d.lastUpdated
}

func (d *Dashboard) Page() *page.Page {
	return d.page
}

func (d *Dashboard) Registry() *charts.Registry {
	return d.registry
}

// Close waits for running refreshes and tears down every chart
func (d *Dashboard) Close() {
	d.coordinator.Wait()
	d.registry.DestroyAll()
}

func (d *Dashboard) refresh(ctx context.Context, scope refresh.Scope) {
	seq := d.seq.Add(1)
	log := d.logger.With(zap.Uint64("seq", seq), zap.Stringer("scope", scope))

	snapshot, err := d.fetcher.FetchDashboardStats(ctx)
	if err != nil {
		log.Error("Error loading dashboard data", zap.Error(err))
		d.notifier.Notify(i18n.Translate(d.opts.Locale, "dashboard.load_error"), models.SeverityDanger)
		return
	}

	trendLoaded := false
	if scope.Has(refresh.ScopeCharts) {
		trend, err := d.fetcher.FetchAttendanceTrend(ctx, d.opts.AttendanceDays)
		if err != nil {
			log.Warn("Error loading attendance trend", zap.Error(err))
			d.notifier.Notify(i18n.Translate(d.opts.Locale, "dashboard.attendance_error"), models.SeverityWarning)
		} else {
			snapshot.AttendanceTrend = trend
			trendLoaded = true
		}
	}

	d.apply(seq, scope, snapshot, trendLoaded, log)
}

func (d *Dashboard) apply(seq uint64, scope refresh.Scope, snapshot *models.DashboardSnapshot, trendLoaded bool, log *zap.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if seq <= d.appliedSeq {
		log.Info("discarding stale refresh", zap.Uint64("applied_seq", d.appliedSeq))
		return
	}
	d.appliedSeq = seq

	if scope.Has(refresh.ScopeCounters) {
		if seq <= d.deltaMark {
			log.Debug("counters changed since fetch started, keeping them")
		} else {
			d.applyOverview(snapshot.Overview)
		}
	}

	if scope.Has(refresh.ScopeCharts) {
		d.render(models.SlotEnrollment, charts.EnrollmentDataset(snapshot.EnrollmentTrend), log)
		d.render(models.SlotGrade, charts.GradeDistributionDataset(snapshot.GradeDistribution), log)
		d.render(models.SlotStudentsByGrade, charts.StudentsByGradeDataset(snapshot.StudentsByGrade), log)
		if trendLoaded {
			d.render(models.SlotAttendance, charts.AttendanceDataset(snapshot.AttendanceTrend), log)
		}
	}

	if !trendLoaded && d.last != nil {
		snapshot.AttendanceTrend = d.last.AttendanceTrend
	}
	d.last = snapshot
	d.lastUpdated = time.Now()
	log.Debug("dashboard refreshed")
}

func (d *Dashboard) applyOverview(o models.Overview) {
	values := map[string]float64{
		models.AnchorTotalStudents:  float64(o.TotalStudents),
		models.AnchorTotalSubjects:  float64(o.TotalSubjects),
		models.AnchorAttendanceRate: o.AttendanceRate,
		models.AnchorAverageGPA:     o.AverageGPA,
	}
	for anchor, value := range values {
		if counter := d.page.Counter(anchor); counter != nil {
			counter.AnimateTo(value, d.animation(RefreshAnimation))
		}
	}
}

func (d *Dashboard) render(slot models.Slot, ds charts.Dataset, log *zap.Logger) {
	if err := d.registry.Render(slot, ds); err != nil && !charts.IsMissingAnchor(err) {
		log.Error("Error rendering chart", zap.String("slot", string(slot)), zap.Error(err))
	}
}

func (d *Dashboard) animation(duration time.Duration) time.Duration {
	if !d.opts.AnimateCounters {
		return 0
	}
	return duration
}
