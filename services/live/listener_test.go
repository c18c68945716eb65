package live

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"student_dashboard_go/models"
	"student_dashboard_go/services/i18n"
	"student_dashboard_go/services/page"
	"student_dashboard_go/services/refresh"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDashboard records invalidations in call order, applying counter
// changes to a real page so their effect can be checked.
type fakeDashboard struct {
	page *page.Page

	mu    sync.Mutex
	calls []string
}

func newFakeDashboard() *fakeDashboard {
	return &fakeDashboard{page: page.Dashboard()}
}

func (f *fakeDashboard) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeDashboard) AdjustCounter(anchor string, delta float64) {
	f.page.Counter(anchor).AnimateBy(delta, 0)
	f.record(fmt.Sprintf("adjust %s %+g", anchor, delta))
}

func (f *fakeDashboard) SetCounter(anchor string, value float64) {
	f.page.Counter(anchor).Set(value)
	f.record(fmt.Sprintf("set %s %g", anchor, value))
}

func (f *fakeDashboard) RequestRefresh(ctx context.Context, scope refresh.Scope) {
	f.record("refresh " + scope.String())
}

func (f *fakeDashboard) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []models.Notification
}

func (r *recordingNotifier) Notify(message string, severity models.Severity) models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := models.Notification{Message: message, Severity: severity}
	r.items = append(r.items, n)
	return n
}

func (r *recordingNotifier) All() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Notification(nil), r.items...)
}

func newTestListener(t *testing.T) (*Listener, *fakeDashboard, *recordingNotifier) {
	t.Helper()
	require.NoError(t, i18n.Load())

	dashboard := newFakeDashboard()
	notifier := &recordingNotifier{}
	return NewListener(dashboard, notifier, zap.NewNop(), "en"), dashboard, notifier
}

func TestConnectionTransitions(t *testing.T) {
	listener, _, notifier := newTestListener(t)

	listener.SetConnected(false)
	assert.Empty(t, notifier.All(), "initial state is disconnected")

	listener.SetConnected(true)
	listener.SetConnected(true)
	listener.SetConnected(false)
	listener.SetConnected(false)

	got := notifier.All()
	require.Len(t, got, 2)
	assert.Equal(t, "Connected to real-time updates", got[0].Message)
	assert.Equal(t, models.SeveritySuccess, got[0].Severity)
	assert.Equal(t, "Connection lost. Reconnecting...", got[1].Message)
	assert.Equal(t, models.SeverityWarning, got[1].Severity)
}

func TestEventsIgnoredWhileDisconnected(t *testing.T) {
	listener, dashboard, notifier := newTestListener(t)

	accepted := listener.Dispatch(context.Background(), models.LiveEvent{Name: models.EventStudentDeleted})

	assert.False(t, accepted)
	assert.Empty(t, dashboard.Calls())
	assert.Empty(t, notifier.All())
}

func TestDispatchTable(t *testing.T) {
	tests := []struct {
		name     string
		event    models.LiveEvent
		calls    []string
		message  string
		severity models.Severity
	}{
		{
			name:  "student created",
			event: models.LiveEvent{Name: models.EventStudentCreated, Data: map[string]interface{}{
				"id": float64(7), "student_id": "STU007", "full_name": "Aashi Sharma",
				"grade_level": "1st Year", "status": "active",
			}},
			calls:    []string{"adjust totalStudents +1", "refresh counters+charts"},
			message:  "New student added: Aashi Sharma",
			severity: models.SeveritySuccess,
		},
		{
			name:     "student created with name only",
			event:    models.LiveEvent{Name: models.EventStudentCreated, Data: map[string]interface{}{"name": "Ana Ruiz"}},
			calls:    []string{"adjust totalStudents +1", "refresh counters+charts"},
			message:  "New student added: Ana Ruiz",
			severity: models.SeveritySuccess,
		},
		{
			name:     "student added alias",
			event:    models.LiveEvent{Name: models.EventStudentAdded, Data: map[string]interface{}{"name": "Leo"}},
			calls:    []string{"adjust totalStudents +1", "refresh counters+charts"},
			message:  "New student added: Leo",
			severity: models.SeveritySuccess,
		},
		{
			name:     "student updated",
			event:    models.LiveEvent{Name: models.EventStudentUpdated, Data: map[string]interface{}{"id": float64(7), "full_name": "Ana Ruiz"}},
			calls:    []string{"refresh counters+charts"},
			message:  "Student updated: Ana Ruiz",
			severity: models.SeverityInfo,
		},
		{
			name:     "student deleted",
			event:    models.LiveEvent{Name: models.EventStudentDeleted, Data: map[string]interface{}{"id": 7}},
			calls:    []string{"adjust totalStudents -1", "refresh counters+charts"},
			message:  "Student deactivated",
			severity: models.SeverityWarning,
		},
		{
			name:     "grade added",
			event:    models.LiveEvent{Name: models.EventGradeAdded},
			calls:    []string{"refresh counters+charts"},
			message:  "New grade recorded",
			severity: models.SeveritySuccess,
		},
		{
			name:     "attendance recorded",
			event:    models.LiveEvent{Name: models.EventAttendanceRecorded},
			calls:    []string{"refresh counters+charts"},
			message:  "Attendance updated",
			severity: models.SeveritySuccess,
		},
		{
			name:     "subject created",
			event:    models.LiveEvent{Name: models.EventSubjectCreated, Data: map[string]interface{}{"name": "Physics"}},
			calls:    []string{"adjust totalSubjects +1", "refresh counters+charts"},
			message:  "New subject added: Physics",
			severity: models.SeveritySuccess,
		},
		{
			name:     "subject updated",
			event:    models.LiveEvent{Name: models.EventSubjectUpdated, Data: map[string]interface{}{"name": "Physics"}},
			calls:    nil,
			message:  "Subject updated: Physics",
			severity: models.SeverityInfo,
		},
		{
			name:     "status",
			event:    models.LiveEvent{Name: models.EventStatus, Data: map[string]interface{}{"msg": "Connected to server"}},
			calls:    nil,
			message:  "Connected to server",
			severity: models.SeverityInfo,
		},
		{
			name:     "dashboard updated",
			event:    models.LiveEvent{Name: models.EventDashboardUpdated, Data: map[string]interface{}{"total_students": float64(250)}},
			calls:    []string{"set totalStudents 250"},
			message:  "Dashboard updated",
			severity: models.SeverityInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listener, dashboard, notifier := newTestListener(t)
			listener.SetConnected(true)

			assert.True(t, listener.Dispatch(context.Background(), tt.event))
			assert.Equal(t, tt.calls, dashboard.Calls())

			got := notifier.All()
			require.Len(t, got, 2, "connected notice plus exactly one for the event")
			assert.Equal(t, tt.message, got[1].Message)
			assert.Equal(t, tt.severity, got[1].Severity)
		})
	}
}

func TestStudentDeletedDecrementsBeforeRefresh(t *testing.T) {
	listener, dashboard, _ := newTestListener(t)
	listener.SetConnected(true)
	students := dashboard.page.Counter(models.AnchorTotalStudents)
	students.Set(120)

	listener.Dispatch(context.Background(), models.LiveEvent{Name: models.EventStudentDeleted})

	assert.Equal(t, 119.0, students.Value())
	assert.Equal(t, "119", students.Text())
	assert.Equal(t, []string{"adjust totalStudents -1", "refresh counters+charts"}, dashboard.Calls())
}

func TestUnknownEventIgnored(t *testing.T) {
	listener, dashboard, notifier := newTestListener(t)
	listener.SetConnected(true)

	assert.False(t, listener.Dispatch(context.Background(), models.LiveEvent{Name: "course_archived"}))
	assert.Empty(t, dashboard.Calls())
	assert.Len(t, notifier.All(), 1)
}

func TestActionHas(t *testing.T) {
	a := ActionCounterDelta | ActionFullRefresh
	assert.True(t, a.Has(ActionFullRefresh))
	assert.True(t, a.Has(ActionCounterDelta))
	assert.False(t, a.Has(ActionCounterSet))
	assert.False(t, a.Has(ActionNotifyOnly))
}
