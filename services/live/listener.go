// Package live keeps the dashboard in sync with server-pushed events.
// The Listener maps each event to its invalidation actions; the Client
// carries events over a websocket and feeds them to the Listener.
package live

import (
	"context"
	"sync"

	"student_dashboard_go/models"
	"student_dashboard_go/services/i18n"
	"student_dashboard_go/services/notify"
	"student_dashboard_go/services/refresh"

	"go.uber.org/zap"
)

// Invalidator is the part of the dashboard that live events act on
type Invalidator interface {
	AdjustCounter(anchor string, delta float64)
	SetCounter(anchor string, value float64)
	RequestRefresh(ctx context.Context, scope refresh.Scope)
}

// Action is a set of invalidation actions. Zero means notify only.
type Action uint8

const (
	ActionFullRefresh Action = 1 << iota
	ActionCounterDelta
	ActionCounterSet

	ActionNotifyOnly Action = 0
)

func (a Action) Has(other Action) bool {
	return other != 0 && a&other == other
}

// Rule is the handling of one event name
type Rule struct {
	Actions  Action
	Anchor   string  // counter moved by ActionCounterDelta
	Delta    float64 // ActionCounterDelta only
	Severity models.Severity
	Message  string // i18n key, formatted with the event payload
}

// Rules is the event to action table
var Rules = map[string]Rule{
	models.EventStudentCreated: {
		Actions: ActionCounterDelta | ActionFullRefresh, Anchor: models.AnchorTotalStudents, Delta: 1,
		Severity: models.SeveritySuccess, Message: "live.student_created",
	},
	models.EventStudentAdded: {
		Actions: ActionCounterDelta | ActionFullRefresh, Anchor: models.AnchorTotalStudents, Delta: 1,
		Severity: models.SeveritySuccess, Message: "live.student_created",
	},
	models.EventStudentUpdated: {
		Actions: ActionFullRefresh, Severity: models.SeverityInfo, Message: "live.student_updated",
	},
	models.EventStudentDeleted: {
		Actions: ActionCounterDelta | ActionFullRefresh, Anchor: models.AnchorTotalStudents, Delta: -1,
		Severity: models.SeverityWarning, Message: "live.student_deleted",
	},
	models.EventGradeAdded: {
		Actions: ActionFullRefresh, Severity: models.SeveritySuccess, Message: "live.grade_added",
	},
	models.EventAttendanceRecorded: {
		Actions: ActionFullRefresh, Severity: models.SeveritySuccess, Message: "live.attendance_recorded",
	},
	models.EventSubjectCreated: {
		Actions: ActionCounterDelta | ActionFullRefresh, Anchor: models.AnchorTotalSubjects, Delta: 1,
		Severity: models.SeveritySuccess, Message: "live.subject_created",
	},
	models.EventSubjectUpdated: {
		Actions: ActionNotifyOnly, Severity: models.SeverityInfo, Message: "live.subject_updated",
	},
	models.EventStatus: {
		Actions: ActionNotifyOnly, Severity: models.SeverityInfo, Message: "live.status",
	},
	models.EventDashboardUpdated: {
		Actions: ActionCounterSet, Severity: models.SeverityInfo, Message: "live.dashboard_updated",
	},
}

// dashboard_updated payload fields
var counterSetFields = map[string]string{
	"total_students": models.AnchorTotalStudents,
	"total_subjects": models.AnchorTotalSubjects,
}

// Listener tracks the connection state and dispatches accepted events
type Listener struct {
	dashboard Invalidator
	notifier  notify.Notifier
	logger    *zap.Logger
	locale    string

	mu        sync.Mutex
	connected bool
}

func NewListener(dashboard Invalidator, notifier notify.Notifier, logger *zap.Logger, locale string) *Listener {
	return &Listener{
		dashboard: dashboard,
		notifier:  notifier,
		logger:    logger.Named("live"),
		locale:    locale,
	}
}

// Connected reports the current connection state
func (l *Listener) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

// SetConnected records a connection state change. Only transitions notify.
func (l *Listener) SetConnected(connected bool) {
	l.mu.Lock()
	changed := l.connected != connected
	l.connected = connected
	l.mu.Unlock()

	if !changed {
		return
	}
	if connected {
		l.logger.Info("connected to live channel")
		l.notifier.Notify(i18n.Translate(l.locale, "live.connected"), models.SeveritySuccess)
		return
	}
	l.logger.Warn("live channel lost")
	l.notifier.Notify(i18n.Translate(l.locale, "live.disconnected"), models.SeverityWarning)
}

// Dispatch applies the rule of ev. It reports whether the event was accepted.
// Counter changes happen before the refresh is requested.
func (l *Listener) Dispatch(ctx context.Context, ev models.LiveEvent) bool {
	if !l.Connected() {
		l.logger.Debug("dropping event while disconnected", zap.String("event", ev.Name))
		return false
	}

	rule, ok := Rules[ev.Name]
	if !ok {
		l.logger.Warn("unknown live event", zap.String("event", ev.Name))
		return false
	}
	l.logger.Info("live event", zap.String("event", ev.Name), zap.Any("data", ev.Data))

	if rule.Actions.Has(ActionCounterDelta) {
		l.dashboard.AdjustCounter(rule.Anchor, rule.Delta)
	}
	if rule.Actions.Has(ActionCounterSet) {
		for field, anchor := range counterSetFields {
			if v, ok := ev.Number(field); ok {
				l.dashboard.SetCounter(anchor, v)
			}
		}
	}
	if rule.Actions.Has(ActionFullRefresh) {
		l.dashboard.RequestRefresh(ctx, refresh.ScopeAll)
	}

	l.notifier.Notify(l.message(rule, ev), rule.Severity)
	return true
}

func (l *Listener) message(rule Rule, ev models.LiveEvent) string {
	args := make(map[string]interface{}, len(ev.Data)+1)
	for k := range ev.Data {
		args[k] = ev.String(k)
	}
	// students arrive as to_dict() with full_name; older emitters send name
	if _, ok := args["full_name"]; !ok {
		if name, ok := args["name"]; ok {
			args["full_name"] = name
		}
	}
	return i18n.Translate(l.locale, rule.Message, args)
}
