package notify

import (
	"sync"
	"time"

	"student_dashboard_go/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Notifier shows transient messages to the user
type Notifier interface {
	Notify(message string, severity models.Severity) models.Notification
}

// Presenter keeps the visible notifications. Each one disappears after the
// display window, on Dismiss, or when evicted by newer ones beyond MaxVisible.
type Presenter struct {
	ttl        time.Duration
	maxVisible int
	now        func() time.Time
	logger     *zap.Logger

	mu        sync.Mutex
	container []models.Notification // nil until the first notification
	timers    map[string]*time.Timer
}

// Option configures a Presenter
type Option func(*Presenter)

// WithClock replaces the clock used for expiry
func WithClock(now func() time.Time) Option {
	return func(p *Presenter) { p.now = now }
}

func NewPresenter(ttl time.Duration, maxVisible int, logger *zap.Logger, opts ...Option) *Presenter {
	p := &Presenter{
		ttl:        ttl,
		maxVisible: maxVisible,
		now:        time.Now,
		logger:     logger.Named("notify"),
		timers:     make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Notify implements Notifier
func (p *Presenter) Notify(message string, severity models.Severity) models.Notification {
	now := p.now()
	n := models.Notification{
		ID:        uuid.New().String(),
		Message:   message,
		Severity:  severity,
		CreatedAt: now,
		ExpiresAt: now.Add(p.ttl),
	}

	p.logger.Check(levelFor(severity), message).Write(
		zap.String("severity", string(severity)),
		zap.String("id", n.ID),
	)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.container == nil {
		p.container = make([]models.Notification, 0, p.maxVisible)
	}
	p.pruneLocked(now)
	p.container = append(p.container, n)

	// FIFO eviction beyond the cap
	for p.maxVisible > 0 && len(p.container) > p.maxVisible {
		p.removeLocked(p.container[0].ID)
	}

	if p.ttl > 0 {
		id := n.ID
		p.timers[id] = time.AfterFunc(p.ttl, func() { p.Dismiss(id) })
	}
	return n
}

// Dismiss removes a notification, as when the user clicks it
func (p *Presenter) Dismiss(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.removeLocked(id)
}

// Visible returns the notifications currently on screen, oldest first
func (p *Presenter) Visible() []models.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pruneLocked(p.now())
	out := make([]models.Notification, len(p.container))
	copy(out, p.container)
	return out
}

// Close stops pending auto-dismiss timers
func (p *Presenter) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, timer := range p.timers {
		timer.Stop()
		delete(p.timers, id)
	}
}

func (p *Presenter) pruneLocked(now time.Time) {
	if p.ttl <= 0 {
		return
	}
	for _, n := range append([]models.Notification(nil), p.container...) {
		if n.IsExpired(now) {
			p.removeLocked(n.ID)
		}
	}
}

func (p *Presenter) removeLocked(id string) bool {
	for i, n := range p.container {
		if n.ID != id {
			continue
		}
		p.container = append(p.container[:i], p.container[i+1:]...)
		if timer, ok := p.timers[id]; ok {
			timer.Stop()
			delete(p.timers, id)
		}
		return true
	}
	return false
}

func levelFor(severity models.Severity) zapcore.Level {
	switch severity {
	case models.SeverityDanger:
		return zapcore.ErrorLevel
	case models.SeverityWarning:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
