package charts

import (
	"errors"
	"fmt"
	"sync"

	"student_dashboard_go/models"
	"student_dashboard_go/services/page"

	"go.uber.org/zap"
)

// RenderErrorKind classifies render failures
type RenderErrorKind string

const (
	// MissingAnchor means the page does not carry the slot's canvas. Non-fatal.
	MissingAnchor RenderErrorKind = "missing_anchor"
	UnknownSlot   RenderErrorKind = "unknown_slot"
)

// RenderError is returned by Render when nothing could be bound
type RenderError struct {
	Slot models.Slot
	Kind RenderErrorKind
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %s", e.Slot, e.Kind)
}

// IsMissingAnchor reports whether err is a MissingAnchor render error
func IsMissingAnchor(err error) bool {
	var re *RenderError
	return errors.As(err, &re) && re.Kind == MissingAnchor
}

// Registry owns the live chart of every slot. It keeps at most one chart
// per slot and destroys the previous chart before binding a new one.
type Registry struct {
	page    *page.Page
	painter Painter
	logger  *zap.Logger

	mu     sync.Mutex
	charts map[models.Slot]*Chart
}

func NewRegistry(p *page.Page, painter Painter, logger *zap.Logger) *Registry {
	return &Registry{
		page:    p,
		painter: painter,
		logger:  logger.Named("charts"),
		charts:  make(map[models.Slot]*Chart),
	}
}

// Render replaces the chart of slot with a new chart of ds
func (r *Registry) Render(slot models.Slot, ds Dataset) error {
	if !slot.IsValid() {
		return &RenderError{Slot: slot, Kind: UnknownSlot}
	}

	canvas := r.page.Canvas(slot.Anchor())
	if canvas == nil {
		r.logger.Debug("anchor not on page, skipping", zap.String("slot", string(slot)), zap.String("anchor", slot.Anchor()))
		return &RenderError{Slot: slot, Kind: MissingAnchor}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.charts[slot]; ok {
		old.Destroy()
		delete(r.charts, slot)
	}

	ch := newChart(slot, ds)
	img, err := r.painter.Paint(slot.Kind(), ds)
	if err != nil {
		r.logger.Warn("chart painted without image", zap.String("slot", string(slot)), zap.Error(err))
	}
	ch.image = img

	if err := canvas.Attach(ch); err != nil {
		ch.Destroy()
		return fmt.Errorf("failed to attach %s chart: %w", slot, err)
	}
	ch.canvas = canvas
	r.charts[slot] = ch

	r.logger.Debug("chart rendered",
		zap.String("slot", string(slot)),
		zap.String("kind", string(slot.Kind())),
		zap.Int("points", ds.Len()),
	)
	return nil
}

// Chart returns the live chart of slot, or nil
func (r *Registry) Chart(slot models.Slot) *Chart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.charts[slot]
}

// Live returns the number of live charts
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.charts)
}

// DestroyAll tears down every live chart
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for slot, ch := range r.charts {
		ch.Destroy()
		delete(r.charts, slot)
	}
}
