package charts

import (
	"sync"
	"time"

	"student_dashboard_go/models"
	"student_dashboard_go/services/page"

	"github.com/google/uuid"
)

// Chart is one live chart instance bound to a canvas
type Chart struct {
	id        string
	slot      models.Slot
	dataset   Dataset
	createdAt time.Time

	mu        sync.Mutex
	image     []byte
	canvas    *page.Canvas
	destroyed bool
}

func newChart(slot models.Slot, ds Dataset) *Chart {
	return &Chart{
		id:        uuid.New().String(),
		slot:      slot,
		dataset:   ds,
		createdAt: time.Now(),
	}
}

func (c *Chart) ID() string {
	return c.id
}

func (c *Chart) Slot() models.Slot {
	return c.slot
}

// Kind is fixed by the slot
func (c *Chart) Kind() models.ChartKind {
	return c.slot.Kind()
}

func (c *Chart) Dataset() Dataset {
	return c.dataset
}

func (c *Chart) CreatedAt() time.Time {
	return c.createdAt
}

// Image returns the painted PNG, empty when painting failed or after Destroy
func (c *Chart) Image() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.image
}

func (c *Chart) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// Destroy detaches the chart from its canvas and releases the image. Safe to call twice.
func (c *Chart) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return
	}
	if c.canvas != nil {
		c.canvas.Detach(c)
		c.canvas = nil
	}
	c.image = nil
	c.destroyed = true
}
