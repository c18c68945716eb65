package page

import (
	"errors"
	"sync"
)

// ErrCanvasInUse is returned when attaching to a canvas that already holds a drawing
var ErrCanvasInUse = errors.New("canvas already has a drawing attached")

// Drawing is anything bound to a canvas
type Drawing interface {
	ID() string
}

// Canvas is a chart anchor. It holds at most one drawing.
type Canvas struct {
	id       string
	mu       sync.Mutex
	drawing  Drawing
	attaches int
}

func (c *Canvas) ID() string {
	return c.id
}

// Attach binds d to the canvas
func (c *Canvas) Attach(d Drawing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.drawing != nil {
		return ErrCanvasInUse
	}
	c.drawing = d
	c.attaches++
	return nil
}

// Detach releases the canvas if d is the attached drawing
func (c *Canvas) Detach(d Drawing) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.drawing == nil || c.drawing.ID() != d.ID() {
		return false
	}
	c.drawing = nil
	return true
}

// Drawing returns the attached drawing, or nil
func (c *Canvas) Drawing() Drawing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drawing
}

// Attaches returns how many drawings were ever bound to the canvas
func (c *Canvas) Attaches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attaches
}
