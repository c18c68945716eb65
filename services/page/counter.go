package page

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"
)

// frameInterval is the animation step, roughly one display frame
const frameInterval = 16 * time.Millisecond

// Format renders a counter value as text
type Format func(v float64) string

var (
	IntegerFormat Format = func(v float64) string { return fmt.Sprintf("%d", int64(math.Floor(v))) }
	PercentFormat Format = func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) + "%" }
	DecimalFormat Format = func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
)

// Counter is a text anchor showing a number. The committed value changes
// immediately; the shown value may trail it while an animation runs.
type Counter struct {
	id     string
	format Format

	mu    sync.Mutex
	value float64
	shown float64
	gen   uint64
}

func NewCounter(id string, format Format) *Counter {
	if format == nil {
		format = DecimalFormat
	}
	return &Counter{id: id, format: format}
}

func (c *Counter) ID() string {
	return c.id
}

// Value returns the committed value
func (c *Counter) Value() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Text returns the currently shown text
func (c *Counter) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.format(c.shown)
}

// Set commits and shows v at once, cancelling any running animation
func (c *Counter) Set(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.value = v
	c.shown = v
}

// AnimateTo commits v and moves the shown value to it linearly over d
func (c *Counter) AnimateTo(v float64, d time.Duration) {
	c.mu.Lock()
	c.value = v
	c.startLocked(d)
	c.mu.Unlock()
}

// AnimateBy commits value+delta and animates towards it. It returns the new value.
func (c *Counter) AnimateBy(delta float64, d time.Duration) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value += delta
	c.startLocked(d)
	return c.value
}

func (c *Counter) startLocked(d time.Duration) {
	c.gen++
	if d <= 0 || c.shown == c.value {
		c.shown = c.value
		return
	}
	go c.animate(c.gen, c.shown, c.value, d)
}

func (c *Counter) animate(gen uint64, from, to float64, d time.Duration) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	start := time.Now()
	for range ticker.C {
		progress := math.Min(float64(time.Since(start))/float64(d), 1)

		c.mu.Lock()
		if c.gen != gen {
			// superseded by a newer Set or animation
			c.mu.Unlock()
			return
		}
		c.shown = from + (to-from)*progress
		if progress >= 1 {
			c.shown = to
		}
		c.mu.Unlock()

		if progress >= 1 {
			return
		}
	}
}
