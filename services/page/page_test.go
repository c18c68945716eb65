package page

import (
	"testing"
	"time"

	"student_dashboard_go/models"

	"github.com/stretchr/testify/assert"
)

type drawing string

func (d drawing) ID() string { return string(d) }

func TestNew(t *testing.T) {
	p := New("gradeChart", models.AnchorTotalStudents)

	assert.NotNil(t, p.Canvas("gradeChart"))
	assert.Nil(t, p.Canvas("enrollmentChart"))
	assert.NotNil(t, p.Counter(models.AnchorTotalStudents))
	assert.Nil(t, p.Counter(models.AnchorAverageGPA))
	assert.Equal(t, []string{"gradeChart", "totalStudents"}, p.Anchors())
}

func TestDashboard(t *testing.T) {
	p := Dashboard()

	for _, slot := range models.Slots {
		assert.NotNil(t, p.Canvas(slot.Anchor()), slot)
	}
	for _, id := range models.CounterAnchors {
		assert.NotNil(t, p.Counter(id), id)
	}
}

func TestCanvasAttach(t *testing.T) {
	c := &Canvas{id: "gradeChart"}

	assert.NoError(t, c.Attach(drawing("one")))
	assert.ErrorIs(t, c.Attach(drawing("two")), ErrCanvasInUse)
	assert.Equal(t, "one", c.Drawing().ID())

	assert.False(t, c.Detach(drawing("two")))
	assert.True(t, c.Detach(drawing("one")))
	assert.Nil(t, c.Drawing())

	assert.NoError(t, c.Attach(drawing("two")))
	assert.Equal(t, 2, c.Attaches())
}

func TestCounterFormats(t *testing.T) {
	assert.Equal(t, "120", IntegerFormat(120.7))
	assert.Equal(t, "91.5%", PercentFormat(91.5))
	assert.Equal(t, "3.12", DecimalFormat(3.12))
}

func TestCounterSet(t *testing.T) {
	c := NewCounter(models.AnchorTotalStudents, IntegerFormat)
	c.Set(42)

	assert.Equal(t, 42.0, c.Value())
	assert.Equal(t, "42", c.Text())
}

func TestCounterAnimation(t *testing.T) {
	t.Run("Value commits before the animation finishes", func(t *testing.T) {
		c := NewCounter(models.AnchorTotalStudents, IntegerFormat)
		c.Set(10)

		c.AnimateTo(20, 200*time.Millisecond)

		assert.Equal(t, 20.0, c.Value())
		assert.Eventually(t, func() bool { return c.Text() == "20" }, time.Second, 10*time.Millisecond)
	})

	t.Run("Zero duration shows immediately", func(t *testing.T) {
		c := NewCounter(models.AnchorTotalStudents, IntegerFormat)
		c.Set(10)

		assert.Equal(t, 9.0, c.AnimateBy(-1, 0))
		assert.Equal(t, "9", c.Text())
	})

	t.Run("Set cancels a running animation", func(t *testing.T) {
		c := NewCounter(models.AnchorTotalStudents, IntegerFormat)
		c.AnimateTo(1000, 500*time.Millisecond)
		c.Set(5)

		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, "5", c.Text())
		assert.Equal(t, 5.0, c.Value())
	})

	t.Run("Deltas accumulate", func(t *testing.T) {
		c := NewCounter(models.AnchorTotalStudents, IntegerFormat)
		c.Set(100)

		c.AnimateBy(1, 50*time.Millisecond)
		c.AnimateBy(1, 50*time.Millisecond)
		c.AnimateBy(-1, 50*time.Millisecond)

		assert.Equal(t, 101.0, c.Value())
		assert.Eventually(t, func() bool { return c.Text() == "101" }, time.Second, 10*time.Millisecond)
	})
}
