package charts

import (
	"bytes"
	"testing"

	"student_dashboard_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG")

func TestGoChartPainter(t *testing.T) {
	painter := NewGoChartPainter()

	t.Run("Line", func(t *testing.T) {
		img, err := painter.Paint(models.ChartKindLine, EnrollmentDataset([]models.EnrollmentPoint{
			{Month: "Aug 2026", Count: 100}, {Month: "Sep 2026", Count: 110}, {Month: "Oct 2026", Count: 120},
		}))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(img, pngMagic))
	})

	t.Run("Doughnut", func(t *testing.T) {
		img, err := painter.Paint(models.ChartKindDoughnut, GradeDistributionDataset([]models.GradeCount{
			{Grade: "A", Count: 3}, {Grade: "B", Count: 5},
		}))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(img, pngMagic))
	})

	t.Run("Bar", func(t *testing.T) {
		img, err := painter.Paint(models.ChartKindBar, StudentsByGradeDataset([]models.GradeLevelCount{
			{GradeLevel: "1st Year", Count: 40}, {GradeLevel: "2nd Year", Count: 35},
		}))
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(img, pngMagic))
	})

	t.Run("Empty dataset", func(t *testing.T) {
		_, err := painter.Paint(models.ChartKindLine, Dataset{})
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("All zero doughnut", func(t *testing.T) {
		_, err := painter.Paint(models.ChartKindDoughnut, GradeDistributionDataset(nil))
		assert.ErrorIs(t, err, ErrNoData)
	})
}

func TestValueAxisMax(t *testing.T) {
	assert.Equal(t, 100.0, valueAxisMax(Dataset{Max: 100, Values: []float64{5}}))
	assert.Equal(t, 1.0, valueAxisMax(Dataset{Values: []float64{0, 0}}))
	assert.InDelta(t, 11.0, valueAxisMax(Dataset{Values: []float64{10, 2}}), 0.0001)
}
