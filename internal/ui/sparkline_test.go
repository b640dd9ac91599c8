package ui

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSparklineDimensions(t *testing.T) {
	rows := Sparkline([]float64{1, 2, 3}, 10, 4)

	require.Len(t, rows, 4)
	for _, r := range rows {
		assert.Equal(t, 10, utf8.RuneCountInString(r))
	}
}

func TestSparklineRightAligned(t *testing.T) {
	rows := Sparkline([]float64{8}, 3, 1)

	assert.Equal(t, []string{"  █"}, rows)
}

func TestSparklineScalesToPeak(t *testing.T) {
	rows := Sparkline([]float64{0, 4, 8}, 3, 1)

	assert.Equal(t, []string{" ▄█"}, rows)
}

func TestSparklineMultipleRows(t *testing.T) {
	rows := Sparkline([]float64{16, 8}, 2, 2)

	assert.Equal(t, []string{"█ ", "██"}, rows)
}

func TestSparklineKeepsNewestValues(t *testing.T) {
	rows := Sparkline([]float64{100, 100, 0, 8}, 2, 1)

	assert.Equal(t, []string{" █"}, rows)
}

func TestSparklineSmallValuesStayVisible(t *testing.T) {
	rows := Sparkline([]float64{1, 10000}, 2, 1)

	assert.Equal(t, []string{"▁█"}, rows)
}

func TestSparklineDegenerate(t *testing.T) {
	assert.Nil(t, Sparkline([]float64{1}, 0, 3))
	assert.Nil(t, Sparkline([]float64{1}, 3, 0))
	assert.Equal(t, []string{"   "}, Sparkline(nil, 3, 1))
	assert.Equal(t, []string{"   "}, Sparkline([]float64{0, 0, 0}, 3, 1))
}

func TestPeak(t *testing.T) {
	assert.Zero(t, Peak(nil))
	assert.Equal(t, 7.0, Peak([]float64{3, 7, 1}))
}
