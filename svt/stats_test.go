package svt

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadStatsSeries(t *testing.T, values ...float64) *Series {
	t.Helper()
	dir := t.TempDir()
	for i, v := range values {
		writeFrameFile(t, dir, frameName(i), v)
	}
	series, err := LoadSeries(context.Background(), LoadConfig{}, dir)
	require.NoError(t, err)
	return series
}

func frameName(i int) string {
	return string(rune('0'+i)) + ".vtk"
}

func TestLayerStats_AggregatesAcrossFrames(t *testing.T) {
	series := loadStatsSeries(t, 1, 2, 3, 4)

	stats, err := series.LayerStats("pressure")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Count)
	assert.Equal(t, 1.0, stats.Min)
	assert.Equal(t, 4.0, stats.Max)
	assert.InDelta(t, 2.5, stats.Mean, 1e-12)
	// Sample standard deviation of {1,2,3,4}.
	assert.InDelta(t, math.Sqrt(5.0/3.0), stats.Stddev, 1e-12)
}

func TestLayerStats_UnknownLayer(t *testing.T) {
	series := loadStatsSeries(t, 1)
	_, err := series.LayerStats("velocity")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no layer")
	assert.Contains(t, err.Error(), "pressure")
}

func TestAllLayerStats(t *testing.T) {
	series := loadStatsSeries(t, 2, 8)
	all, err := series.AllLayerStats()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "pressure", all[0].Layer)
	assert.Equal(t, 2.0, all[0].Min)
	assert.Equal(t, 8.0, all[0].Max)
}
