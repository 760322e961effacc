package svt

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LayerStats summarizes one attribute layer across every frame of a series.
// Min/Max feed the default colormap range so colors stay comparable between
// frames instead of rescaling per time step.
type LayerStats struct {
	Layer  string
	Count  int // values across all frames
	Min    float64
	Max    float64
	Mean   float64
	Stddev float64
}

// LayerStats aggregates the named layer over the whole series.
func (s *Series) LayerStats(layer string) (LayerStats, error) {
	var values []float64
	for i := range s.Frames {
		a, ok := s.Frames[i].Mesh.Layer(layer)
		if !ok {
			return LayerStats{}, fmt.Errorf("frame %q has no layer %q (available: %s)",
				s.Frames[i].Name, layer, strings.Join(s.Frames[i].Mesh.Layers(), ", "))
		}
		values = append(values, a.Values...)
	}
	if len(values) == 0 {
		return LayerStats{}, fmt.Errorf("layer %q is empty across the series", layer)
	}
	return LayerStats{
		Layer:  layer,
		Count:  len(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   stat.Mean(values, nil),
		Stddev: stat.StdDev(values, nil),
	}, nil
}

// AllLayerStats computes stats for every layer of the series, in layer order.
func (s *Series) AllLayerStats() ([]LayerStats, error) {
	layers := s.Layers()
	out := make([]LayerStats, 0, len(layers))
	for _, layer := range layers {
		st, err := s.LayerStats(layer)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}
