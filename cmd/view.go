package cmd

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/sirupsen/logrus"

	"github.com/GregTheMadMonk/mhfe-svt/svt"
	"github.com/GregTheMadMonk/mhfe-svt/svt/render"
)

// renderOptions assembles render settings from the view config, deriving
// the scalar range from series-wide stats when the config does not pin one.
// Series-wide ranges keep colors comparable across frames.
func renderOptions(cfg svt.ViewConfig, series *svt.Series) render.Options {
	cmap, err := render.ColormapByName(cfg.Colormap)
	if err != nil {
		logrus.Fatalf("%v", err)
	}

	layer := cfg.Layer
	if layer == "" {
		layers := series.Layers()
		if len(layers) == 0 {
			logrus.Fatalf("frames carry no data layers")
		}
		layer = layers[0]
		logrus.Infof("no layer selected, using %q", layer)
	}

	lo, hi := 0.0, 0.0
	if cfg.Range != nil {
		lo, hi = cfg.Range.Min, cfg.Range.Max
	} else {
		stats, err := series.LayerStats(layer)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		lo, hi = stats.Min, stats.Max
	}

	return render.Options{
		Width:  cfg.Width,
		Height: cfg.Height,
		Camera: render.Camera{
			Position:   cfg.Camera.Position,
			FocalPoint: cfg.Camera.FocalPoint,
			Up:         cfg.Camera.Up,
			Zoom:       cfg.Camera.Zoom,
		},
		Colormap:   cmap,
		Layer:      layer,
		Min:        lo,
		Max:        hi,
		Background: parseBackground(cfg.Background),
	}
}

func parseBackground(hex string) color.RGBA {
	if hex == "" {
		return color.RGBA{A: 0xff}
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		logrus.Fatalf("invalid background color %q: %v", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
