package render

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Colormap is a look-up table of colour keypoints interpolated over [0, 1].
type Colormap []struct {
	Col colorful.Color
	Pos float64
}

// colormaps holds the named presets. Keypoints are approximations of the
// matplotlib maps CFD people expect.
var colormaps = map[string]Colormap{
	"viridis": gradient("#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"),
	"plasma":  gradient("#0d0887", "#7e03a8", "#cc4778", "#f89441", "#f0f921"),
	"jet":     gradient("#00007f", "#0000ff", "#00ffff", "#ffff00", "#ff0000", "#7f0000"),
	"gray":    gradient("#000000", "#ffffff"),
}

// gradient builds a Colormap with evenly spaced keypoints.
func gradient(hexes ...string) Colormap {
	g := make(Colormap, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		g[i].Col = c
		g[i].Pos = float64(i) / float64(len(hexes)-1)
	}
	return g
}

// ColormapNames lists the available presets.
func ColormapNames() []string {
	names := make([]string, 0, len(colormaps))
	for name := range colormaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ColormapByName resolves a preset name.
func ColormapByName(name string) (Colormap, error) {
	g, ok := colormaps[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown colormap %q; valid: %s", name, strings.Join(ColormapNames(), ", "))
	}
	return g, nil
}

// At returns the colour at t in [0, 1], blending between the two bracketing
// keypoints in HCL space. Values outside [0, 1] clamp to the ends.
func (g Colormap) At(t float64) colorful.Color {
	if math.IsNaN(t) || t <= g[0].Pos {
		return g[0].Col
	}
	if t >= g[len(g)-1].Pos {
		return g[len(g)-1].Col
	}
	for i := 0; i < len(g)-1; i++ {
		c1, c2 := g[i], g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			// We are in between c1 and c2. Go blend them!
			frac := (t - c1.Pos) / (c2.Pos - c1.Pos)
			return c1.Col.BlendHcl(c2.Col, frac).Clamped()
		}
	}
	return g[len(g)-1].Col
}

// Map normalizes v over [lo, hi] and returns the RGBA colour for it.
// A degenerate range maps everything to the low end.
func (g Colormap) Map(v, lo, hi float64) color.RGBA {
	t := 0.0
	if hi > lo {
		t = (v - lo) / (hi - lo)
	}
	r, gg, b := g.At(t).Clamped().RGB255()
	return color.RGBA{R: r, G: gg, B: b, A: 0xff}
}
