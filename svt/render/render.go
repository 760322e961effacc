// Package render turns one mesh layer into an image: orthographic camera,
// painter-ordered triangle fill, colormapped scalars. It is deliberately a
// software rasterizer — good enough for 2D and shell-like CFD output, with
// no GPU or windowing dependency.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/GregTheMadMonk/mhfe-svt/svt/vtk"
)

// Options configures a single-frame render.
type Options struct {
	Width  int
	Height int
	Camera Camera
	// Colormap defaults to viridis when nil.
	Colormap Colormap
	// Layer selects the attribute to colour by; empty means the mesh's
	// first layer.
	Layer string
	// Min/Max pin the scalar range. Min == Max derives the range from
	// this mesh alone.
	Min, Max   float64
	Background color.RGBA
}

// Render draws the mesh coloured by the selected layer. The projected mesh
// is auto-fitted to the image with a small margin, so the camera only
// chooses direction and relative zoom.
func Render(mesh *vtk.Mesh, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("image size must be positive, got %dx%d", opts.Width, opts.Height)
	}
	if err := opts.Camera.Validate(); err != nil {
		return nil, err
	}
	cmap := opts.Colormap
	if cmap == nil {
		cmap = colormaps["viridis"]
	}
	if len(mesh.Points) == 0 {
		return nil, fmt.Errorf("mesh has no points")
	}

	layerName := opts.Layer
	if layerName == "" {
		layers := mesh.Layers()
		if len(layers) == 0 {
			return nil, fmt.Errorf("mesh has no data layers")
		}
		layerName = layers[0]
	}
	layer, ok := mesh.Layer(layerName)
	if !ok {
		return nil, fmt.Errorf("mesh has no layer %q", layerName)
	}
	if layer.Attach == vtk.CellAttachment && len(layer.Values) != len(mesh.Cells) {
		return nil, fmt.Errorf("layer %q has %d values for %d cells", layerName, len(layer.Values), len(mesh.Cells))
	}
	if layer.Attach == vtk.PointAttachment && len(layer.Values) != len(mesh.Points) {
		return nil, fmt.Errorf("layer %q has %d values for %d points", layerName, len(layer.Values), len(mesh.Points))
	}

	lo, hi := opts.Min, opts.Max
	if lo == hi {
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, v := range layer.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}

	// Project every point, then fit the projected extent to the image.
	type viewPoint struct{ x, y, depth float64 }
	pts := make([]viewPoint, len(mesh.Points))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, p := range mesh.Points {
		x, y, d := opts.Camera.Project(p)
		pts[i] = viewPoint{x, y, d}
		minX, minY = math.Min(minX, x), math.Min(minY, y)
		maxX, maxY = math.Max(maxX, x), math.Max(maxY, y)
	}
	const margin = 0.95
	extX, extY := maxX-minX, maxY-minY
	s := math.Inf(1)
	if extX > 0 {
		s = float64(opts.Width) * margin / extX
	}
	if extY > 0 {
		s = math.Min(s, float64(opts.Height)*margin/extY)
	}
	if math.IsInf(s, 1) {
		s = 1 // single point or fully degenerate projection
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	toScreen := func(p viewPoint) (float64, float64) {
		return float64(opts.Width)/2 + (p.x-cx)*s,
			float64(opts.Height)/2 - (p.y-cy)*s
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	if len(mesh.Cells) == 0 {
		// Point cloud fallback: splat each point.
		for i, p := range pts {
			if layer.Attach != vtk.PointAttachment {
				break
			}
			x, y := toScreen(p)
			splat(img, x, y, cmap.Map(layer.Values[i], lo, hi))
		}
		return img, nil
	}

	// Painter's algorithm: draw far cells first.
	order := make([]int, len(mesh.Cells))
	depths := make([]float64, len(mesh.Cells))
	for ci, cell := range mesh.Cells {
		order[ci] = ci
		d := 0.0
		for _, pi := range cell {
			d += pts[pi].depth
		}
		depths[ci] = d / float64(len(cell))
	}
	sort.SliceStable(order, func(i, j int) bool { return depths[order[i]] < depths[order[j]] })

	for _, ci := range order {
		cell := mesh.Cells[ci]
		var v float64
		if layer.Attach == vtk.CellAttachment {
			v = layer.Values[ci]
		} else {
			for _, pi := range cell {
				v += layer.Values[pi]
			}
			v /= float64(len(cell))
		}
		col := cmap.Map(v, lo, hi)

		switch len(cell) {
		case 1:
			x, y := toScreen(pts[cell[0]])
			splat(img, x, y, col)
		case 2:
			x0, y0 := toScreen(pts[cell[0]])
			x1, y1 := toScreen(pts[cell[1]])
			drawLine(img, x0, y0, x1, y1, col)
		default:
			// Fan-triangulate polygons around the first vertex.
			x0, y0 := toScreen(pts[cell[0]])
			for k := 1; k < len(cell)-1; k++ {
				x1, y1 := toScreen(pts[cell[k]])
				x2, y2 := toScreen(pts[cell[k+1]])
				fillTriangle(img, x0, y0, x1, y1, x2, y2, col)
			}
		}
	}
	return img, nil
}

func splat(img *image.RGBA, x, y float64, col color.RGBA) {
	xi, yi := int(math.Round(x)), int(math.Round(y))
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			setIfInside(img, xi+dx, yi+dy, col)
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 float64, col color.RGBA) {
	steps := int(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		setIfInside(img, int(math.Round(x0+(x1-x0)*t)), int(math.Round(y0+(y1-y0)*t)), col)
	}
}

// fillTriangle covers every pixel whose center lies inside the triangle,
// winding-agnostic, with a half-pixel tolerance so adjacent cells leave no
// cracks.
func fillTriangle(img *image.RGBA, x0, y0, x1, y1, x2, y2 float64, col color.RGBA) {
	minX := int(math.Floor(math.Min(x0, math.Min(x1, x2))))
	maxX := int(math.Ceil(math.Max(x0, math.Max(x1, x2))))
	minY := int(math.Floor(math.Min(y0, math.Min(y1, y2))))
	maxY := int(math.Ceil(math.Max(y0, math.Max(y1, y2))))

	b := img.Bounds()
	minX, maxX = max(minX, b.Min.X), min(maxX, b.Max.X-1)
	minY, maxY = max(minY, b.Min.Y), min(maxY, b.Max.Y-1)

	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		drawLine(img, x0, y0, x2, y2, col)
		return
	}
	sign := 1.0
	if area < 0 {
		sign = -1.0
	}
	const tol = 0.5
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			w0 := sign * edge(x1, y1, x2, y2, px, py)
			w1 := sign * edge(x2, y2, x0, y0, px, py)
			w2 := sign * edge(x0, y0, x1, y1, px, py)
			if w0 >= -tol && w1 >= -tol && w2 >= -tol {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func setIfInside(img *image.RGBA, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, col)
	}
}
