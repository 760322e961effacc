package render

import (
	"fmt"
	"math"
)

// Camera is an orthographic viewing camera. View coordinates come from
// projecting world points onto the camera's right/up axes; depth along the
// viewing direction orders cells back to front.
type Camera struct {
	Position   [3]float64
	FocalPoint [3]float64
	Up         [3]float64
	Zoom       float64
}

// DefaultCamera looks down the Z axis at the XY plane, which is where 2D
// CFD meshes live.
func DefaultCamera() Camera {
	return Camera{
		Position: [3]float64{0, 0, 1},
		Up:       [3]float64{0, 1, 0},
		Zoom:     1,
	}
}

// Validate rejects cameras with no usable view basis.
func (c Camera) Validate() error {
	if c.Zoom <= 0 {
		return fmt.Errorf("camera zoom must be positive, got %v", c.Zoom)
	}
	if norm(sub(c.FocalPoint, c.Position)) == 0 {
		return fmt.Errorf("camera position coincides with focal point")
	}
	forward := normalize(sub(c.FocalPoint, c.Position))
	if norm(cross(forward, c.Up)) == 0 {
		return fmt.Errorf("camera up vector is parallel to the view direction")
	}
	return nil
}

// Orbit returns a camera rotated by angle radians around the axis through
// the focal point along Up. A full-orbit GIF export is a sequence of these.
func (c Camera) Orbit(angle float64) Camera {
	axis := normalize(c.Up)
	d := sub(c.Position, c.FocalPoint)
	// Rodrigues rotation of the offset vector.
	cosA, sinA := math.Cos(angle), math.Sin(angle)
	term1 := scale(d, cosA)
	term2 := scale(cross(axis, d), sinA)
	term3 := scale(axis, dot(axis, d)*(1-cosA))
	out := c
	out.Position = add(c.FocalPoint, add(term1, add(term2, term3)))
	return out
}

// Project maps a world point to view coordinates: x along the camera's
// right axis, y along its up axis (both scaled by Zoom), and depth along
// the viewing direction with larger values closer to the camera.
func (c Camera) Project(p [3]float64) (x, y, depth float64) {
	forward := normalize(sub(c.FocalPoint, c.Position))
	right := normalize(cross(forward, c.Up))
	up := cross(right, forward)
	d := sub(p, c.FocalPoint)
	return dot(d, right) * c.Zoom, dot(d, up) * c.Zoom, -dot(d, forward)
}

func sub(a, b [3]float64) [3]float64 { return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func add(a, b [3]float64) [3]float64 { return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }

func scale(a [3]float64, s float64) [3]float64 { return [3]float64{a[0] * s, a[1] * s, a[2] * s} }

func dot(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func norm(a [3]float64) float64 { return math.Sqrt(dot(a, a)) }

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(a [3]float64) [3]float64 {
	n := norm(a)
	if n == 0 {
		return a
	}
	return scale(a, 1/n)
}
