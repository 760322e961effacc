// Package export encodes a rendered frame series as an animated GIF.
package export

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"os"

	"github.com/fogleman/ease"
	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"

	"github.com/GregTheMadMonk/mhfe-svt/svt"
	"github.com/GregTheMadMonk/mhfe-svt/svt/render"
)

// Options configures a GIF export.
type Options struct {
	// FPS sets playback speed. GIF stores delays in centiseconds, so the
	// effective ceiling is 100 fps; there is no artificial cap below that.
	FPS float64
	// OrbitDegrees rotates the camera around the focal point across the
	// whole animation (0 disables the orbit).
	OrbitDegrees float64
	// EaseOrbit accelerates into and out of the orbit instead of
	// sweeping linearly.
	EaseOrbit bool
	// Width/Height rescale the rendered frames; zero keeps render size.
	Width  int
	Height int
	// Loop is the GIF loop count: 0 loops forever, -1 plays once.
	Loop   int
	Render render.Options
}

// WriteGIF renders every frame of the series and encodes the animation.
func WriteGIF(w io.Writer, series *svt.Series, opts Options) error {
	if series.Len() == 0 {
		return fmt.Errorf("series has no frames")
	}
	if opts.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %v", opts.FPS)
	}
	delay := int(math.Round(100 / opts.FPS))
	if delay < 1 {
		delay = 1
	}

	out := &gif.GIF{LoopCount: opts.Loop}
	orbit := opts.OrbitDegrees * math.Pi / 180
	baseCamera := opts.Render.Camera

	for i := range series.Frames {
		frameOpts := opts.Render
		if orbit != 0 && series.Len() > 1 {
			t := float64(i) / float64(series.Len()-1)
			if opts.EaseOrbit {
				t = ease.InOutQuad(t)
			}
			frameOpts.Camera = baseCamera.Orbit(orbit * t)
		}
		img, err := render.Render(series.Frames[i].Mesh, frameOpts)
		if err != nil {
			return fmt.Errorf("rendering frame %q: %w", series.Frames[i].Name, err)
		}
		scaled := rescale(img, opts.Width, opts.Height)

		pal := image.NewPaletted(scaled.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pal, scaled.Bounds(), scaled, image.Point{})
		out.Image = append(out.Image, pal)
		out.Delay = append(out.Delay, delay)
		logrus.Debugf("encoded frame %d/%d (%s)", i+1, series.Len(), series.Frames[i].Name)
	}
	return gif.EncodeAll(w, out)
}

// WriteGIFFile is WriteGIF to a file path.
func WriteGIFFile(path string, series *svt.Series, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteGIF(f, series, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func rescale(img *image.RGBA, w, h int) *image.RGBA {
	if w <= 0 || h <= 0 || (img.Bounds().Dx() == w && img.Bounds().Dy() == h) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}
