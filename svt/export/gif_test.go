package export

import (
	"bytes"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregTheMadMonk/mhfe-svt/svt"
	"github.com/GregTheMadMonk/mhfe-svt/svt/render"
	"github.com/GregTheMadMonk/mhfe-svt/svt/vtk"
)

func testSeries(n int) *svt.Series {
	s := &svt.Series{}
	for i := 0; i < n; i++ {
		s.Frames = append(s.Frames, svt.Frame{
			Name: "frame.vtk",
			Mesh: &vtk.Mesh{
				Points: [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
				Cells:  [][]int{{0, 1, 2}},
				CellData: []vtk.DataArray{
					{Name: "pressure", Attach: vtk.CellAttachment, Values: []float64{float64(i)}},
				},
			},
		})
	}
	return s
}

func testOptions() Options {
	return Options{
		FPS: 25,
		Render: render.Options{
			Width:      32,
			Height:     32,
			Camera:     render.DefaultCamera(),
			Background: color.RGBA{A: 0xff},
			Min:        0,
			Max:        3,
		},
	}
}

func TestWriteGIF_EncodesAllFramesAtRequestedRate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGIF(&buf, testSeries(4), testOptions()))

	decoded, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, decoded.Image, 4)
	// 25 fps is a 4cs delay per frame.
	assert.Equal(t, []int{4, 4, 4, 4}, decoded.Delay)
	assert.Equal(t, 0, decoded.LoopCount)
	assert.Equal(t, 32, decoded.Image[0].Bounds().Dx())
}

func TestWriteGIF_HighFPSIsNotCapped(t *testing.T) {
	// The old tool capped export frame rate; here only the GIF format's
	// own 10ms delay unit limits speed.
	opts := testOptions()
	opts.FPS = 100
	var buf bytes.Buffer
	require.NoError(t, WriteGIF(&buf, testSeries(2), opts))

	decoded, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, decoded.Delay)
}

func TestWriteGIF_RescalesOutput(t *testing.T) {
	opts := testOptions()
	opts.Width, opts.Height = 16, 8
	var buf bytes.Buffer
	require.NoError(t, WriteGIF(&buf, testSeries(1), opts))

	decoded, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Equal(t, 16, decoded.Image[0].Bounds().Dx())
	assert.Equal(t, 8, decoded.Image[0].Bounds().Dy())
}

func TestWriteGIF_OrbitKeepsFrameCount(t *testing.T) {
	opts := testOptions()
	opts.OrbitDegrees = 360
	opts.EaseOrbit = true
	var buf bytes.Buffer
	require.NoError(t, WriteGIF(&buf, testSeries(5), opts))

	decoded, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, decoded.Image, 5)
}

func TestWriteGIF_PlayOnce(t *testing.T) {
	opts := testOptions()
	opts.Loop = -1
	var buf bytes.Buffer
	require.NoError(t, WriteGIF(&buf, testSeries(2), opts))

	decoded, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Equal(t, -1, decoded.LoopCount)
}

func TestWriteGIF_RejectsBadInputs(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteGIF(&buf, &svt.Series{}, testOptions()))

	opts := testOptions()
	opts.FPS = 0
	assert.Error(t, WriteGIF(&buf, testSeries(1), opts))
}

func TestWriteGIF_RenderErrorNamesFrame(t *testing.T) {
	s := testSeries(1)
	s.Frames[0].Mesh.CellData = nil
	s.Frames[0].Mesh.PointData = nil
	var buf bytes.Buffer
	err := WriteGIF(&buf, s, testOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame.vtk")
}

func TestWriteGIFFile_WritesToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.gif")
	require.NoError(t, WriteGIFFile(path, testSeries(2), testOptions()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := gif.DecodeAll(f)
	require.NoError(t, err)
	assert.Len(t, decoded.Image, 2)
}
