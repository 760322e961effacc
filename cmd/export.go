package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/GregTheMadMonk/mhfe-svt/svt"
	"github.com/GregTheMadMonk/mhfe-svt/svt/export"
)

var (
	exportOut      string
	exportFPS      float64
	exportLayer    string
	exportColormap string
	exportWidth    int
	exportHeight   int
	exportCamPos   []float64
	exportCamFocal []float64
	exportCamUp    []float64
	exportZoom     float64
	exportOrbit    float64
	exportEase     bool
	exportRangeMin float64
	exportRangeMax float64
	exportOnce     bool
	exportOutW     int
	exportOutH     int
)

// exportCmd renders a frame sequence to an animated GIF.
var exportCmd = &cobra.Command{
	Use:   "export DIR...",
	Short: "Export a frame sequence as an animated GIF",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadViewConfig()
		applyExportFlags(cmd, &cfg)
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("%v", err)
		}

		series := loadSeries(cmd.Context(), args, false)

		loop := 0
		if exportOnce {
			loop = -1
		}
		opts := export.Options{
			FPS:          cfg.FPS,
			OrbitDegrees: cfg.OrbitDegrees,
			EaseOrbit:    cfg.EaseOrbit,
			Width:        exportOutW,
			Height:       exportOutH,
			Loop:         loop,
			Render:       renderOptions(cfg, series),
		}
		if err := export.WriteGIFFile(exportOut, series, opts); err != nil {
			logrus.Fatalf("export failed: %v", err)
		}
		logrus.Infof("wrote %s: %d frames at %g fps", exportOut, series.Len(), cfg.FPS)
	},
}

// applyExportFlags overrides config fields with explicitly set flags.
func applyExportFlags(cmd *cobra.Command, cfg *svt.ViewConfig) {
	if cmd.Flags().Changed("fps") {
		cfg.FPS = exportFPS
	}
	if cmd.Flags().Changed("layer") {
		cfg.Layer = exportLayer
	}
	if cmd.Flags().Changed("colormap") {
		cfg.Colormap = exportColormap
	}
	if cmd.Flags().Changed("width") {
		cfg.Width = exportWidth
	}
	if cmd.Flags().Changed("height") {
		cfg.Height = exportHeight
	}
	if cmd.Flags().Changed("camera-position") {
		cfg.Camera.Position = toVec3("camera-position", exportCamPos)
	}
	if cmd.Flags().Changed("camera-focal-point") {
		cfg.Camera.FocalPoint = toVec3("camera-focal-point", exportCamFocal)
	}
	if cmd.Flags().Changed("camera-up") {
		cfg.Camera.Up = toVec3("camera-up", exportCamUp)
	}
	if cmd.Flags().Changed("zoom") {
		cfg.Camera.Zoom = exportZoom
	}
	if cmd.Flags().Changed("orbit") {
		cfg.OrbitDegrees = exportOrbit
	}
	if cmd.Flags().Changed("ease-orbit") {
		cfg.EaseOrbit = exportEase
	}
	if cmd.Flags().Changed("range-min") || cmd.Flags().Changed("range-max") {
		cfg.Range = &svt.ScalarRange{Min: exportRangeMin, Max: exportRangeMax}
	}
}

func toVec3(flag string, v []float64) [3]float64 {
	if len(v) != 3 {
		logrus.Fatalf("--%s needs exactly 3 components, got %d", flag, len(v))
	}
	return [3]float64{v[0], v[1], v[2]}
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "out.gif", "Output GIF path")
	exportCmd.Flags().Float64Var(&exportFPS, "fps", 60, "Playback frames per second")
	exportCmd.Flags().StringVar(&exportLayer, "layer", "", "Data layer to color by (default: first layer)")
	exportCmd.Flags().StringVar(&exportColormap, "colormap", "viridis", "Colormap preset")
	exportCmd.Flags().IntVar(&exportWidth, "width", 640, "Output width in pixels")
	exportCmd.Flags().IntVar(&exportHeight, "height", 480, "Output height in pixels")
	exportCmd.Flags().Float64SliceVar(&exportCamPos, "camera-position", []float64{0, 0, 1}, "Camera position x,y,z")
	exportCmd.Flags().Float64SliceVar(&exportCamFocal, "camera-focal-point", []float64{0, 0, 0}, "Camera focal point x,y,z")
	exportCmd.Flags().Float64SliceVar(&exportCamUp, "camera-up", []float64{0, 1, 0}, "Camera up vector x,y,z")
	exportCmd.Flags().Float64Var(&exportZoom, "zoom", 1, "Camera zoom factor")
	exportCmd.Flags().Float64Var(&exportOrbit, "orbit", 0, "Total camera orbit in degrees across the animation")
	exportCmd.Flags().BoolVar(&exportEase, "ease-orbit", false, "Ease the orbit in and out instead of a linear sweep")
	exportCmd.Flags().Float64Var(&exportRangeMin, "range-min", 0, "Colormap range minimum (default: series-wide minimum)")
	exportCmd.Flags().Float64Var(&exportRangeMax, "range-max", 0, "Colormap range maximum (default: series-wide maximum)")
	exportCmd.Flags().BoolVar(&exportOnce, "once", false, "Play the GIF once instead of looping")
	exportCmd.Flags().IntVar(&exportOutW, "output-width", 0, "Rescale the GIF to this width (default: render width)")
	exportCmd.Flags().IntVar(&exportOutH, "output-height", 0, "Rescale the GIF to this height (default: render height)")
	rootCmd.AddCommand(exportCmd)
}
