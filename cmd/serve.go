package cmd

import (
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/GregTheMadMonk/mhfe-svt/svt"
	"github.com/GregTheMadMonk/mhfe-svt/svt/render"
)

var (
	serveAddr     string
	serveLayer    string
	serveColormap string
)

// serveCmd exposes a loaded series over HTTP: rendered frames as PNG plus a
// tiny scrubber page, the headless stand-in for the original slider UI.
var serveCmd = &cobra.Command{
	Use:   "serve DIR...",
	Short: "Serve rendered frames over HTTP with a scrubber page",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadViewConfig()
		if cmd.Flags().Changed("layer") {
			cfg.Layer = serveLayer
		}
		if cmd.Flags().Changed("colormap") {
			cfg.Colormap = serveColormap
		}

		series := loadSeries(cmd.Context(), args, false)
		opts := renderOptions(cfg, series)

		mux := http.NewServeMux()
		mux.HandleFunc("/", indexHandler(series))
		mux.HandleFunc("/meta", metaHandler(series, opts.Layer))
		mux.HandleFunc("/frame/", frameHandler(series, opts))

		srv := &http.Server{Addr: serveAddr, Handler: mux}
		go func() {
			<-cmd.Context().Done()
			srv.Close()
		}()
		logrus.Infof("serving %d frames on %s", series.Len(), serveAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("%v", err)
		}
	},
}

func metaHandler(series *svt.Series, layer string) http.HandlerFunc {
	type meta struct {
		Frames []string `json:"frames"`
		Layers []string `json:"layers"`
		Layer  string   `json:"layer"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		m := meta{Layers: series.Layers(), Layer: layer}
		for i := range series.Frames {
			m.Frames = append(m.Frames, series.Frames[i].Name)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(m)
	}
}

func frameHandler(series *svt.Series, opts render.Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/frame/"), ".png")
		i, err := strconv.Atoi(name)
		if err != nil || i < 0 || i >= series.Len() {
			http.Error(w, "no such frame", http.StatusNotFound)
			return
		}
		img, err := render.Render(series.Frames[i].Mesh, opts)
		if err != nil {
			logrus.Warnf("rendering frame %d: %v", i, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, img); err != nil {
			logrus.Warnf("encoding frame %d: %v", i, err)
		}
	}
}

func indexHandler(series *svt.Series) http.HandlerFunc {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html><head><title>svt</title></head><body>
<img id="frame" src="/frame/0.png">
<br><input id="slider" type="range" min="0" max="%d" value="0"
 oninput="document.getElementById('frame').src='/frame/'+this.value+'.png'">
</body></html>`, series.Len()-1)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().StringVar(&serveLayer, "layer", "", "Data layer to color by (default: first layer)")
	serveCmd.Flags().StringVar(&serveColormap, "colormap", "viridis", "Colormap preset")
	rootCmd.AddCommand(serveCmd)
}
