package cmd

import (
	"context"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/GregTheMadMonk/mhfe-svt/svt"
	"github.com/GregTheMadMonk/mhfe-svt/svt/render"
	"github.com/GregTheMadMonk/mhfe-svt/svt/stream"
	"github.com/GregTheMadMonk/mhfe-svt/svt/vtk"
)

var (
	streamBroker   string
	streamTopic    string
	streamUsername string
	streamPassword string
	streamFPS      float64
	streamLoop     bool
	streamWatch    bool
)

// streamCmd publishes rendered frames to an MQTT broker, either playing the
// directory contents once/looped or following a directory a solver is still
// writing into.
var streamCmd = &cobra.Command{
	Use:   "stream DIR...",
	Short: "Publish rendered frames to an MQTT broker",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadViewConfig()
		if cmd.Flags().Changed("fps") {
			cfg.FPS = streamFPS
		}
		if cmd.Flags().Changed("broker") {
			cfg.Mqtt.URL = streamBroker
		}
		if cmd.Flags().Changed("topic") {
			cfg.Mqtt.Topic = streamTopic
		}
		if cmd.Flags().Changed("username") {
			cfg.Mqtt.Username = streamUsername
		}
		if cmd.Flags().Changed("password") {
			cfg.Mqtt.Password = streamPassword
		}

		ctx := cmd.Context()

		// Live mode: register the watcher before the directory is listed,
		// so frames the solver writes during the initial load show up as
		// events instead of falling between listing and watching.
		// Watching covers the first directory only; finished runs given as
		// extra directories are part of the played-back backlog.
		var events <-chan string
		if streamWatch {
			var err error
			events, err = svt.WatchFrames(ctx, args[0], svt.WatchConfig{})
			if err != nil {
				logrus.Fatalf("%v", err)
			}
		}

		// A still-empty run directory is fine in watch mode: everything
		// arrives through the watcher.
		series := loadSeries(ctx, args, streamWatch)

		streamer, err := stream.NewStreamer(stream.Config{
			URL:      cfg.Mqtt.URL,
			Username: cfg.Mqtt.Username,
			Password: cfg.Mqtt.Password,
			Topic:    cfg.Mqtt.Topic,
		})
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		defer streamer.Close()

		// Render settings derive from frame data, which in watch mode may
		// not exist yet; resolve them on the first frame seen.
		var (
			opts     render.Options
			haveOpts bool
		)
		sink := func(i int, f *svt.Frame) error {
			if !haveOpts {
				opts = renderOptions(cfg, &svt.Series{Frames: []svt.Frame{*f}})
				haveOpts = true
			}
			img, err := render.Render(f.Mesh, opts)
			if err != nil {
				return err
			}
			return streamer.PublishFrame(i, img)
		}
		if series.Len() > 0 {
			// Series-wide stats give a stable colormap range across the
			// backlog.
			opts = renderOptions(cfg, series)
			haveOpts = true

			player, err := svt.NewPlayer(series, cfg.FPS, streamLoop && !streamWatch, sink)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			if err := player.Run(ctx); err != nil {
				logrus.Fatalf("streaming: %v", err)
			}
		}

		if !streamWatch {
			return
		}
		if err := followFrames(ctx, series, events, sink); err != nil {
			logrus.Fatalf("streaming: %v", err)
		}
	},
}

// followFrames forwards watcher events into the sink, continuing the frame
// numbering where the played-back series left off. Events for files that
// were already part of the series are dropped: a frame written while the
// directory was being listed is seen by both the listing and the watcher.
func followFrames(ctx context.Context, series *svt.Series, events <-chan string, sink svt.SinkFunc) error {
	seen := make(map[string]bool, series.Len())
	for i := range series.Frames {
		seen[series.Frames[i].Path] = true
	}
	next := series.Len()
	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-events:
			if !ok {
				return nil
			}
			if seen[path] {
				continue
			}
			seen[path] = true
			mesh, err := vtk.ReadFile(path)
			if err != nil {
				logrus.Warnf("skipping %s: %v", path, err)
				continue
			}
			logrus.Infof("streaming new frame %s", path)
			frame := &svt.Frame{Name: filepath.Base(path), Path: path, Mesh: mesh}
			if err := sink(next, frame); err != nil {
				return err
			}
			next++
		}
	}
}

func init() {
	streamCmd.Flags().StringVar(&streamBroker, "broker", "", "MQTT broker URL, e.g. tcp://localhost:1883")
	streamCmd.Flags().StringVar(&streamTopic, "topic", "svt/frames", "MQTT topic to publish frames on")
	streamCmd.Flags().StringVar(&streamUsername, "username", "", "MQTT username")
	streamCmd.Flags().StringVar(&streamPassword, "password", "", "MQTT password")
	streamCmd.Flags().Float64Var(&streamFPS, "fps", 60, "Publish rate in frames per second")
	streamCmd.Flags().BoolVar(&streamLoop, "loop", false, "Loop the sequence forever")
	streamCmd.Flags().BoolVar(&streamWatch, "watch", false, "Follow the directory for new frames after playing existing ones")
	rootCmd.AddCommand(streamCmd)
}
