package svt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/GregTheMadMonk/mhfe-svt/svt/vtk"
)

// Frame is one loaded time step of a simulation output sequence.
type Frame struct {
	Name string // base filename, the sort key
	Path string
	Mesh *vtk.Mesh
}

// Series is an ordered sequence of frames, the tool's central object.
type Series struct {
	Frames []Frame
}

// ProgressFunc reports loading progress, one call per file.
type ProgressFunc func(name string, done, total int)

// LoadConfig controls series loading. The zero value is usable: only .vtk
// entries are considered and names without a digit run are an error.
type LoadConfig struct {
	// Extensions filters directory entries, case-insensitively.
	// Empty means {".vtk"}.
	Extensions []string
	// Lenient orders names without a digit run bytewise instead of
	// failing the whole load.
	Lenient bool
	// Progress, when set, is called after each file finishes loading.
	Progress ProgressFunc
}

// Len returns the number of frames.
func (s *Series) Len() int { return len(s.Frames) }

// Layers lists the attribute layers of the first frame, which is what the
// whole series is assumed to carry.
func (s *Series) Layers() []string {
	if len(s.Frames) == 0 {
		return nil
	}
	return s.Frames[0].Mesh.Layers()
}

// LoadSeries reads every frame file from the given directories and returns
// them as one naturally ordered sequence. Frames from multiple directories
// are merged by natural comparison of their base names; equal names keep
// the given directory order. Loading aborts between files when ctx is
// cancelled.
func LoadSeries(ctx context.Context, cfg LoadConfig, dirs ...string) (*Series, error) {
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no directories given")
	}
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = []string{".vtk"}
	}

	var frames []Frame
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !hasExtension(e.Name(), exts) {
				continue
			}
			frames = append(frames, Frame{Name: e.Name(), Path: filepath.Join(dir, e.Name())})
		}
	}

	if !cfg.Lenient {
		for _, f := range frames {
			if !strings.ContainsAny(f.Name, "0123456789") {
				return nil, &MalformedNameError{Name: f.Name}
			}
		}
	}
	slices.SortStableFunc(frames, func(a, b Frame) int { return Compare(a.Name, b.Name) })

	for i := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logrus.Debugf("loading %s", frames[i].Path)
		mesh, err := vtk.ReadFile(frames[i].Path)
		if err != nil {
			return nil, fmt.Errorf("loading frame %d: %w", i, err)
		}
		frames[i].Mesh = mesh
		if cfg.Progress != nil {
			cfg.Progress(frames[i].Name, i+1, len(frames))
		}
	}
	return &Series{Frames: frames}, nil
}

func hasExtension(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, want := range exts {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}
