package svt

import (
	"context"
	"fmt"
	"time"
)

// SinkFunc consumes one frame during playback. Returning an error stops the
// player.
type SinkFunc func(index int, frame *Frame) error

// Player advances through a series at a fixed rate and hands each frame to
// a sink. It replaces the original viewer's background play loop: the sink
// is the display.
type Player struct {
	series *Series
	fps    float64
	loop   bool
	sink   SinkFunc
}

// NewPlayer creates a player over the series. fps must be positive.
func NewPlayer(series *Series, fps float64, loop bool, sink SinkFunc) (*Player, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %v", fps)
	}
	if sink == nil {
		return nil, fmt.Errorf("player needs a sink")
	}
	return &Player{series: series, fps: fps, loop: loop, sink: sink}, nil
}

// Run plays the series until it ends (or forever when looping), the sink
// fails, or ctx is cancelled. Cancellation is not an error.
func (p *Player) Run(ctx context.Context) error {
	if p.series.Len() == 0 {
		return nil
	}
	interval := time.Duration(float64(time.Second) / p.fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	i := 0
	for {
		if err := p.sink(i, &p.series.Frames[i]); err != nil {
			return err
		}
		i++
		if i >= p.series.Len() {
			if !p.loop {
				return nil
			}
			i = 0
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
