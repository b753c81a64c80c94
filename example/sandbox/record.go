package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/disgoorg/json"
	"github.com/oomph-ac/locomotion/movement"
)

// frameRecord is a single line of a recording.
type frameRecord struct {
	Tick        uint64     `json:"tick"`
	Time        float64    `json:"time"`
	Position    [3]float32 `json:"position"`
	Velocity    [3]float32 `json:"velocity"`
	Orientation float32    `json:"orientation"`
	Grounded    bool       `json:"grounded"`
	Jumping     bool       `json:"jumping"`
	Stepping    bool       `json:"stepping"`
}

// recorder writes emitted frames to a file as JSON lines. A nil recorder discards everything.
type recorder struct {
	f *os.File
	w *bufio.Writer
}

func newRecorder(path string) (*recorder, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating recording: %w", err)
	}
	return &recorder{f: f, w: bufio.NewWriter(f)}, nil
}

func (r *recorder) write(f movement.Frame) error {
	if r == nil {
		return nil
	}
	data, err := json.Marshal(frameRecord{
		Tick:        f.Tick,
		Time:        f.Time,
		Position:    f.Position,
		Velocity:    f.Velocity,
		Orientation: f.Orientation,
		Grounded:    f.Grounded,
		Jumping:     f.Jumping,
		Stepping:    f.Stepping,
	})
	if err != nil {
		return err
	}
	if _, err := r.w.Write(data); err != nil {
		return err
	}
	return r.w.WriteByte('\n')
}

func (r *recorder) Close() error {
	if r == nil {
		return nil
	}
	if err := r.w.Flush(); err != nil {
		_ = r.f.Close()
		return err
	}
	return r.f.Close()
}
