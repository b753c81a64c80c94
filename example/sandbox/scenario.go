package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/movement"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// scenario is a scripted run of the controller through a small world.
type scenario struct {
	Name string `toml:"name" yaml:"name"`
	// TickRate is the amount of ticks per second.
	TickRate int `toml:"tick_rate" yaml:"tick_rate"`
	Ticks    int `toml:"ticks" yaml:"ticks"`

	Spawn     []float32 `toml:"spawn" yaml:"spawn"`
	CameraYaw float32   `toml:"camera_yaw" yaml:"camera_yaw"`
	// Boxes are the world boxes as min x, y, z followed by max x, y, z.
	Boxes [][]float32 `toml:"boxes" yaml:"boxes"`

	Steps []scenarioStep `toml:"steps" yaml:"steps"`
}

// scenarioStep holds input actions, overrides the avatar velocity or moves the ground under it, for a
// range of ticks.
type scenarioStep struct {
	From  int      `toml:"from" yaml:"from"`
	To    int      `toml:"to" yaml:"to"`
	Press []string `toml:"press" yaml:"press"`
	// Override is a velocity forced on the avatar by the host, bypassing the controller.
	Override []float32 `toml:"override" yaml:"override"`
	// Platform is the velocity of whatever the avatar stands on, carrying it along on top of its own
	// movement.
	Platform []float32 `toml:"platform" yaml:"platform"`
}

func loadScenario(path string) (scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scenario{}, fmt.Errorf("error reading scenario: %w", err)
	}

	sc := scenario{TickRate: 60, Ticks: 120}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &sc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &sc)
	default:
		return scenario{}, fmt.Errorf("unsupported scenario file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return scenario{}, fmt.Errorf("error decoding scenario %s: %w", path, err)
	}
	return sc, sc.validate()
}

func (sc scenario) validate() error {
	if sc.TickRate <= 0 {
		return fmt.Errorf("scenario %q: tick rate must be positive", sc.Name)
	}
	if len(sc.Spawn) != 0 && len(sc.Spawn) != 3 {
		return fmt.Errorf("scenario %q: spawn needs 3 components", sc.Name)
	}
	for i, b := range sc.Boxes {
		if len(b) != 6 {
			return fmt.Errorf("scenario %q: box %d needs 6 components", sc.Name, i)
		}
	}
	for i, st := range sc.Steps {
		if len(st.Override) != 0 && len(st.Override) != 3 {
			return fmt.Errorf("scenario %q: step %d override needs 3 components", sc.Name, i)
		}
		if len(st.Platform) != 0 && len(st.Platform) != 3 {
			return fmt.Errorf("scenario %q: step %d platform needs 3 components", sc.Name, i)
		}
		for _, name := range st.Press {
			if _, ok := actionByName(name); !ok {
				return fmt.Errorf("scenario %q: step %d has unknown action %q", sc.Name, i, name)
			}
		}
	}
	return nil
}

func (sc scenario) dt() float32 {
	return 1 / float32(sc.TickRate)
}

func (sc scenario) spawn() mgl32.Vec3 {
	if len(sc.Spawn) != 3 {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{sc.Spawn[0], sc.Spawn[1], sc.Spawn[2]}
}

func (sc scenario) boxes() []cube.BBox {
	boxes := make([]cube.BBox, 0, len(sc.Boxes))
	for _, b := range sc.Boxes {
		boxes = append(boxes, cube.Box(b[0], b[1], b[2], b[3], b[4], b[5]))
	}
	return boxes
}

// stepsAt returns the steps active at the tick passed.
func (sc scenario) stepsAt(tick int) []scenarioStep {
	var active []scenarioStep
	for _, st := range sc.Steps {
		if tick >= st.From && tick <= st.To {
			active = append(active, st)
		}
	}
	return active
}

func actionByName(name string) (movement.Action, bool) {
	for a := movement.ActionForward; a <= movement.ActionWalk; a++ {
		if a.String() == strings.ToLower(name) {
			return a, true
		}
	}
	return 0, false
}

// playground is the world used by the interactive sandbox when no scenario is given: a raised floor
// with a step, a low platform and a wall.
func playground() scenario {
	return scenario{
		Name:     "playground",
		TickRate: 60,
		Spawn:    []float32{0, 1, 0},
		Boxes: [][]float32{
			{-20, 0, -20, 20, 1, 20},
			{-2, 1, 3, 2, 1.3, 5},
			{-2, 1.3, 5, 2, 1.6, 7},
			{4, 1, -2, 8, 2.5, 2},
			{-10, 1, -20, -9, 4, 20},
		},
	}
}
