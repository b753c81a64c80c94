package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/disgoorg/json"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/movement"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestScenarios(t *testing.T) {
	tests := []struct {
		file  string
		check func(t *testing.T, sum summary)
	}{
		{"step.yaml", func(t *testing.T, sum summary) {
			if sum.StepTicks == 0 {
				t.Fatalf("expected the step to be climbed")
			}
			if sum.Position.Z() < 3 {
				t.Fatalf("expected to walk past the step, at %v", sum.Position)
			}
		}},
		{"jump.toml", func(t *testing.T, sum summary) {
			if math32.Abs(sum.MaxHeight-2.9) > 0.1 {
				t.Fatalf("expected a standing jump of about 1.9, peaked at %f", sum.MaxHeight)
			}
		}},
		{"conveyor.yaml", func(t *testing.T, sum summary) {
			if math32.Abs(sum.Position.Z()-3) > 1e-2 || math32.Abs(sum.Position.X()) > 1e-4 {
				t.Fatalf("expected the platform to carry the avatar 3 blocks along z, at %v", sum.Position)
			}
			if sum.Resyncs != 0 {
				t.Fatalf("expected platform movement not to cause resyncs, got %d", sum.Resyncs)
			}
			if !sum.Supported {
				t.Fatalf("expected the avatar to rest on the floor")
			}
		}},
		{"knockback.yaml", func(t *testing.T, sum summary) {
			if sum.Resyncs == 0 {
				t.Fatalf("expected the override to cause a resync")
			}
			if sum.Position.X() > 3.7+1e-3 {
				t.Fatalf("expected the wall to stop the avatar, at %v", sum.Position)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			sc, err := loadScenario(filepath.Join("scenarios", tt.file))
			if err != nil {
				t.Fatalf("unexpected error loading scenario: %v", err)
			}
			log, _ := test.NewNullLogger()
			sum, err := runScenario(log, settings.DefaultSettings(), sc, nil, nil)
			if err != nil {
				t.Fatalf("unexpected error running scenario: %v", err)
			}
			if sum.Ticks != sc.Ticks || !sum.Grounded {
				t.Fatalf("expected to finish on the ground after %d ticks, got %+v", sc.Ticks, sum)
			}
			tt.check(t, sum)
		})
	}
}

func TestScenarioValidation(t *testing.T) {
	dir := t.TempDir()
	for name, data := range map[string]string{
		"bad_box.yaml":      "boxes:\n  - [0, 0, 0, 1, 1]\n",
		"bad_action.yaml":   "steps:\n  - {from: 1, to: 2, press: [crouch]}\n",
		"bad_rate.toml":     "tick_rate = -1\n",
		"bad_platform.yaml": "steps:\n  - {from: 1, to: 2, platform: [1, 2]}\n",
		"bad.json":          "{}",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := loadScenario(path); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.jsonl")
	rec, err := newRecorder(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sc := playground()
	sc.Ticks = 5
	log, _ := test.NewNullLogger()
	if _, err := runScenario(log, settings.DefaultSettings(), sc, rec, nil); err != nil {
		t.Fatalf("unexpected error running scenario: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("unexpected error closing recorder: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	if len(lines) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(lines))
	}
	var last frameRecord
	if err := json.Unmarshal(lines[4], &last); err != nil {
		t.Fatalf("unexpected error decoding frame: %v", err)
	}
	if last.Tick != 5 || !last.Grounded {
		t.Fatalf("unexpected frame %+v", last)
	}

	var nilRec *recorder
	if err := nilRec.write(movement.Frame{}); err != nil || nilRec.Close() != nil {
		t.Fatalf("expected a nil recorder to discard frames")
	}
}

func TestSessionMovesOnKeys(t *testing.T) {
	log, _ := test.NewNullLogger()
	screen := tcell.NewSimulationScreen("UTF-8")
	g, err := newSession(log, screen, settings.DefaultSettings(), playground(), false, nil)
	if err != nil {
		t.Fatalf("unexpected error starting session: %v", err)
	}
	defer g.cleanup()

	start := g.avatar.Position()
	for i := 0; i < 30; i++ {
		if !g.handleInput(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone)) {
			t.Fatalf("expected w to keep the session running")
		}
		g.tick()
	}
	g.draw()

	pos := g.avatar.Position()
	if pos.Z()-start.Z() < 0.5 {
		t.Fatalf("expected w to move the avatar forward, moved from %v to %v", start, pos)
	}
	if math32.Abs(pos.X()-start.X()) > 1e-3 {
		t.Fatalf("expected no sideways movement, moved from %v to %v", start, pos)
	}

	cells, _, _ := screen.GetContents()
	if len(cells) == 0 || string(cells[0].Bytes) != "t" {
		t.Fatalf("expected the status lines to be drawn")
	}

	g.handleInput(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	if g.status != "sprint: true" || !g.input.Pressed(movement.ActionSprint) {
		t.Fatalf("expected r to toggle sprint on, status %q", g.status)
	}
	g.avatar.Teleport(mgl32.Vec3{0, -40, 0})
	g.tick()
	if pos := g.avatar.Position(); pos != g.spawn {
		t.Fatalf("expected to respawn at %v after falling out of the world, at %v", g.spawn, pos)
	}

	if g.handleInput(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatalf("expected escape to end the session")
	}
}
