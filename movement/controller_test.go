package movement

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/probe"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

const testDt = float32(1.0 / 60)

// fakeHost is a point avatar above an endless floor at y = 0.
type fakeHost struct {
	pos    mgl32.Vec3
	camera mgl32.Quat

	requested, actual mgl32.Vec3
	noInfo            bool
	// override replaces the requested velocity for the next step when set.
	override *mgl32.Vec3

	last     Command
	commands int

	panicOnTransform bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{camera: mgl32.QuatIdent()}
}

func (h *fakeHost) Transform() (mgl32.Vec3, mgl32.Quat) {
	if h.panicOnTransform {
		panic("boom")
	}
	return h.pos, mgl32.QuatIdent()
}

func (h *fakeHost) CameraRotation() mgl32.Quat {
	return h.camera
}

func (h *fakeHost) MovementInfo() (MovementInfo, bool) {
	if h.noInfo {
		return MovementInfo{}, false
	}
	return MovementInfo{RequestedVelocity: h.requested, ActualVelocity: h.actual}, true
}

func (h *fakeHost) ApplyMovement(cmd Command) {
	h.last = cmd
	h.requested = cmd.Velocity
	h.commands++
}

func (h *fakeHost) step(dt float32) {
	if h.override != nil {
		h.requested, h.override = *h.override, nil
	}
	prev := h.pos
	h.pos = h.pos.Add(h.requested.Mul(dt))
	if h.pos.Y() < 0 {
		h.pos[1] = 0
	}
	h.actual = h.pos.Sub(prev).Mul(1 / dt)
}

type fakeCaster struct {
	probes []*probe.Probe
	err    error
}

func (c *fakeCaster) Register(p *probe.Probe) error {
	if c.err != nil {
		return c.err
	}
	c.probes = append(c.probes, p)
	return nil
}

func newTestController(t *testing.T, in fakeInput, h *fakeHost, opts Opts) *Controller {
	t.Helper()
	log, _ := test.NewNullLogger()
	if opts.Tuning == (settings.Tuning{}) {
		opts.Tuning = settings.DefaultTuning()
	}
	if opts.Client == "" {
		opts.Client = settings.ClientBevyExplorer
	}
	c, err := New(log, in, h, &fakeCaster{}, opts)
	if err != nil {
		t.Fatalf("unexpected error creating controller: %v", err)
	}
	return c
}

// run runs the controller and host for the amount of ticks passed, calling f after each tick.
func run(c *Controller, h *fakeHost, ticks int, f func(i int)) {
	for i := 0; i < ticks; i++ {
		c.Tick(testDt)
		h.step(testDt)
		if f != nil {
			f(i)
		}
	}
}

func TestControllerRegistersProbes(t *testing.T) {
	log, _ := test.NewNullLogger()
	caster := &fakeCaster{}
	c, err := New(log, fakeInput{}, newFakeHost(), caster, Opts{Tuning: settings.DefaultTuning(), Client: settings.ClientLegacyExplorer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := []string{ProbeGround, ProbeForward, ProbeUp, ProbeUpForward}
	if len(caster.probes) != len(names) {
		t.Fatalf("expected %d probes, got %d", len(names), len(caster.probes))
	}
	for i, p := range caster.probes {
		if p.Name() != names[i] {
			t.Fatalf("expected probe %d to be %s, got %s", i, names[i], p.Name())
		}
		q := p.Query()
		if q.Tick != 1 || q.Mask&probe.LayerPhysics == 0 {
			t.Fatalf("probe %s: unexpected query %+v", p.Name(), q)
		}
	}

	ground, _ := c.Probe(ProbeGround)
	q := ground.Query()
	if !game.Vec3ApproxEq(q.Offset, mgl32.Vec3{0, 0.3 - 0.08, 0}, 1e-5) || q.Direction != game.Down || math32.Abs(q.MaxDistance-0.4) > 1e-5 {
		t.Fatalf("unexpected ground probe query %+v", q)
	}
	upForward, _ := c.Probe(ProbeUpForward)
	if upForward.Query().Offset != (mgl32.Vec3{0, 0.4, 0}) {
		t.Fatalf("expected the raised probe at step height, got %v", upForward.Query().Offset)
	}

	c.SetClient(settings.ClientBevyExplorer)
	if ground.Query().Offset != (mgl32.Vec3{0, 0.3, 0}) {
		t.Fatalf("expected the ground probe to follow the client adjust, got %v", ground.Query().Offset)
	}

	if _, err := New(log, fakeInput{}, newFakeHost(), &fakeCaster{err: errors.New("full")}, Opts{Tuning: settings.DefaultTuning()}); err == nil {
		t.Fatalf("expected a registration failure to be returned")
	}
}

func TestControllerInvalidDelta(t *testing.T) {
	h := newFakeHost()
	c := newTestController(t, fakeInput{}, h, Opts{})
	for _, dt := range []float32{0, -1, float32(math32.NaN()), float32(math32.Inf(1))} {
		c.Tick(dt)
	}
	if c.CurrentTick() != 0 || h.commands != 0 {
		t.Fatalf("expected invalid ticks to be skipped, ran %d ticks and wrote %d commands", c.CurrentTick(), h.commands)
	}
}

func TestControllerWalk(t *testing.T) {
	h := newFakeHost()
	in := fakeInput{ActionForward: true}
	c := newTestController(t, in, h, Opts{})

	run(c, h, 60, nil)
	k := c.Kinematics()
	if !game.Vec3ApproxEq(k.Velocity, mgl32.Vec3{0, 0, 8.18}, 1e-3) {
		t.Fatalf("expected to jog forward at 8.18, got %v", k.Velocity)
	}
	if !c.Ground().Grounded || h.pos.Y() != 0 {
		t.Fatalf("expected to stay on the floor, at %v", h.pos)
	}
	if h.last.GroundDirection != game.Down || h.last.Orientation != 0 {
		t.Fatalf("unexpected command %+v", h.last)
	}
	forward, _ := c.Probe(ProbeForward)
	if q := forward.Query(); q.Tick != c.CurrentTick()+1 || !game.Vec3ApproxEq(q.Direction, game.Forward, 1e-5) {
		t.Fatalf("expected the forward probe to be aimed along the velocity, got %+v", q)
	}

	in[ActionSprint] = true
	run(c, h, 60, nil)
	if s := c.Kinematics().Speed; math32.Abs(s-11) > 1e-3 {
		t.Fatalf("expected to sprint at 11, got %f", s)
	}

	in[ActionSprint], in[ActionWalk] = false, true
	run(c, h, 60, nil)
	if s := c.Kinematics().Speed; math32.Abs(s-2.5) > 1e-3 {
		t.Fatalf("expected to walk at 2.5, got %f", s)
	}

	delete(in, ActionForward)
	run(c, h, 1, nil)
	if h.last.Velocity != (mgl32.Vec3{}) {
		t.Fatalf("expected to stop immediately on the ground, got %v", h.last.Velocity)
	}
}

func TestControllerTurn(t *testing.T) {
	h := newFakeHost()
	in := fakeInput{ActionRight: true}
	c := newTestController(t, in, h, Opts{})

	var prev float32
	run(c, h, 45, func(i int) {
		o := c.Kinematics().Orientation
		if o < prev {
			t.Fatalf("tick %d: expected to keep turning towards 90, went from %f to %f", i, prev, o)
		}
		prev = o
	})
	if o := c.Kinematics().Orientation; math32.Abs(o-90) > 1e-3 {
		t.Fatalf("expected to face 90, got %f", o)
	}
	if math32.Abs(h.last.Orientation+90) > 1e-3 {
		t.Fatalf("expected the host to receive the negated orientation, got %f", h.last.Orientation)
	}

	// Releasing the input keeps the facing.
	delete(in, ActionRight)
	run(c, h, 10, nil)
	if o := c.Kinematics().Orientation; math32.Abs(o-90) > 1e-3 {
		t.Fatalf("expected to keep facing 90, got %f", o)
	}
}

func TestControllerDisableOrientation(t *testing.T) {
	h := newFakeHost()
	c := newTestController(t, fakeInput{ActionRight: true}, h, Opts{Modifiers: &settings.Modifiers{DisableWalk: true, DisableJog: true, DisableRun: true}})
	run(c, h, 30, nil)
	if o := c.Kinematics().Orientation; o != 0 {
		t.Fatalf("expected the orientation to be held, got %f", o)
	}
	if h.pos.X() != 0 {
		t.Fatalf("expected no movement with every gait disabled, at %v", h.pos)
	}
}

func TestControllerJump(t *testing.T) {
	h := newFakeHost()
	in := fakeInput{ActionJump: true}
	c := newTestController(t, in, h, Opts{})

	var (
		peak   float32
		prevVy = float32(math32.Inf(1))
		landed bool
	)
	run(c, h, 150, func(i int) {
		peak = math32.Max(peak, h.pos.Y())
		if c.Jump().Jumping() {
			if vy := h.last.Velocity.Y(); vy > prevVy+1e-5 {
				t.Fatalf("tick %d: vertical speed grew during the jump (%f -> %f)", i, prevVy, vy)
			} else {
				prevVy = vy
			}
			if c.Jump().SnapSpeed != 0 {
				t.Fatalf("tick %d: snapped to the ground while jumping", i)
			}
		}
		if i > 10 && h.pos.Y() == 0 {
			landed = true
		}
	})
	if math32.Abs(peak-1.9) > 0.1 {
		t.Fatalf("expected a jump of about 1.9, peaked at %f", peak)
	}
	if !landed || !c.Ground().Grounded || c.Jump().Jumping() {
		t.Fatalf("expected to land and stay down while the jump is held, at %v", h.pos)
	}
	if vy := c.Kinematics().Velocity.Y(); vy != 0 {
		t.Fatalf("expected no vertical speed after landing, got %f", vy)
	}
}

func TestControllerJumpRelease(t *testing.T) {
	h := newFakeHost()
	in := fakeInput{ActionJump: true}
	c := newTestController(t, in, h, Opts{})

	var peak float32
	run(c, h, 90, func(i int) {
		if i == 5 {
			delete(in, ActionJump)
		}
		peak = math32.Max(peak, h.pos.Y())
	})
	if peak > 1.5 || peak < 0.3 {
		t.Fatalf("expected releasing the jump early to cut it short, peaked at %f", peak)
	}
}

func TestControllerJumpDisabled(t *testing.T) {
	h := newFakeHost()
	c := newTestController(t, fakeInput{ActionJump: true}, h, Opts{Modifiers: &settings.Modifiers{DisableJump: true}})
	run(c, h, 30, nil)
	if h.pos.Y() != 0 || c.Jump().Jumping() {
		t.Fatalf("expected no jump while jumping is disabled, at %v", h.pos)
	}
}

func TestControllerCoyoteJump(t *testing.T) {
	for _, tt := range []struct {
		name  string
		wait  int
		jumps bool
	}{
		{"just left the ground", 0, true},
		{"too late", 10, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			h := newFakeHost()
			in := fakeInput{}
			c := newTestController(t, in, h, Opts{})
			run(c, h, 1, nil)

			// Walk off a ledge.
			h.pos[1] = 20
			run(c, h, tt.wait, nil)
			in[ActionJump] = true
			run(c, h, 1, nil)
			if c.Jump().Jumping() != tt.jumps {
				t.Fatalf("expected jumping=%t", tt.jumps)
			}
		})
	}
}

func TestControllerSnapToGround(t *testing.T) {
	h := newFakeHost()
	c := newTestController(t, fakeInput{}, h, Opts{})
	run(c, h, 2, nil)

	// The floor drops away slightly.
	h.pos[1] = 0.05
	run(c, h, 1, nil)
	if !c.Ground().Grounded {
		t.Fatalf("expected to be snapped to the ground")
	}
	if s := c.Jump().SnapSpeed; math32.Abs(s-0.05/testDt) > 1e-2 {
		t.Fatalf("expected a snap speed of %f, got %f", 0.05/testDt, s)
	}
	if h.pos.Y() != 0 {
		t.Fatalf("expected the host to be pulled down, at %v", h.pos)
	}

	run(c, h, 1, nil)
	if c.Jump().SnapSpeed != 0 || c.Kinematics().Velocity.Y() != 0 {
		t.Fatalf("expected the snap to be undone once down, got %+v", c.Kinematics().Velocity)
	}

	// Too far down to snap.
	h.pos[1] = 0.5
	run(c, h, 1, nil)
	if c.Ground().Grounded || c.Jump().SnapSpeed != 0 {
		t.Fatalf("expected to fall instead of snapping")
	}
}

func TestControllerStepUp(t *testing.T) {
	h := newFakeHost()
	in := fakeInput{ActionForward: true}
	c := newTestController(t, in, h, Opts{})
	run(c, h, 20, nil)

	wall := mgl32.Vec3{0, 0, -1}
	forward, _ := c.Probe(ProbeForward)
	upForward, _ := c.Probe(ProbeUpForward)
	next := c.CurrentTick() + 1
	forward.Deliver(probe.Result{Tick: next, Hits: []probe.Hit{{Distance: 0.05, Normal: &wall}}})
	upForward.Deliver(probe.Result{Tick: next})

	run(c, h, 1, nil)
	if !c.Step().Stepping {
		t.Fatalf("expected to step up the obstacle")
	}
	if vy := h.last.Velocity.Y(); math32.Abs(vy-0.4/testDt) > 1e-2 {
		t.Fatalf("expected to rise by the step height in one tick, got %f", vy)
	}
	if c.Jump().SnapSpeed != 0 {
		t.Fatalf("expected no snap while stepping")
	}

	// The obstacle is cleared.
	run(c, h, 1, nil)
	if c.Step().Stepping {
		t.Fatalf("expected the step to finish")
	}
	if vy := h.last.Velocity.Y(); vy > 0 {
		t.Fatalf("expected no upward speed after the step, got %f", vy)
	}
}

func TestControllerStepCancelled(t *testing.T) {
	h := newFakeHost()
	in := fakeInput{ActionForward: true}
	c := newTestController(t, in, h, Opts{})
	run(c, h, 20, nil)

	wall := mgl32.Vec3{0, 0, -1}
	forward, _ := c.Probe(ProbeForward)
	forward.Deliver(probe.Result{Tick: c.CurrentTick() + 1, Hits: []probe.Hit{{Distance: 0.05, Normal: &wall}}})
	run(c, h, 1, nil)
	if !c.Step().Stepping {
		t.Fatalf("expected to step up the obstacle")
	}

	delete(in, ActionForward)
	forward.Deliver(probe.Result{Tick: c.CurrentTick() + 1, Hits: []probe.Hit{{Distance: 0.05, Normal: &wall}}})
	run(c, h, 1, nil)
	if c.Step().Stepping || h.last.Velocity.Y() > 0 {
		t.Fatalf("expected the step to be cancelled without input, got %v", h.last.Velocity)
	}
}

func TestControllerResync(t *testing.T) {
	h := newFakeHost()
	c := newTestController(t, fakeInput{ActionForward: true}, h, Opts{})
	run(c, h, 30, nil)

	// Something else launches the avatar upwards.
	launch := mgl32.Vec3{0, 5, 0}
	h.override = &launch
	h.step(testDt)
	run(c, h, 1, nil)

	v := h.last.Velocity
	if v.Y() < 4.5 || v.Y() > 5 {
		t.Fatalf("expected to continue from the launch, got %v", v)
	}
	if v.Z() > 1 {
		t.Fatalf("expected the horizontal speed to restart from the actual velocity, got %v", v)
	}
}

func TestControllerNoMovementInfo(t *testing.T) {
	h := newFakeHost()
	h.noInfo = true
	c := newTestController(t, fakeInput{ActionForward: true}, h, Opts{})
	run(c, h, 30, nil)

	h.requested = mgl32.Vec3{0, 5, 0}
	run(c, h, 1, nil)
	if v := h.last.Velocity; v.Y() != 0 || math32.Abs(v.Z()-8.18) > 1e-3 {
		t.Fatalf("expected no resync without movement info, got %v", v)
	}
}

func TestControllerEmitClamp(t *testing.T) {
	h := newFakeHost()
	c := newTestController(t, fakeInput{}, h, Opts{})

	for _, vel := range []mgl32.Vec3{
		{0.005, 0, 0.005},
		{float32(math32.NaN()), 0, 1},
		{0, float32(math32.Inf(-1)), 0},
	} {
		ctx := newCtx(c, testDt)
		c.kin.Velocity = vel
		ctx.emit()
		putCtx(ctx)
		if h.last.Velocity != (mgl32.Vec3{}) || c.kin.Speed != 0 || c.kin.VelocityDir != (mgl32.Vec3{}) {
			t.Fatalf("expected %v to be emitted as zero, got %v", vel, h.last.Velocity)
		}
	}
	frames := c.History()
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames to be recorded, got %d", len(frames))
	}
}

func TestControllerHistory(t *testing.T) {
	h := newFakeHost()
	c := newTestController(t, fakeInput{ActionForward: true}, h, Opts{})
	run(c, h, game.HistorySize+10, nil)

	frames := c.History()
	if len(frames) != game.HistorySize {
		t.Fatalf("expected %d frames, got %d", game.HistorySize, len(frames))
	}
	if frames[0].Tick != 11 || frames[len(frames)-1].Tick != c.CurrentTick() {
		t.Fatalf("expected the latest frames oldest first, got ticks %d to %d", frames[0].Tick, frames[len(frames)-1].Tick)
	}
	if math32.Abs(float32(c.Time())-float32(c.CurrentTick())*testDt) > 1e-3 {
		t.Fatalf("expected the controller time to follow the ticks, got %f", c.Time())
	}
}

func TestControllerLocomotion(t *testing.T) {
	h := newFakeHost()
	jog := float32(4)
	c := newTestController(t, fakeInput{}, h, Opts{Locomotion: &settings.Locomotion{JogSpeed: &jog}})
	if p := c.Parameters(); p.JogSpeed != 4 || p.SprintSpeed != 11 {
		t.Fatalf("unexpected parameters %+v", p)
	}

	// The same values behind new pointers change nothing.
	same := float32(4)
	c.SetLocomotion(&settings.Locomotion{JogSpeed: &same}, nil)
	if c.Parameters().JogSpeed != 4 {
		t.Fatalf("expected the parameters to be kept")
	}

	tuning := settings.DefaultTuning()
	tuning.SprintSpeed, tuning.ColliderRadius = 14, 0.5
	c.SetTuning(tuning)
	if p := c.Parameters(); p.JogSpeed != 4 || p.SprintSpeed != 14 {
		t.Fatalf("expected the overrides to survive a tuning change, got %+v", p)
	}
	forward, _ := c.Probe(ProbeForward)
	if forward.Query().MaxDistance != 0.5 {
		t.Fatalf("expected the probes to follow the collider radius")
	}

	c.SetLocomotion(nil, &settings.Modifiers{DisableAll: true})
	if p := c.Parameters(); p != (settings.Parameters{DisableOrientation: true}) {
		t.Fatalf("expected everything to be disabled, got %+v", p)
	}
}

func TestControllerRecoversPanic(t *testing.T) {
	h := newFakeHost()
	var recovered any
	log, hook := test.NewNullLogger()
	c, err := New(log, fakeInput{}, h, &fakeCaster{}, Opts{
		Tuning:  settings.DefaultTuning(),
		Client:  settings.ClientBevyExplorer,
		Recover: func(v any) { recovered = v },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h.panicOnTransform = true
	c.Tick(testDt)
	if recovered != "boom" {
		t.Fatalf("expected the panic to reach the recover hook, got %v", recovered)
	}
	if entry := hook.LastEntry(); entry == nil || entry.Level != logrus.ErrorLevel {
		t.Fatalf("expected the panic to be logged")
	}

	h.panicOnTransform = false
	c.Tick(testDt)
	if h.commands != 1 {
		t.Fatalf("expected the controller to keep working after a panic")
	}
}
