package movement

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/assert"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/probe"
	"github.com/oomph-ac/locomotion/settings"
	"github.com/oomph-ac/locomotion/utils"
	"github.com/sirupsen/logrus"
)

const (
	ProbeGround    = "ground"
	ProbeForward   = "forward"
	ProbeUp        = "up"
	ProbeUpForward = "up_forward"
)

// Opts are the options a Controller is created with.
type Opts struct {
	Tuning settings.Tuning
	// Client is the name of the client the controller runs in. See settings.PositionAdjust.
	Client     string
	Locomotion *settings.Locomotion
	Modifiers  *settings.Modifiers

	// Recover receives the value of any panic recovered during a tick.
	Recover func(v any)
}

// Controller turns input, camera and probe results into a velocity and orientation for an avatar,
// once per tick.
type Controller struct {
	log *logrus.Logger
	Dbg *Debugger

	input InputProvider
	host  Host

	tuning      settings.Tuning
	loco        *settings.Locomotion
	mods        *settings.Modifiers
	params      settings.Parameters
	fingerprint uint64
	resolved    bool
	adjust      mgl32.Vec3
	recoverFunc func(v any)

	probes                         *probe.Set
	ground, forward, up, upForward *probe.Probe

	tick uint64
	time float64

	kin  KinematicState
	gnd  GroundState
	step StepState
	jump JumpState

	history *utils.RingBuffer[Frame]
}

// New creates a Controller moving the host passed, and registers its probes with the caster.
func New(log *logrus.Logger, input InputProvider, host Host, caster probe.Caster, opts Opts) (*Controller, error) {
	assert.IsTrue(log != nil, "movement controller requires a logger")
	assert.IsTrue(input != nil, "movement controller requires an input provider")
	assert.IsTrue(host != nil, "movement controller requires a host")
	assert.IsTrue(caster != nil, "movement controller requires a probe caster")

	history, err := utils.NewRingBuffer[Frame](game.HistorySize)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		log:         log,
		Dbg:         NewDebugger(log),
		input:       input,
		host:        host,
		tuning:      opts.Tuning,
		recoverFunc: opts.Recover,
		probes:      probe.NewSet(),
		history:     history,
	}
	c.kin.Rotation = mgl32.QuatIdent()
	c.gnd.LastGroundTime = math.Inf(-1)
	c.gnd.Position = negInfVec()
	c.step = StepState{
		ForwardDistance:   inf32(),
		UpDistance:        inf32(),
		UpForwardDistance: inf32(),
		ForwardWalkable:   true,
	}

	r := c.tuning.ColliderRadius
	c.ground = probe.New(ProbeGround, probe.Query{Direction: game.Down, Mask: probe.LayerPhysics})
	c.forward = probe.New(ProbeForward, probe.Query{MaxDistance: r, Mask: probe.LayerPhysics})
	c.up = probe.New(ProbeUp, probe.Query{Direction: game.Up, MaxDistance: r, Mask: probe.LayerPhysics})
	c.upForward = probe.New(ProbeUpForward, probe.Query{Offset: mgl32.Vec3{0, c.tuning.MaxStepHeight, 0}, MaxDistance: r, Mask: probe.LayerPhysics})
	for _, p := range []*probe.Probe{c.ground, c.forward, c.up, c.upForward} {
		if err := c.probes.Add(p); err != nil {
			return nil, err
		}
	}
	c.SetClient(opts.Client)
	c.SetLocomotion(opts.Locomotion, opts.Modifiers)
	c.probes.Each(func(p *probe.Probe) {
		p.SetTick(c.tick + 1)
	})
	if err := c.probes.Register(caster); err != nil {
		return nil, err
	}
	return c, nil
}

// SetClient updates the client the controller runs in, changing the position adjust applied to the
// host transform and the ground probe.
func (c *Controller) SetClient(client string) {
	c.adjust = settings.ResolveClient(client, c.log)
	c.updateGroundProbe()
}

// SetTuning replaces the tuning of the controller.
func (c *Controller) SetTuning(t settings.Tuning) {
	c.tuning = t
	c.params = settings.Resolve(t, c.loco, c.mods)
	c.updateGroundProbe()
	c.forward.SetMaxDistance(t.ColliderRadius)
	c.up.SetMaxDistance(t.ColliderRadius)
	c.upForward.SetMaxDistance(t.ColliderRadius)
}

// SetLocomotion updates the locomotion overrides and modifiers. The effective parameters are only
// recomputed when either has changed.
func (c *Controller) SetLocomotion(loco *settings.Locomotion, mods *settings.Modifiers) {
	fp := settings.Fingerprint(loco, mods)
	if c.resolved && fp == c.fingerprint {
		return
	}
	c.loco, c.mods = loco, mods
	c.fingerprint, c.resolved = fp, true
	c.params = settings.Resolve(c.tuning, loco, mods)
	c.log.WithFields(logrus.Fields{
		"walk":   c.params.WalkSpeed,
		"jog":    c.params.JogSpeed,
		"sprint": c.params.SprintSpeed,
		"jump":   c.params.JumpHeight,
	}).Debug("movement parameters updated")
}

func (c *Controller) updateGroundProbe() {
	c.ground.SetOffset(mgl32.Vec3{0, c.tuning.ColliderRadius, 0}.Add(c.adjust))
	c.ground.SetMaxDistance(c.tuning.GroundProbeLength())
}

// Tick runs the controller for a single tick of dt seconds and writes the result to the host.
func (c *Controller) Tick(dt float32) {
	defer c.handlePanic()
	if !(dt > 0) || !game.IsFinite(dt) {
		c.log.WithField("dt", dt).Warn("skipping movement tick with invalid delta")
		return
	}

	ctx := newCtx(c, dt)
	defer putCtx(ctx)

	ctx.captureFrame()
	ctx.updateMovementAxis()
	ctx.recordGroundState()

	ctx.stepUp()
	ctx.applyGravity()
	ctx.applyJump()
	ctx.snapToGround()

	ctx.updateVelocity()
	ctx.updateOrientation()

	ctx.emit()
}

func (c *Controller) handlePanic() {
	if r := recover(); r != nil {
		c.log.WithField("tick", c.tick).Errorf("recovered from panic during movement tick: %v", r)
		if c.recoverFunc != nil {
			c.recoverFunc(r)
		}
	}
}

// CurrentTick returns the index of the last tick run.
func (c *Controller) CurrentTick() uint64 {
	return c.tick
}

// Time returns the controller time in seconds.
func (c *Controller) Time() float64 {
	return c.time
}

// Kinematics returns the kinematic state of the controller.
func (c *Controller) Kinematics() KinematicState {
	return c.kin
}

// Ground returns the ground state of the controller.
func (c *Controller) Ground() GroundState {
	return c.gnd
}

// Step returns the step sensor state of the controller.
func (c *Controller) Step() StepState {
	return c.step
}

// Jump returns the jump state of the controller.
func (c *Controller) Jump() JumpState {
	return c.jump
}

// Parameters returns the effective movement parameters.
func (c *Controller) Parameters() settings.Parameters {
	return c.params
}

// Tuning returns the tuning of the controller.
func (c *Controller) Tuning() settings.Tuning {
	return c.tuning
}

// Probe returns the probe with the name passed.
func (c *Controller) Probe(name string) (*probe.Probe, bool) {
	return c.probes.Get(name)
}

// History returns the most recently emitted frames, oldest first.
func (c *Controller) History() []Frame {
	frames := make([]Frame, 0, c.history.Len())
	for f := range c.history.All() {
		frames = append(frames, f)
	}
	return frames
}

func inf32() float32 {
	return float32(math.Inf(1))
}

func negInfVec() mgl32.Vec3 {
	n := float32(math.Inf(-1))
	return mgl32.Vec3{n, n, n}
}
