package world

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/locomotion/game"
	"github.com/oomph-ac/locomotion/movement"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/oomph-ac/locomotion/probe"
	"github.com/oomph-ac/locomotion/utils"
	"github.com/oomph-ac/locomotion/worker"
	"github.com/sasha-s/go-deadlock"
)

// Avatar is a box-shaped avatar living in a World. It applies the movement written by a controller,
// reports what it did, and casts the controller's probes from its position.
type Avatar struct {
	w *World

	radius float32
	height float32

	pos      mgl32.Vec3
	rot      mgl32.Quat
	camera   mgl32.Quat
	onGround bool

	requested mgl32.Vec3
	actual    mgl32.Vec3
	external  mgl32.Vec3
	hasInfo   bool

	override      mgl32.Vec3
	overrideTicks int

	probes *orderedmap.OrderedMap[string, *probe.Probe]

	deadlock.Mutex
}

// NewAvatar creates an avatar standing at the position passed. The position is the centre of the
// bottom of its box.
func NewAvatar(w *World, pos mgl32.Vec3, radius, height float32) *Avatar {
	return &Avatar{
		w:      w,
		radius: radius,
		height: height,
		pos:    pos,
		rot:    mgl32.QuatIdent(),
		camera: mgl32.QuatIdent(),
		probes: orderedmap.NewOrderedMap[string, *probe.Probe](),
	}
}

// BoundingBox returns the box of the avatar in world space.
func (a *Avatar) BoundingBox() cube.BBox {
	a.Lock()
	defer a.Unlock()
	return a.boundingBox()
}

func (a *Avatar) boundingBox() cube.BBox {
	return game.AABBFromDimensions(a.radius*2, a.height).Translate(a.pos)
}

// Transform ...
func (a *Avatar) Transform() (mgl32.Vec3, mgl32.Quat) {
	a.Lock()
	defer a.Unlock()
	return a.pos, a.rot
}

// Position returns the position of the avatar.
func (a *Avatar) Position() mgl32.Vec3 {
	a.Lock()
	defer a.Unlock()
	return a.pos
}

// Teleport moves the avatar to the position passed without colliding.
func (a *Avatar) Teleport(pos mgl32.Vec3) {
	a.Lock()
	defer a.Unlock()
	a.pos = pos
}

// CameraRotation ...
func (a *Avatar) CameraRotation() mgl32.Quat {
	a.Lock()
	defer a.Unlock()
	return a.camera
}

// SetCameraYaw turns the camera to the yaw passed, in degrees.
func (a *Avatar) SetCameraYaw(yaw float32) {
	a.Lock()
	defer a.Unlock()
	a.camera = game.YawQuat(yaw)
}

// MovementInfo ...
func (a *Avatar) MovementInfo() (movement.MovementInfo, bool) {
	a.Lock()
	defer a.Unlock()
	if !a.hasInfo {
		return movement.MovementInfo{}, false
	}
	return movement.MovementInfo{
		RequestedVelocity: a.requested,
		ActualVelocity:    a.actual,
		ExternalVelocity:  a.external,
	}, true
}

// ApplyMovement ...
func (a *Avatar) ApplyMovement(cmd movement.Command) {
	a.Lock()
	defer a.Unlock()
	a.requested = cmd.Velocity
	a.rot = game.YawQuat(-cmd.Orientation)
}

// Override makes the avatar ignore the requested velocity for the amount of ticks passed, moving with
// vel instead, as if another system had taken control of it.
func (a *Avatar) Override(vel mgl32.Vec3, ticks int) {
	a.Lock()
	defer a.Unlock()
	a.override, a.overrideTicks = vel, ticks
}

// SetExternalVelocity sets a velocity added on top of the requested velocity every step, such as that
// of a moving platform.
func (a *Avatar) SetExternalVelocity(vel mgl32.Vec3) {
	a.Lock()
	defer a.Unlock()
	a.external = vel
}

// OnGround returns true if the avatar rested on top of a box after its last step.
func (a *Avatar) OnGround() bool {
	a.Lock()
	defer a.Unlock()
	return a.onGround
}

// Step moves the avatar for dt seconds with the velocity last requested, colliding with the world.
func (a *Avatar) Step(dt float32) {
	a.Lock()
	defer a.Unlock()
	if !(dt > 0) {
		return
	}

	if a.overrideTicks > 0 {
		a.requested = a.override
		a.overrideTicks--
	}
	move := a.requested.Add(a.external).Mul(dt)
	if !game.FiniteVec(move) {
		move = mgl32.Vec3{}
	}

	bb := a.boundingBox()
	nearby := utils.GetBBoxList()
	defer utils.PutBBoxList(nearby)
	a.w.appendNearbyBoxes(nearby, bb.Extend(move).Grow(clipEpsilon*2))
	moved := collide(*nearby, bb, move)
	a.pos = a.pos.Add(moved)
	a.actual = moved.Mul(1 / dt)
	a.onGround = clipAxis(*nearby, bb.Translate(moved), 1, -clipEpsilon) > -clipEpsilon
	a.hasInfo = true
}

// Register ...
func (a *Avatar) Register(p *probe.Probe) error {
	a.Lock()
	defer a.Unlock()
	if _, ok := a.probes.Get(p.Name()); ok {
		return oerror.New("avatar already has a probe named %s", p.Name())
	}
	a.probes.Set(p.Name(), p)
	return nil
}

// Cast casts every registered probe from the current position of the avatar and delivers the
// results, tagged with the tick each probe was aimed for.
func (a *Avatar) Cast() {
	pos, radius, probes := a.castSnapshot()
	for _, p := range probes {
		a.castProbe(p, pos, radius)
	}
}

// CastAsync casts the registered probes on the pool passed instead. Results are delivered as each
// cast finishes, so the controller may see some of them a tick late.
func (a *Avatar) CastAsync(pool *worker.Pool) {
	pos, radius, probes := a.castSnapshot()
	for _, p := range probes {
		pool.Submit(func() {
			a.castProbe(p, pos, radius)
		})
	}
}

func (a *Avatar) castSnapshot() (mgl32.Vec3, float32, []*probe.Probe) {
	a.Lock()
	defer a.Unlock()
	probes := make([]*probe.Probe, 0, a.probes.Len())
	for el := a.probes.Front(); el != nil; el = el.Next() {
		probes = append(probes, el.Value)
	}
	return a.pos, a.radius, probes
}

func (a *Avatar) castProbe(p *probe.Probe, pos mgl32.Vec3, radius float32) {
	q := p.Query()
	result := probe.Result{Tick: q.Tick}
	if q.Mask&probe.LayerPhysics != 0 {
		if hit, ok := a.w.Cast(pos.Add(q.Offset), q.Direction, q.MaxDistance, radius); ok {
			result.Hits = []probe.Hit{hit}
		}
	}
	p.Deliver(result)
}
