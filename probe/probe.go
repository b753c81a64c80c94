package probe

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// LayerPhysics is the collision mask used by the controller's probes.
const LayerPhysics uint32 = 1 << 0

// Hit is a single hit reported by a probe.
type Hit struct {
	// Distance is the distance travelled along the probe before the hit.
	Distance float32
	// Position and Normal are the world position and surface normal of the hit, if the caster
	// reports them.
	Position *mgl32.Vec3
	Normal   *mgl32.Vec3
}

// Result is the set of hits a probe produced for a tick.
type Result struct {
	// Tick is the controller tick the probe was cast for.
	Tick uint64
	Hits []Hit
}

// FreshHits returns the hits of the result if it was cast for the tick passed, and nil otherwise.
func (r Result) FreshHits(tick uint64) []Hit {
	if r.Tick != tick {
		return nil
	}
	return r.Hits
}

// MinDistance returns the smallest hit distance of the result for the tick passed, or +Inf if there
// are no fresh hits.
func (r Result) MinDistance(tick uint64) float32 {
	dist := float32(math.Inf(1))
	for _, hit := range r.FreshHits(tick) {
		dist = min(dist, hit.Distance)
	}
	return dist
}

// Query describes a continuous first-hit probe relative to the avatar.
type Query struct {
	// Offset is the origin of the probe relative to the avatar position.
	Offset    mgl32.Vec3
	Direction mgl32.Vec3
	// MaxDistance is the length of the probe.
	MaxDistance float32
	// Mask is the collision mask the probe is tested against.
	Mask uint32
	// Tick is the controller tick the query was last aimed for.
	Tick uint64
}

// Probe is a continuous query registered with a Caster. The controller aims the probe and the
// caster delivers results, possibly from another goroutine.
type Probe struct {
	name string

	mu     sync.Mutex
	query  Query
	result Result
}

// New creates a new probe with the query passed.
func New(name string, q Query) *Probe {
	return &Probe{name: name, query: q}
}

// Name returns the name of the probe.
func (p *Probe) Name() string {
	return p.name
}

// Query returns the current query of the probe.
func (p *Probe) Query() Query {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Aim updates the tick the probe is cast for and its offset and direction.
func (p *Probe) Aim(tick uint64, offset, direction mgl32.Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query.Tick, p.query.Offset, p.query.Direction = tick, offset, direction
}

// SetTick updates the tick the probe is cast for, leaving its geometry alone.
func (p *Probe) SetTick(tick uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query.Tick = tick
}

// SetOffset updates the origin of the probe.
func (p *Probe) SetOffset(offset mgl32.Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query.Offset = offset
}

// SetMaxDistance updates the length of the probe.
func (p *Probe) SetMaxDistance(dist float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query.MaxDistance = dist
}

// Deliver stores a result for the probe, replacing the previous one. Results older than the one
// already stored are dropped.
func (p *Probe) Deliver(r Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if r.Tick < p.result.Tick {
		return
	}
	p.result = r
}

// Latest returns the most recently delivered result.
func (p *Probe) Latest() Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}

// Caster casts registered probes against world geometry and delivers their results.
type Caster interface {
	// Register adds a continuous probe. The caster delivers a result to the probe every time it
	// casts it.
	Register(p *Probe) error
}
