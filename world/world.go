package world

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/sasha-s/go-deadlock"
	"go.uber.org/atomic"
)

var currentWorldId atomic.Uint64

// World is a static collection of axis-aligned boxes that probes are cast against and avatars
// collide with.
type World struct {
	id    uint64
	boxes []cube.BBox

	deadlock.RWMutex
}

// New creates a World containing the boxes passed.
func New(boxes ...cube.BBox) *World {
	return &World{
		id:    currentWorldId.Inc(),
		boxes: append([]cube.BBox(nil), boxes...),
	}
}

// ID returns the unique ID of the world.
func (w *World) ID() uint64 {
	return w.id
}

// AddBox adds a box to the world.
func (w *World) AddBox(bb cube.BBox) {
	w.Lock()
	defer w.Unlock()
	w.boxes = append(w.boxes, bb)
}

// Boxes returns a copy of every box in the world.
func (w *World) Boxes() []cube.BBox {
	w.RLock()
	defer w.RUnlock()
	return append([]cube.BBox(nil), w.boxes...)
}

// NearbyBoxes returns the boxes intersecting the box passed.
func (w *World) NearbyBoxes(bb cube.BBox) []cube.BBox {
	var list []cube.BBox
	w.appendNearbyBoxes(&list, bb)
	return list
}

func (w *World) appendNearbyBoxes(list *[]cube.BBox, bb cube.BBox) {
	w.RLock()
	defer w.RUnlock()
	for _, box := range w.boxes {
		if box.IntersectsWith(bb) {
			*list = append(*list, box)
		}
	}
}

// Digest returns a hash of the world geometry. Two worlds with the same boxes in the same order
// have the same digest.
func (w *World) Digest() uint64 {
	w.RLock()
	defer w.RUnlock()

	h := xxhash.New()
	var buf [4]byte
	for _, box := range w.boxes {
		for _, v := range [2][3]float32{box.Min(), box.Max()} {
			for _, f := range v {
				binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
				_, _ = h.Write(buf[:])
			}
		}
	}
	return h.Sum64()
}
