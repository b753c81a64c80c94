package probe

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/locomotion/oerror"
)

// Set is a named collection of probes, kept in the order they were added.
type Set struct {
	probes *orderedmap.OrderedMap[string, *Probe]
}

// NewSet creates an empty probe set.
func NewSet() *Set {
	return &Set{probes: orderedmap.NewOrderedMap[string, *Probe]()}
}

// Add adds a probe to the set. Probe names must be unique.
func (s *Set) Add(p *Probe) error {
	if _, ok := s.probes.Get(p.Name()); ok {
		return oerror.New("probe %s already exists in set", p.Name())
	}
	s.probes.Set(p.Name(), p)
	return nil
}

// Get returns the probe with the name passed.
func (s *Set) Get(name string) (*Probe, bool) {
	return s.probes.Get(name)
}

// Len returns the number of probes in the set.
func (s *Set) Len() int {
	return s.probes.Len()
}

// Each calls f for every probe in the order they were added.
func (s *Set) Each(f func(p *Probe)) {
	for el := s.probes.Front(); el != nil; el = el.Next() {
		f(el.Value)
	}
}

// Register registers every probe of the set with the caster passed.
func (s *Set) Register(c Caster) error {
	for el := s.probes.Front(); el != nil; el = el.Next() {
		if err := c.Register(el.Value); err != nil {
			return oerror.New("unable to register probe %s: %v", el.Key, err)
		}
	}
	return nil
}
