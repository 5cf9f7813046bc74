package contact

import (
	"unsafe"

	"github.com/akmonengine/narrowphase/actor"
)

// DefaultCapacity is the manifold table size used by NewSolver(0)
const DefaultCapacity = 64

// PairKey identifies an unordered pair of collision objects
type PairKey struct {
	objectA *actor.CollisionObject
	objectB *actor.CollisionObject
}

// MakePairKey creates a normalized pair key with consistent ordering
func MakePairKey(a, b *actor.CollisionObject) PairKey {
	ptrA := uintptr(unsafe.Pointer(a))
	ptrB := uintptr(unsafe.Pointer(b))

	if ptrB < ptrA {
		a, b = b, a
	}

	return PairKey{objectA: a, objectB: b}
}

// Solver owns the manifold table. It has a fixed capacity; once full, requests
// for new pairs are declined.
type Solver struct {
	manifolds []*Manifold
	index     map[PairKey]*Manifold
	capacity  int
}

func NewSolver(capacity int) *Solver {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Solver{
		manifolds: make([]*Manifold, 0, capacity),
		index:     make(map[PairKey]*Manifold, capacity),
		capacity:  capacity,
	}
}

// GetContactManifold returns the manifold of the pair, creating it if needed.
// It returns nil when the table is full.
//
// The manifold's A and B follow the argument order. When a pair is requested in
// the opposite order, its stored contacts no longer match and are reset.
func (s *Solver) GetContactManifold(a, b *actor.CollisionObject) *Manifold {
	key := MakePairKey(a, b)

	if m, ok := s.index[key]; ok {
		if m.ObjectA != a {
			m.reset(a, b)
		}
		return m
	}

	if len(s.manifolds) >= s.capacity {
		return nil
	}

	m := &Manifold{}
	m.reset(a, b)

	s.manifolds = append(s.manifolds, m)
	s.index[key] = m

	return m
}

// Find returns the manifold of the pair without creating it
func (s *Solver) Find(a, b *actor.CollisionObject) *Manifold {
	return s.index[MakePairKey(a, b)]
}

// Manifolds returns the live manifolds in creation order
func (s *Solver) Manifolds() []*Manifold {
	return s.manifolds
}

func (s *Solver) Len() int {
	return len(s.manifolds)
}

// RemoveUnusedContacts refreshes every manifold against the current transforms
// and frees the ones left without contacts. Call it once per tick, after the
// narrow phase. It returns the pairs that were removed.
func (s *Solver) RemoveUnusedContacts() []PairKey {
	var removed []PairKey

	n := 0
	for _, m := range s.manifolds {
		if m.refresh() == 0 {
			key := MakePairKey(m.ObjectA, m.ObjectB)
			delete(s.index, key)
			removed = append(removed, key)
			continue
		}
		s.manifolds[n] = m
		n++
	}

	clear(s.manifolds[n:])
	s.manifolds = s.manifolds[:n]

	return removed
}

// RemoveObject drops every manifold involving object
func (s *Solver) RemoveObject(object *actor.CollisionObject) {
	n := 0
	for _, m := range s.manifolds {
		if m.ObjectA == object || m.ObjectB == object {
			delete(s.index, MakePairKey(m.ObjectA, m.ObjectB))
			continue
		}
		s.manifolds[n] = m
		n++
	}

	clear(s.manifolds[n:])
	s.manifolds = s.manifolds[:n]
}

// Objects returns the two objects of a pair key
func (k PairKey) Objects() (*actor.CollisionObject, *actor.CollisionObject) {
	return k.objectA, k.objectB
}
