// Package contact holds the manifold table the narrow phase writes into.
//
// Manifolds are owned by the solver: the collision core only asks for the
// manifold of a pair and appends contacts to it. Contacts are stored in
// body-local coordinates so they stay meaningful while bodies move between
// solver iterations, and persist across ticks for warm starting.
package contact

import (
	"math"

	"github.com/akmonengine/narrowphase/actor"
	"github.com/akmonengine/narrowphase/epa"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxContactPoints per manifold
	MaxContactPoints = 4

	// MergeDistance: a new contact closer than this to an existing one (in either
	// body frame) refreshes it instead of adding a point.
	MergeDistance = 0.05

	// BreakDistance: contacts that separate or slide further than this are dropped.
	BreakDistance = 0.1

	DefaultFriction    = 0.5
	DefaultRestitution = 0.5
)

// ContactPoint is a persistent contact. LocalPointA and LocalPointB are in the
// frames of ObjectA and ObjectB (world space for body-less geometry).
type ContactPoint struct {
	LocalPointA mgl64.Vec3
	LocalPointB mgl64.Vec3
	Penetration float64

	// Accumulated impulses, kept across ticks for warm starting. Written by the solver.
	NormalImpulse  float64
	TangentImpulse float64
}

// Manifold is the contact record of one object pair
type Manifold struct {
	ObjectA *actor.CollisionObject
	ObjectB *actor.CollisionObject

	// Normal points from A toward B, in world space
	Normal      mgl64.Vec3
	Friction    float64
	Restitution float64

	Contacts [MaxContactPoints]ContactPoint
	Count    int
}

// Points returns the active contacts
func (m *Manifold) Points() []ContactPoint {
	return m.Contacts[:m.Count]
}

// Insert adds a contact whose witness points are already expressed in the
// local frames of ObjectA and ObjectB.
func (m *Manifold) Insert(result epa.Result) {
	m.Normal = result.Normal

	point := ContactPoint{
		LocalPointA: result.ContactA,
		LocalPointB: result.ContactB,
		Penetration: result.Penetration,
	}

	mergeSqr := MergeDistance * MergeDistance
	for i := 0; i < m.Count; i++ {
		existing := &m.Contacts[i]
		if existing.LocalPointA.Sub(point.LocalPointA).LenSqr() < mergeSqr ||
			existing.LocalPointB.Sub(point.LocalPointB).LenSqr() < mergeSqr {
			// Same contact seen again: move it, keep its impulses
			existing.LocalPointA = point.LocalPointA
			existing.LocalPointB = point.LocalPointB
			existing.Penetration = point.Penetration
			return
		}
	}

	if m.Count < MaxContactPoints {
		m.Contacts[m.Count] = point
		m.Count++
		return
	}

	// Full: the shallowest contact is the least useful one
	shallowest := 0
	for i := 1; i < m.Count; i++ {
		if m.Contacts[i].Penetration < m.Contacts[shallowest].Penetration {
			shallowest = i
		}
	}
	if point.Penetration > m.Contacts[shallowest].Penetration {
		m.Contacts[shallowest] = point
	}
}

// refresh recomputes each contact from the current transforms, dropping those
// that separated or slid apart. It returns the number of remaining contacts.
func (m *Manifold) refresh() int {
	n := 0
	breakSqr := BreakDistance * BreakDistance

	for i := 0; i < m.Count; i++ {
		c := m.Contacts[i]

		worldA := m.ObjectA.LocalToWorld(c.LocalPointA)
		worldB := m.ObjectB.LocalToWorld(c.LocalPointB)
		offset := worldA.Sub(worldB)

		penetration := offset.Dot(m.Normal)
		tangent := offset.Sub(m.Normal.Mul(penetration))

		if penetration < -BreakDistance || tangent.LenSqr() > breakSqr || math.IsNaN(penetration) {
			continue
		}

		c.Penetration = penetration
		m.Contacts[n] = c
		n++
	}

	m.Count = n
	return n
}

func (m *Manifold) reset(a, b *actor.CollisionObject) {
	*m = Manifold{
		ObjectA:     a,
		ObjectB:     b,
		Friction:    DefaultFriction,
		Restitution: DefaultRestitution,
	}
}
