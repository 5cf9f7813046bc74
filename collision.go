package narrowphase

import (
	"github.com/akmonengine/narrowphase/actor"
	"github.com/akmonengine/narrowphase/contact"
	"github.com/akmonengine/narrowphase/epa"
	"github.com/akmonengine/narrowphase/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// ContactSink hands out the manifold of an object pair. A nil manifold means
// the solver declined the pair (e.g. its table is full).
type ContactSink interface {
	GetContactManifold(a, b *actor.CollisionObject) *contact.Manifold
}

var _ ContactSink = (*contact.Solver)(nil)

// CollideTwoObjects runs the narrow phase for two bodies and appends at most one
// contact to their manifold. Every kind of non-contact is silent.
func CollideTwoObjects(a, b *actor.CollisionObject, sink ContactSink) {
	if !a.BoundingBox.Overlaps(b.BoundingBox) {
		return
	}

	var simplex gjk.Simplex
	offset := b.Position().Sub(a.Position())

	if !gjk.CheckForOverlap(&simplex, a, b, offset) {
		return
	}

	result := epa.Solve(&simplex, a, b)

	manifold := sink.GetContactManifold(a, b)
	if manifold == nil {
		return
	}

	manifold.Friction = contact.DefaultFriction
	manifold.Restitution = contact.DefaultRestitution

	if !result.IsValid() {
		return
	}

	result.ContactA = a.WorldToLocal(result.ContactA)
	result.ContactB = b.WorldToLocal(result.ContactB)
	manifold.Insert(result)
}

// CollideWithStaticQuad runs the narrow phase between a body and a body-less quad.
// The quad is side A of the query, so the normal points from the quad toward the
// object. Contacts that land on an open portal are suppressed and flag the body
// as touching a portal instead.
func CollideWithStaticQuad(object, quadObject *actor.CollisionObject, sink ContactSink, portals PortalTester) {
	if !object.BoundingBox.Overlaps(quadObject.BoundingBox) {
		return
	}

	quad, ok := quadObject.Collider.Shape.(*actor.Quad)
	if !ok {
		return
	}

	var simplex gjk.Simplex
	if !gjk.CheckForOverlap(&simplex, quad, object, quad.Normal) {
		return
	}

	result := epa.Solve(&simplex, quad, object)

	if portals != nil && portals.IsTouchingPortal(result.ContactA, result.Normal) {
		if object.Body != nil {
			object.Body.SetFlag(actor.BodyFlagTouchingPortal)
		}
		return
	}

	manifold := sink.GetContactManifold(quadObject, object)
	if manifold == nil {
		return
	}

	manifold.Friction = contact.DefaultFriction
	manifold.Restitution = contact.DefaultRestitution

	if !result.IsValid() {
		return
	}

	// The quad is static world geometry: its witness point stays in world space
	result.ContactB = object.WorldToLocal(result.ContactB)
	manifold.Insert(result)
}

// CheckOverlap is a GJK-only query for triggers: it reports overlap without
// computing penetration or touching any manifold. direction seeds the search,
// a velocity or an offset works well.
func CheckOverlap(a, b *actor.CollisionObject, direction mgl64.Vec3) bool {
	if !a.BoundingBox.Overlaps(b.BoundingBox) {
		return false
	}

	var simplex gjk.Simplex
	return gjk.CheckForOverlap(&simplex, a, b, direction)
}

// Penetration runs GJK and EPA without emitting anything. ok is false when the
// objects do not overlap or the result is not finite.
func Penetration(a, b *actor.CollisionObject) (epa.Result, bool) {
	if !a.BoundingBox.Overlaps(b.BoundingBox) {
		return epa.Result{}, false
	}

	var simplex gjk.Simplex
	if !gjk.CheckForOverlap(&simplex, a, b, b.Position().Sub(a.Position())) {
		return epa.Result{}, false
	}

	result := epa.Solve(&simplex, a, b)
	return result, result.IsValid()
}
