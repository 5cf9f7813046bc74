package actor

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Collider describes a shape variant. It is owned by whoever defines the shape
// (level geometry, a prop type) and only referenced by collision objects.
type Collider struct {
	Type  ShapeType
	Shape Shape

	// Material hints. The contact pipeline currently writes fixed defaults
	// into manifolds and does not read these.
	Friction    float64
	Restitution float64
}

// CollisionLayers selects which objects may touch: two objects are only tested
// when their layers share at least one bit.
type CollisionLayers uint32

const (
	CollisionLayerTangible CollisionLayers = 1 << iota
	CollisionLayerBall
	CollisionLayerTrigger

	CollisionLayerAll CollisionLayers = ^CollisionLayers(0)
)

// CollisionObject binds a collider to a rigid body and keeps its world bounds.
// Static level geometry has no body.
type CollisionObject struct {
	Collider    *Collider
	Body        *RigidBody
	BoundingBox AABB
	Layers      CollisionLayers

	// Triggers only report overlaps, they never get a manifold
	IsTrigger bool
}

// NewCollisionObject initializes body's mass properties from the collider shape
// and computes the initial bounding box.
func NewCollisionObject(collider *Collider, body *RigidBody, mass float64, layers CollisionLayers) *CollisionObject {
	object := &CollisionObject{
		Collider: collider,
		Body:     body,
		Layers:   layers,
	}

	if body != nil {
		body.Init(mass, collider.Shape.ComputeInertia(mass))
	}
	object.UpdateBB()

	return object
}

// NewStaticQuadObject wraps a world-space quad as body-less static geometry.
func NewStaticQuadObject(quad *Quad, layers CollisionLayers) *CollisionObject {
	object := &CollisionObject{
		Collider: &Collider{Type: ShapeTypeQuad, Shape: quad},
		Layers:   layers,
	}
	object.UpdateBB()

	return object
}

// UpdateBB refreshes the bounding box and the body's cached rotation basis.
// It must run once per tick before any pairwise test. Body-less objects are
// placed at the identity transform.
func (o *CollisionObject) UpdateBB() {
	if o.Body == nil {
		o.BoundingBox = o.Collider.Shape.ComputeAABB(NewTransform())
		return
	}

	o.BoundingBox = o.Collider.Shape.ComputeAABB(o.Body.Transform)
	o.Body.UpdateBasis()
}

// SupportPoint is the support mapping of the object in world space: the shape
// support under the cached rotation basis, offset by the body position.
func (o *CollisionObject) SupportPoint(direction mgl64.Vec3) (mgl64.Vec3, Feature) {
	if o.Body == nil {
		return o.Collider.Shape.Support(mgl64.Ident3(), direction)
	}

	point, feature := o.Collider.Shape.Support(o.Body.RotationBasis, direction)
	return point.Add(o.Body.Transform.Position), feature
}

// Position returns the body position, or the center of static geometry
func (o *CollisionObject) Position() mgl64.Vec3 {
	if o.Body == nil {
		if quad, ok := o.Collider.Shape.(*Quad); ok {
			return quad.Center()
		}
		return o.BoundingBox.Min.Add(o.BoundingBox.Max).Mul(0.5)
	}
	return o.Body.Transform.Position
}

// WorldToLocal expresses a world point in the body frame, ignoring scale.
// Static geometry lives in world space already.
func (o *CollisionObject) WorldToLocal(point mgl64.Vec3) mgl64.Vec3 {
	if o.Body == nil {
		return point
	}
	return o.Body.Transform.InverseTransformPointNoScale(point)
}

// LocalToWorld is the inverse of WorldToLocal
func (o *CollisionObject) LocalToWorld(point mgl64.Vec3) mgl64.Vec3 {
	if o.Body == nil {
		return point
	}
	return o.Body.Transform.TransformPointNoScale(point)
}

// IsStatic reports objects that never move: body-less geometry and kinematic bodies.
func (o *CollisionObject) IsStatic() bool {
	return o.Body == nil || o.Body.IsKinematic()
}

// CanCollideWith checks the layer masks of both objects
func (o *CollisionObject) CanCollideWith(other *CollisionObject) bool {
	return o.Layers&other.Layers != 0
}
