package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyFlags is the small status bitfield the collision core reads and writes.
type BodyFlags uint8

const (
	// BodyFlagKinematic bodies are moved by gameplay code, never by contacts.
	BodyFlagKinematic BodyFlags = 1 << iota
	// BodyFlagTouchingPortal is raised when a contact landed on an open portal
	// and was suppressed. It is cleared at the start of every tick.
	BodyFlagTouchingPortal
)

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	Transform Transform

	Velocity        mgl64.Vec3 // Linear velocity (m/s)
	AngularVelocity mgl64.Vec3 // rad/s

	Mass        float64
	InverseMass float64

	InertiaLocal        mgl64.Mat3
	InverseInertiaLocal mgl64.Mat3

	// RotationBasis caches Transform.Rotation as a matrix. Support mappings read
	// it, so it must be refreshed (UpdateBasis) whenever the rotation changes.
	RotationBasis mgl64.Mat3

	Flags BodyFlags
}

// NewRigidBody creates a body at rest with the given transform and no mass yet
func NewRigidBody(transform Transform) *RigidBody {
	if transform.Scale == (mgl64.Vec3{}) {
		transform.Scale = mgl64.Vec3{1, 1, 1}
	}

	rb := &RigidBody{Transform: transform}
	rb.UpdateBasis()

	return rb
}

// Init sets the mass properties. A non-positive or infinite mass makes the body immovable.
func (rb *RigidBody) Init(mass float64, inertia mgl64.Mat3) {
	rb.Mass = mass
	rb.InertiaLocal = inertia

	if mass <= 0 || math.IsInf(mass, 1) {
		rb.InverseMass = 0
		rb.InverseInertiaLocal = mgl64.Mat3{}
		return
	}

	rb.InverseMass = 1.0 / mass
	rb.InverseInertiaLocal = inertia.Inv()
}

// UpdateBasis recomputes the cached rotation matrix from the transform
func (rb *RigidBody) UpdateBasis() {
	rb.RotationBasis = rb.Transform.Basis()
}

func (rb *RigidBody) HasFlag(flag BodyFlags) bool {
	return rb.Flags&flag != 0
}

func (rb *RigidBody) SetFlag(flag BodyFlags) {
	rb.Flags |= flag
}

func (rb *RigidBody) ClearFlag(flag BodyFlags) {
	rb.Flags &^= flag
}

// MarkKinematic gives the body infinite mass so contacts never move it
func (rb *RigidBody) MarkKinematic() {
	rb.SetFlag(BodyFlagKinematic)
	rb.Mass = math.Inf(1)
	rb.InverseMass = 0
	rb.InverseInertiaLocal = mgl64.Mat3{}
}

func (rb *RigidBody) IsKinematic() bool {
	return rb.HasFlag(BodyFlagKinematic)
}
