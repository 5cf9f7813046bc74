package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestTransformPointRoundTrip(t *testing.T) {
	transform := Transform{
		Position: mgl64.Vec3{1, 2, 3},
		Rotation: mgl64.QuatRotate(math.Pi/3, mgl64.Vec3{1, 1, 0}.Normalize()),
	}

	points := []mgl64.Vec3{
		{0, 0, 0},
		{1, 0, 0},
		{-0.5, 2, 7},
	}

	for _, p := range points {
		world := transform.TransformPointNoScale(p)
		local := transform.InverseTransformPointNoScale(world)
		if !vec3ApproxEqual(local, p, 1e-9) {
			t.Errorf("round trip of %v = %v", p, local)
		}
	}
}

func TestTransformZeroRotation(t *testing.T) {
	// An unset quaternion behaves as the identity
	transform := Transform{Position: mgl64.Vec3{1, 0, 0}}

	if got := transform.TransformPointNoScale(mgl64.Vec3{0, 1, 0}); !vec3ApproxEqual(got, mgl64.Vec3{1, 1, 0}, 1e-12) {
		t.Errorf("TransformPointNoScale() = %v, want %v", got, mgl64.Vec3{1, 1, 0})
	}
	if basis := transform.Basis(); basis != mgl64.Ident3() {
		t.Errorf("Basis() = %v, want identity", basis)
	}
}

func TestRigidBodyInit(t *testing.T) {
	tests := []struct {
		name        string
		mass        float64
		inverseMass float64
	}{
		{"dynamic", 2, 0.5},
		{"zero mass", 0, 0},
		{"infinite mass", math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := NewRigidBody(NewTransform())
			body.Init(tt.mass, mgl64.Diag3(mgl64.Vec3{1, 1, 1}))

			if body.InverseMass != tt.inverseMass {
				t.Errorf("InverseMass = %v, want %v", body.InverseMass, tt.inverseMass)
			}
		})
	}
}

func TestRigidBodyFlags(t *testing.T) {
	body := NewRigidBody(Transform{})

	if body.Transform.Scale != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("Scale = %v, want unit scale", body.Transform.Scale)
	}

	body.SetFlag(BodyFlagTouchingPortal)
	if !body.HasFlag(BodyFlagTouchingPortal) || body.IsKinematic() {
		t.Errorf("Flags = %b after SetFlag", body.Flags)
	}

	body.MarkKinematic()
	if !body.IsKinematic() || body.InverseMass != 0 {
		t.Errorf("MarkKinematic(): kinematic = %v, inverse mass = %v", body.IsKinematic(), body.InverseMass)
	}

	body.ClearFlag(BodyFlagTouchingPortal)
	if body.HasFlag(BodyFlagTouchingPortal) || !body.IsKinematic() {
		t.Errorf("Flags = %b after ClearFlag", body.Flags)
	}
}

func TestCollisionObject(t *testing.T) {
	collider := &Collider{Type: ShapeTypeBox, Shape: &Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}}}
	body := NewRigidBody(Transform{Position: mgl64.Vec3{3, 0, 0}})
	object := NewCollisionObject(collider, body, 1, CollisionLayerTangible)

	t.Run("bounding box follows the body", func(t *testing.T) {
		if !vec3ApproxEqual(object.BoundingBox.Min, mgl64.Vec3{2.5, -0.5, -0.5}, 1e-12) {
			t.Errorf("BoundingBox = %v", object.BoundingBox)
		}

		body.Transform.Position = mgl64.Vec3{0, 10, 0}
		object.UpdateBB()
		if !vec3ApproxEqual(object.BoundingBox.Max, mgl64.Vec3{0.5, 10.5, 0.5}, 1e-12) {
			t.Errorf("BoundingBox after UpdateBB = %v", object.BoundingBox)
		}
	})

	t.Run("support point is in world space", func(t *testing.T) {
		point, _ := object.SupportPoint(mgl64.Vec3{1, 1, 1})
		if !vec3ApproxEqual(point, mgl64.Vec3{0.5, 10.5, 0.5}, 1e-12) {
			t.Errorf("SupportPoint() = %v", point)
		}
	})

	t.Run("local and world round trip", func(t *testing.T) {
		p := mgl64.Vec3{1, 2, 3}
		if got := object.LocalToWorld(object.WorldToLocal(p)); !vec3ApproxEqual(got, p, 1e-12) {
			t.Errorf("round trip = %v, want %v", got, p)
		}
	})

	t.Run("layers", func(t *testing.T) {
		ball := &CollisionObject{Layers: CollisionLayerBall}
		anything := &CollisionObject{Layers: CollisionLayerAll}

		if object.CanCollideWith(ball) {
			t.Errorf("tangible object should not collide with ball layer")
		}
		if !object.CanCollideWith(anything) || !ball.CanCollideWith(anything) {
			t.Errorf("CollisionLayerAll should collide with every layer")
		}
	})

	t.Run("body-less object sits at the origin", func(t *testing.T) {
		static := NewCollisionObject(&Collider{Type: ShapeTypeSphere, Shape: &Sphere{Radius: 2}}, nil, 0, CollisionLayerAll)

		expected := AABB{Min: mgl64.Vec3{-2, -2, -2}, Max: mgl64.Vec3{2, 2, 2}}
		if !vec3ApproxEqual(static.BoundingBox.Min, expected.Min, 1e-12) || !vec3ApproxEqual(static.BoundingBox.Max, expected.Max, 1e-12) {
			t.Errorf("BoundingBox = %v, want %v", static.BoundingBox, expected)
		}
		if !static.IsStatic() {
			t.Errorf("body-less object should be static")
		}

		static.UpdateBB()
		if !vec3ApproxEqual(static.Position(), mgl64.Vec3{}, 1e-12) {
			t.Errorf("Position() = %v, want origin", static.Position())
		}
	})

	t.Run("static quad object", func(t *testing.T) {
		quad := floorQuad(t)
		static := NewStaticQuadObject(quad, CollisionLayerAll)

		if !static.IsStatic() || object.IsStatic() {
			t.Errorf("IsStatic() = %v / %v", static.IsStatic(), object.IsStatic())
		}
		if !vec3ApproxEqual(static.Position(), quad.Center(), 1e-12) {
			t.Errorf("Position() = %v, want %v", static.Position(), quad.Center())
		}
		p := mgl64.Vec3{1, 2, 3}
		if static.WorldToLocal(p) != p {
			t.Errorf("static geometry must stay in world space")
		}
	})
}
