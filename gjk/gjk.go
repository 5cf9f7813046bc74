// Package gjk implements the Gilbert-Johnson-Keerthi (GJK) algorithm for collision detection.
//
// GJK detects whether two convex shapes overlap by testing if their Minkowski difference
// contains the origin. The algorithm builds a simplex incrementally, converging toward
// the origin in typically 3-6 iterations.
//
// Shapes are only ever seen through a Support mapping, so any convex primitive works.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"github.com/akmonengine/narrowphase/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxIterations bounds the search. Reaching it reports no overlap.
	MaxIterations = 32

	// DuplicateTolerance is the squared distance under which two Minkowski points
	// are the same vertex.
	DuplicateTolerance = 1e-12

	degenerateTolerance = 1e-10
)

// Support is one side of a query: a world-space support mapping.
type Support interface {
	SupportPoint(direction mgl64.Vec3) (mgl64.Vec3, actor.Feature)
}

// Vertex is a point of the Minkowski difference A - B together with the support
// points on A and B that produced it. EPA uses A and B to recover witness points.
type Vertex struct {
	Point    mgl64.Vec3
	A        mgl64.Vec3
	B        mgl64.Vec3
	FeatureA actor.Feature
	FeatureB actor.Feature
}

// sameAs reports whether two vertices are the same point of the Minkowski difference.
// Flat-faced shapes name their features, which makes the test exact.
func (v Vertex) sameAs(other Vertex) bool {
	if v.FeatureA != 0 && v.FeatureB != 0 && v.FeatureA == other.FeatureA && v.FeatureB == other.FeatureB {
		return true
	}
	return v.Point.Sub(other.Point).LenSqr() < DuplicateTolerance
}

// Simplex represents a set of 1-4 vertices in the Minkowski difference space.
// Size progression: 1 point → 2 points (line) → 3 points (triangle) → 4 points (tetrahedron)
// The most recent vertex is always last.
type Simplex struct {
	Points [4]Vertex
	Count  int
}

func (s *Simplex) Reset() {
	s.Count = 0
}

// Contains reports whether v is already one of the simplex vertices
func (s *Simplex) Contains(v Vertex) bool {
	for i := 0; i < s.Count; i++ {
		if s.Points[i].sameAs(v) {
			return true
		}
	}
	return false
}

func (s *Simplex) push(v Vertex) {
	s.Points[s.Count] = v
	s.Count++
}

func (s *Simplex) set(points ...Vertex) {
	s.Count = copy(s.Points[:], points)
}

// MinkowskiSupport computes a support point in the Minkowski difference (A - B):
// furthestPoint(A, direction) - furthestPoint(B, -direction)
func MinkowskiSupport(a, b Support, direction mgl64.Vec3) Vertex {
	supportA, featureA := a.SupportPoint(direction)
	supportB, featureB := b.SupportPoint(direction.Mul(-1))

	return Vertex{
		Point:    supportA.Sub(supportB),
		A:        supportA,
		B:        supportB,
		FeatureA: featureA,
		FeatureB: featureB,
	}
}

// CheckForOverlap reports whether the shapes behind a and b overlap.
//
// Algorithm overview:
//  1. Start with the seed direction (inter-body offset, a face normal, a velocity...)
//  2. Get first support point in Minkowski difference
//  3. Iteratively refine simplex toward origin
//  4. If origin is contained → collision
//  5. If can't reach origin → no collision
//
// The simplex is modified in place. On overlap it is usually a tetrahedron
// enclosing the origin; touching contacts may stop on a lower-dimension feature
// that contains the origin, which EPA completes.
func CheckForOverlap(simplex *Simplex, a, b Support, direction mgl64.Vec3) bool {
	if direction.LenSqr() < 1e-8 {
		direction = mgl64.Vec3{1, 0, 0}
	}

	simplex.Reset()
	simplex.push(MinkowskiSupport(a, b, direction))

	// New direction towards the origin from this first point
	direction = simplex.Points[0].Point.Mul(-1)

	for i := 0; i < MaxIterations; i++ {
		// The origin sits on the current feature: shapes are touching
		if direction.LenSqr() < 1e-16 {
			return true
		}

		newPoint := MinkowskiSupport(a, b, direction)

		// If the new point doesn't pass the origin in the search direction,
		// the origin cannot be reached, therefore no collision.
		if newPoint.Point.Dot(direction) <= 0 {
			return false
		}

		// No progress: the same vertex came back, the search would cycle.
		if simplex.Contains(newPoint) {
			return false
		}

		simplex.push(newPoint)

		if containsOrigin(simplex, &direction) {
			return true
		}
	}

	return false
}

// containsOrigin tests if the simplex contains the origin and refines the simplex.
//
// It keeps only the feature (point, edge, face) closest to the origin and updates
// the search direction toward the origin from that feature.
func containsOrigin(simplex *Simplex, direction *mgl64.Vec3) bool {
	switch simplex.Count {
	case 2:
		return line(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	case 4:
		return tetrahedron(simplex, direction)
	}
	return false
}

// line handles the line simplex case (2 points: A newest, B older).
//
// Returns true only when the origin lies on the segment.
func line(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[1]
	b := simplex.Points[0]
	ab := b.Point.Sub(a.Point)
	ao := a.Point.Mul(-1)

	if ab.LenSqr() < degenerateTolerance {
		simplex.set(a)
		*direction = ao
		return false
	}

	// Origin is closest to point A alone
	if ab.Dot(ao) <= 0 {
		simplex.set(a)
		*direction = ao
		return false
	}

	abPerp := ab.Cross(ao).Cross(ab)
	if abPerp.LenSqr() < 1e-16 {
		// Origin is on the line segment → touching
		return true
	}

	*direction = abPerp
	return false
}

// triangle handles the triangle simplex case (3 points: A newest, then B, C).
//
// Degenerate case: collinear points fall back to the newest edge AB.
// Returns true only when the origin lies in the triangle plane inside it.
func triangle(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[2]
	b := simplex.Points[1]
	c := simplex.Points[0]

	ab := b.Point.Sub(a.Point)
	ac := c.Point.Sub(a.Point)
	ao := a.Point.Mul(-1)

	abc := ab.Cross(ac)

	if abc.LenSqr() < degenerateTolerance {
		simplex.set(b, a)
		return line(simplex, direction)
	}

	// Region AB (edge)
	if ab.Cross(abc).Dot(ao) > 0 {
		simplex.set(b, a)
		return line(simplex, direction)
	}

	// Region AC (edge)
	if abc.Cross(ac).Dot(ao) > 0 {
		simplex.set(c, a)
		return line(simplex, direction)
	}

	side := abc.Dot(ao)
	if side*side < 1e-16*abc.LenSqr() {
		// Origin lies inside the triangle → touching
		return true
	}

	if side > 0 {
		*direction = abc
	} else {
		// Below, reverse order to keep the winding facing the origin
		simplex.set(b, c, a)
		*direction = abc.Mul(-1)
	}

	return false
}

// tetrahedron handles the tetrahedron simplex case (4 points: A newest, B, C, D).
//
// Face normals point away from the opposite vertex. If the origin is outside a
// face, the simplex is reduced to that face; if it is inside all three faces
// touching A, it is enclosed (face BCD was already known to face the origin).
func tetrahedron(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[3]
	b := simplex.Points[2]
	c := simplex.Points[1]
	d := simplex.Points[0]

	ab := b.Point.Sub(a.Point)
	ac := c.Point.Sub(a.Point)
	ad := d.Point.Sub(a.Point)
	ao := a.Point.Mul(-1)

	// Flat tetrahedron: drop the oldest vertex
	if ab.Cross(ac).Dot(ad)*ab.Cross(ac).Dot(ad) < degenerateTolerance*degenerateTolerance {
		simplex.set(c, b, a)
		return triangle(simplex, direction)
	}

	abc := ab.Cross(ac)
	if abc.Dot(ad) > 0 {
		abc = abc.Mul(-1)
	}

	acd := ac.Cross(ad)
	if acd.Dot(ab) > 0 {
		acd = acd.Mul(-1)
	}

	adb := ad.Cross(ab)
	if adb.Dot(ac) > 0 {
		adb = adb.Mul(-1)
	}

	if abc.Dot(ao) > 0 {
		simplex.set(c, b, a)
		return triangle(simplex, direction)
	}

	if acd.Dot(ao) > 0 {
		simplex.set(d, c, a)
		return triangle(simplex, direction)
	}

	if adb.Dot(ao) > 0 {
		simplex.set(b, d, a)
		return triangle(simplex, direction)
	}

	// The origin is inside the tetrahedron
	return true
}
