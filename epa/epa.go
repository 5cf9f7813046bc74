// Package epa implements the Expanding Polytope Algorithm for computing penetration depth.
//
// EPA is run after GJK detects a collision to determine:
//   - Penetration depth (how far shapes overlap)
//   - Contact normal (direction to separate shapes)
//   - Contact points (one witness point on each shape)
//
// The algorithm expands a polytope (starting from GJK's final simplex) toward the origin
// in the Minkowski difference space, finding the closest face which gives us the
// Minimum Translation Vector (MTV) to separate the shapes.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on 3D Game Objects" (2001)
package epa

import (
	"math"

	"github.com/akmonengine/narrowphase/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxIterations limits polytope expansion. Reaching it is not a failure:
	// the closest face found so far is returned.
	MaxIterations = 64

	// ConvergenceTolerance defines when EPA has converged.
	// If the distance to a new support point improves by less than this threshold,
	// we've found the face of the Minkowski difference closest to the origin.
	ConvergenceTolerance = 1e-4

	// VisibilityTolerance is how far in front of a face a point must be to see it.
	VisibilityTolerance = 1e-9

	// NormalSnapThreshold is used to clamp nearly-zero normal components to exactly zero.
	// This helps with numerical stability and axis-aligned collisions.
	NormalSnapThreshold = 1e-8
)

// Result is the minimum translation found by EPA.
// Normal points from A toward B: moving B by Normal*Penetration separates the shapes.
// ContactA and ContactB are world-space witness points on each shape.
type Result struct {
	Penetration float64
	Normal      mgl64.Vec3
	ContactA    mgl64.Vec3
	ContactB    mgl64.Vec3
}

// IsValid reports whether every component is finite. A result with a NaN or an
// infinity anywhere must not reach the solver.
func (r Result) IsValid() bool {
	if !finite(r.Penetration) {
		return false
	}
	for _, v := range [3]mgl64.Vec3{r.Normal, r.ContactA, r.ContactB} {
		if !finite(v[0]) || !finite(v[1]) || !finite(v[2]) {
			return false
		}
	}
	return true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Solve computes penetration depth, normal and witness points for an overlapping pair.
//
// Algorithm overview:
//  1. Start with simplex from GJK (completed to a tetrahedron if needed)
//  2. Build initial polytope faces from simplex
//  3. Find face closest to origin
//  4. Get support point in face normal direction
//  5. If converged (new point doesn't improve distance) → done
//  6. Otherwise, expand polytope by adding support point
//  7. Repeat from step 3
//
// Solve never fails: degenerate input and iteration exhaustion both return the
// best estimate available.
func Solve(simplex *gjk.Simplex, a, b gjk.Support) Result {
	if simplex.Count < 4 && !completeSimplex(simplex, a, b) {
		return degenerateResult(simplex)
	}

	polytope, err := NewPolytope(simplex)
	if err != nil {
		return degenerateResult(simplex)
	}

	closest := polytope.ClosestFace()
	if closest < 0 {
		return degenerateResult(simplex)
	}

	for i := 0; i < MaxIterations; i++ {
		face := polytope.Faces[closest]

		support := gjk.MinkowskiSupport(a, b, face.Normal)
		if support.Point.Dot(face.Normal)-face.Distance < ConvergenceTolerance {
			break
		}

		if err := polytope.Expand(support); err != nil {
			break
		}

		next := polytope.ClosestFace()
		if next < 0 {
			break
		}
		closest = next
	}

	return polytope.result(closest)
}

// result projects the origin onto a face and maps the projection back to both shapes
func (p *Polytope) result(faceIndex int) Result {
	face := p.Faces[faceIndex]
	v0 := p.Vertices[face.Indices[0]]
	v1 := p.Vertices[face.Indices[1]]
	v2 := p.Vertices[face.Indices[2]]

	distance := math.Max(face.Distance, 0)
	projection := face.Normal.Mul(face.Distance)

	u, v, w := barycentric(projection, v0.Point, v1.Point, v2.Point)

	return Result{
		Penetration: distance,
		Normal:      snapNormalToAxis(face.Normal),
		ContactA:    v0.A.Mul(u).Add(v1.A.Mul(v)).Add(v2.A.Mul(w)),
		ContactB:    v0.B.Mul(u).Add(v1.B.Mul(v)).Add(v2.B.Mul(w)),
	}
}

// barycentric returns the weights of p with respect to triangle (a, b, c).
// A degenerate triangle falls back to its vertex nearest p.
func barycentric(p, a, b, c mgl64.Vec3) (float64, float64, float64) {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := p.Sub(a)

	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)

	denom := d00*d11 - d01*d01
	if math.Abs(denom) < 1e-18 {
		da := p.Sub(a).LenSqr()
		db := p.Sub(b).LenSqr()
		dc := p.Sub(c).LenSqr()
		switch {
		case da <= db && da <= dc:
			return 1, 0, 0
		case db <= dc:
			return 0, 1, 0
		default:
			return 0, 0, 1
		}
	}

	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom

	return 1 - v - w, v, w
}

// searchDirections are probed, in order, to grow a touching simplex into a tetrahedron
var searchDirections = [6]mgl64.Vec3{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// completeSimplex grows a 1-3 point simplex into a non-degenerate tetrahedron.
// GJK stops early on touching contacts, with the origin on a point, edge or face.
func completeSimplex(simplex *gjk.Simplex, a, b gjk.Support) bool {
	if simplex.Count == 0 {
		return false
	}

	for simplex.Count < 4 {
		added := false

		for _, direction := range completionDirections(simplex) {
			candidate := gjk.MinkowskiSupport(a, b, direction)
			if extendsSimplex(simplex, candidate) {
				simplex.Points[simplex.Count] = candidate
				simplex.Count++
				added = true
				break
			}
		}

		if !added {
			return false
		}
	}

	return true
}

func completionDirections(simplex *gjk.Simplex) []mgl64.Vec3 {
	switch simplex.Count {
	case 2:
		// Probe perpendiculars of the segment
		edge := simplex.Points[1].Point.Sub(simplex.Points[0].Point)
		directions := make([]mgl64.Vec3, 0, 6)
		for _, axis := range searchDirections {
			perp := edge.Cross(axis)
			if perp.LenSqr() > 1e-12 {
				directions = append(directions, perp)
			}
		}
		return directions
	case 3:
		p0 := simplex.Points[0].Point
		normal := simplex.Points[1].Point.Sub(p0).Cross(simplex.Points[2].Point.Sub(p0))
		return []mgl64.Vec3{normal, normal.Mul(-1)}
	}
	return searchDirections[:]
}

// extendsSimplex checks that candidate raises the dimension of the simplex
func extendsSimplex(simplex *gjk.Simplex, candidate gjk.Vertex) bool {
	if simplex.Contains(candidate) {
		return false
	}

	p0 := simplex.Points[0].Point
	d := candidate.Point.Sub(p0)

	switch simplex.Count {
	case 1:
		return d.LenSqr() > 1e-12
	case 2:
		edge := simplex.Points[1].Point.Sub(p0)
		return edge.Cross(d).LenSqr() > 1e-12*edge.LenSqr()
	case 3:
		normal := simplex.Points[1].Point.Sub(p0).Cross(simplex.Points[2].Point.Sub(p0))
		volume := normal.Dot(d)
		return volume*volume > 1e-18*normal.LenSqr()
	}
	return false
}

// degenerateResult is the zero-depth answer for a simplex that spans no volume.
// The shapes are at most touching, so the penetration is zero.
func degenerateResult(simplex *gjk.Simplex) Result {
	var contactA, contactB mgl64.Vec3
	for i := 0; i < simplex.Count; i++ {
		contactA = contactA.Add(simplex.Points[i].A)
		contactB = contactB.Add(simplex.Points[i].B)
	}
	if simplex.Count > 0 {
		contactA = contactA.Mul(1 / float64(simplex.Count))
		contactB = contactB.Mul(1 / float64(simplex.Count))
	}

	normal := contactB.Sub(contactA)
	if normal.LenSqr() < 1e-16 {
		normal = mgl64.Vec3{0, 1, 0}
	}

	return Result{
		Penetration: 0,
		Normal:      normal.Normalize(),
		ContactA:    contactA,
		ContactB:    contactB,
	}
}

// snapNormalToAxis clamps nearly-zero components of a normal vector to exactly zero.
//
// This improves numerical stability for axis-aligned collisions (box on ground)
// by preventing tiny floating-point errors from causing jitter in tangent directions.
func snapNormalToAxis(normal mgl64.Vec3) mgl64.Vec3 {
	x := normal[0]
	y := normal[1]
	z := normal[2]

	if math.Abs(x) < NormalSnapThreshold {
		x = 0
	}
	if math.Abs(y) < NormalSnapThreshold {
		y = 0
	}
	if math.Abs(z) < NormalSnapThreshold {
		z = 0
	}

	clamped := mgl64.Vec3{x, y, z}

	length := clamped.Len()
	if length < 1e-8 {
		// If all components were clamped to zero, return default
		return mgl64.Vec3{0, 1, 0}
	}

	return clamped.Mul(1.0 / length)
}
