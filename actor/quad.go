package actor

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quad features: for each edge, whether the support took its far or near end.
const (
	FeatureQuadFarA Feature = 1 << iota
	FeatureQuadNearA
	FeatureQuadFarB
	FeatureQuadNearB
)

var ErrDegenerateQuad = errors.New("quad edges must be non-zero and not parallel")

// Quad is a flat rectangle-like parallelogram, used for static level geometry.
// Corner is one vertex; EdgeA and EdgeB are unit vectors along the two sides
// starting at Corner, with their lengths stored separately.
type Quad struct {
	Corner      mgl64.Vec3
	EdgeA       mgl64.Vec3
	EdgeB       mgl64.Vec3
	EdgeALength float64
	EdgeBLength float64
	Normal      mgl64.Vec3
}

// NewQuad builds a quad from a corner and two full-length side vectors.
func NewQuad(corner, sideA, sideB mgl64.Vec3) (*Quad, error) {
	lengthA := sideA.Len()
	lengthB := sideB.Len()
	if lengthA < 1e-9 || lengthB < 1e-9 {
		return nil, ErrDegenerateQuad
	}

	normal := sideA.Cross(sideB)
	if normal.Len() < 1e-9*lengthA*lengthB {
		return nil, ErrDegenerateQuad
	}

	return &Quad{
		Corner:      corner,
		EdgeA:       sideA.Mul(1 / lengthA),
		EdgeB:       sideB.Mul(1 / lengthB),
		EdgeALength: lengthA,
		EdgeBLength: lengthB,
		Normal:      normal.Normalize(),
	}, nil
}

// SupportPoint is the support mapping of a static quad, in world space.
// Each edge is handled independently: its far end is taken when the edge points
// along direction, its near end otherwise.
func (q *Quad) SupportPoint(direction mgl64.Vec3) (mgl64.Vec3, Feature) {
	output := q.Corner
	var feature Feature

	if q.EdgeA.Dot(direction) > 0 {
		output = output.Add(q.EdgeA.Mul(q.EdgeALength))
		feature |= FeatureQuadFarA
	} else {
		feature |= FeatureQuadNearA
	}

	if q.EdgeB.Dot(direction) > 0 {
		output = output.Add(q.EdgeB.Mul(q.EdgeBLength))
		feature |= FeatureQuadFarB
	} else {
		feature |= FeatureQuadNearB
	}

	return output, feature
}

// Center returns the middle of the quad
func (q *Quad) Center() mgl64.Vec3 {
	return q.Corner.
		Add(q.EdgeA.Mul(q.EdgeALength * 0.5)).
		Add(q.EdgeB.Mul(q.EdgeBLength * 0.5))
}

// Corners returns the four vertices, counter-clockwise around Normal
func (q *Quad) Corners() [4]mgl64.Vec3 {
	a := q.EdgeA.Mul(q.EdgeALength)
	b := q.EdgeB.Mul(q.EdgeBLength)

	return [4]mgl64.Vec3{
		q.Corner,
		q.Corner.Add(a),
		q.Corner.Add(a).Add(b),
		q.Corner.Add(b),
	}
}

// Support treats the quad fields as local coordinates rotated by basis.
func (q *Quad) Support(basis mgl64.Mat3, direction mgl64.Vec3) (mgl64.Vec3, Feature) {
	rotated := Quad{
		Corner:      basis.Mul3x1(q.Corner),
		EdgeA:       basis.Mul3x1(q.EdgeA),
		EdgeB:       basis.Mul3x1(q.EdgeB),
		EdgeALength: q.EdgeALength,
		EdgeBLength: q.EdgeBLength,
	}

	return rotated.SupportPoint(direction)
}

func (q *Quad) ComputeAABB(transform Transform) AABB {
	corners := q.Corners()

	world := make([]mgl64.Vec3, len(corners))
	for i, c := range corners {
		world[i] = transform.TransformPointNoScale(c)
	}

	return aabbFromPoints(world)
}

// ComputeMass: quads are static level geometry with infinite mass
func (q *Quad) ComputeMass(density float64) float64 {
	return math.Inf(1)
}

func (q *Quad) ComputeInertia(mass float64) mgl64.Mat3 {
	return mgl64.Mat3{}
}
