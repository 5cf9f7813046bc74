package epa

import (
	"errors"
	"math"

	"github.com/akmonengine/narrowphase/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrInvalidSimplex = errors.New("epa: simplex is not a tetrahedron")
	ErrNotExpandable  = errors.New("epa: support point does not expand the polytope")
)

// Face is a triangle of the polytope. Vertices are indices into the polytope
// vertex list, wound counter-clockwise seen from outside.
type Face struct {
	Indices  [3]int
	Normal   mgl64.Vec3 // Outward unit normal
	Distance float64    // Signed distance from the origin to the face plane
}

// Edge is a directed edge between two vertex indices
type Edge struct {
	A, B int
}

// Polytope is the convex hull grown by EPA. It only lives for one query.
type Polytope struct {
	Vertices []gjk.Vertex
	Faces    []Face

	// interior is a fixed point strictly inside the hull, used to orient faces.
	// The hull only grows, so it stays inside.
	interior mgl64.Vec3

	horizon []Edge
	visible []int
}

// NewPolytope builds the initial four faces from a tetrahedron simplex
func NewPolytope(simplex *gjk.Simplex) (*Polytope, error) {
	if simplex.Count != 4 {
		return nil, ErrInvalidSimplex
	}

	p := &Polytope{
		Vertices: make([]gjk.Vertex, 0, 4+MaxIterations),
		Faces:    make([]Face, 0, 4+2*MaxIterations),
		horizon:  make([]Edge, 0, 16),
		visible:  make([]int, 0, 16),
	}

	for i := 0; i < 4; i++ {
		p.Vertices = append(p.Vertices, simplex.Points[i])
		p.interior = p.interior.Add(simplex.Points[i].Point)
	}
	p.interior = p.interior.Mul(0.25)

	p.addFace(0, 1, 2)
	p.addFace(0, 3, 1)
	p.addFace(0, 2, 3)
	p.addFace(1, 3, 2)

	return p, nil
}

// addFace appends triangle (i, j, k), flipping the winding when needed so the
// normal points away from the interior point.
func (p *Polytope) addFace(i, j, k int) {
	a := p.Vertices[i].Point
	b := p.Vertices[j].Point
	c := p.Vertices[k].Point

	normal := b.Sub(a).Cross(c.Sub(a))
	length := normal.Len()

	if length < 1e-12 {
		// Zero-area sliver: keep it for topology but never pick it as closest
		p.Faces = append(p.Faces, Face{
			Indices:  [3]int{i, j, k},
			Normal:   a.Sub(p.interior).Normalize(),
			Distance: math.Inf(1),
		})
		return
	}
	normal = normal.Mul(1 / length)

	if normal.Dot(a.Sub(p.interior)) < 0 {
		normal = normal.Mul(-1)
		j, k = k, j
	}

	p.Faces = append(p.Faces, Face{
		Indices:  [3]int{i, j, k},
		Normal:   normal,
		Distance: normal.Dot(a),
	})
}

// ClosestFace returns the index of the face nearest to the origin, first wins on ties
func (p *Polytope) ClosestFace() int {
	closest := -1
	minDistance := math.Inf(1)

	for i := range p.Faces {
		if p.Faces[i].Distance < minDistance {
			minDistance = p.Faces[i].Distance
			closest = i
		}
	}

	return closest
}

// Expand adds a support vertex: every face that sees it is removed and the
// resulting hole is closed with a fan of faces around the new vertex.
func (p *Polytope) Expand(v gjk.Vertex) error {
	for _, existing := range p.Vertices {
		if existing.Point.Sub(v.Point).LenSqr() < gjk.DuplicateTolerance {
			return ErrNotExpandable
		}
	}

	p.visible = p.visible[:0]
	for i, face := range p.Faces {
		a := p.Vertices[face.Indices[0]].Point
		if face.Normal.Dot(v.Point.Sub(a)) > VisibilityTolerance {
			p.visible = append(p.visible, i)
		}
	}

	if len(p.visible) == 0 {
		return ErrNotExpandable
	}

	// Horizon: directed edges of visible faces whose reverse is not also visible
	p.horizon = p.horizon[:0]
	for _, fi := range p.visible {
		idx := p.Faces[fi].Indices
		for e := 0; e < 3; e++ {
			p.addHorizonEdge(Edge{A: idx[e], B: idx[(e+1)%3]})
		}
	}

	// Remove visible faces, preserving the order of the others
	n := 0
	vi := 0
	for i := range p.Faces {
		if vi < len(p.visible) && p.visible[vi] == i {
			vi++
			continue
		}
		p.Faces[n] = p.Faces[i]
		n++
	}
	p.Faces = p.Faces[:n]

	newIndex := len(p.Vertices)
	p.Vertices = append(p.Vertices, v)

	for _, edge := range p.horizon {
		p.addFace(edge.A, edge.B, newIndex)
	}

	return nil
}

// addHorizonEdge inserts an edge, or cancels it against its reverse shared by
// another visible face.
func (p *Polytope) addHorizonEdge(edge Edge) {
	for i, other := range p.horizon {
		if other.A == edge.B && other.B == edge.A {
			p.horizon = append(p.horizon[:i], p.horizon[i+1:]...)
			return
		}
	}
	p.horizon = append(p.horizon, edge)
}
