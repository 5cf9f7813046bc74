package narrowphase

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// PortalPlaneTolerance is how far off the portal plane a contact may be
	PortalPlaneTolerance = 0.05
	// PortalNormalTolerance is the minimum |cos| between the contact normal and the portal normal
	PortalNormalTolerance = 0.7
)

var ErrInvalidPortal = errors.New("portal needs a non-zero normal, a right axis not parallel to it and a positive size")

// PortalTester decides whether a contact lies on a traversable opening.
// Objects there must not be pushed back by the surface behind the portal.
type PortalTester interface {
	IsTouchingPortal(point, normal mgl64.Vec3) bool
}

// Portal is a rectangular opening lying on static geometry
type Portal struct {
	Center   mgl64.Vec3
	Normal   mgl64.Vec3
	Right    mgl64.Vec3
	Up       mgl64.Vec3
	HalfSize mgl64.Vec2
}

// NewPortal builds an orthonormal portal frame from a normal and a right hint.
func NewPortal(center, normal, right mgl64.Vec3, halfSize mgl64.Vec2) (Portal, error) {
	if normal.Len() < 1e-9 || halfSize.X() <= 0 || halfSize.Y() <= 0 {
		return Portal{}, ErrInvalidPortal
	}
	normal = normal.Normalize()

	// Gram-Schmidt the right axis against the normal
	right = right.Sub(normal.Mul(right.Dot(normal)))
	if right.Len() < 1e-9 {
		return Portal{}, ErrInvalidPortal
	}
	right = right.Normalize()

	return Portal{
		Center:   center,
		Normal:   normal,
		Right:    right,
		Up:       normal.Cross(right),
		HalfSize: halfSize,
	}, nil
}

// Contains reports whether point lies within the portal rectangle, near its plane
func (p Portal) Contains(point mgl64.Vec3) bool {
	offset := point.Sub(p.Center)

	if math.Abs(offset.Dot(p.Normal)) > PortalPlaneTolerance {
		return false
	}

	return math.Abs(offset.Dot(p.Right)) <= p.HalfSize.X() &&
		math.Abs(offset.Dot(p.Up)) <= p.HalfSize.Y()
}

func (p Portal) IsTouchingPortal(point, normal mgl64.Vec3) bool {
	if math.Abs(normal.Dot(p.Normal)) < PortalNormalTolerance {
		return false
	}
	return p.Contains(point)
}

// PortalSet is the list of currently open portals
type PortalSet []Portal

func (s PortalSet) IsTouchingPortal(point, normal mgl64.Vec3) bool {
	for _, p := range s {
		if p.IsTouchingPortal(point, normal) {
			return true
		}
	}
	return false
}
