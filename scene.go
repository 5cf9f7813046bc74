package narrowphase

import (
	"github.com/akmonengine/narrowphase/actor"
	"github.com/akmonengine/narrowphase/contact"
)

// SceneConfig sizes the broad phase and the manifold table
type SceneConfig struct {
	CellSize     float64
	NumCells     int
	MaxManifolds int
}

func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		CellSize:     2.0,
		NumCells:     1024,
		MaxManifolds: contact.DefaultCapacity,
	}
}

// Scene runs the collision pipeline over its objects, one tick at a time.
// Everything happens on the calling goroutine.
type Scene struct {
	// Bodies and static quads, in insertion order
	Objects []*actor.CollisionObject
	Portals PortalSet

	SpatialGrid *SpatialGrid
	Solver      *contact.Solver

	Events Events
}

func NewScene(config SceneConfig) *Scene {
	defaults := DefaultSceneConfig()
	if config.CellSize <= 0 {
		config.CellSize = defaults.CellSize
	}
	if config.NumCells <= 0 {
		config.NumCells = defaults.NumCells
	}

	return &Scene{
		SpatialGrid: NewSpatialGrid(config.CellSize, config.NumCells),
		Solver:      contact.NewSolver(config.MaxManifolds),
		Events:      NewEvents(),
	}
}

// AddObject adds a collision object to the scene
func (s *Scene) AddObject(object *actor.CollisionObject) {
	s.Objects = append(s.Objects, object)
}

// AddQuad wraps quad as static geometry and adds it to the scene
func (s *Scene) AddQuad(quad *actor.Quad, layers actor.CollisionLayers) *actor.CollisionObject {
	object := actor.NewStaticQuadObject(quad, layers)
	s.AddObject(object)

	return object
}

func (s *Scene) AddPortal(portal Portal) {
	s.Portals = append(s.Portals, portal)
}

// RemoveObject removes an object with its manifolds and tracked event state
func (s *Scene) RemoveObject(object *actor.CollisionObject) {
	k := -1
	for i, o := range s.Objects {
		if o == object {
			k = i
			break
		}
	}

	if k != -1 {
		s.Objects = append(s.Objects[:k], s.Objects[k+1:]...)
	}

	s.Solver.RemoveObject(object)
	s.Events.forget(object)
}

// Step runs one collision tick. Bodies must already be at their new transforms.
func (s *Scene) Step() {
	// Phase 1: per-tick object refresh
	for _, object := range s.Objects {
		if object.Body != nil {
			object.Body.ClearFlag(actor.BodyFlagTouchingPortal)
		}
		object.UpdateBB()
	}

	// Phase 2: broad phase
	s.SpatialGrid.Clear()
	for i, object := range s.Objects {
		s.SpatialGrid.Insert(i, object)
	}
	s.SpatialGrid.SortCells()

	// Phase 3: narrow phase, pairs in a fixed order
	for _, pair := range s.SpatialGrid.FindPairs(s.Objects) {
		s.collide(pair)
	}

	// Phase 4: drop stale contacts, then report
	s.Solver.RemoveUnusedContacts()

	s.Events.recordContacts(s.Solver.Manifolds())
	s.Events.processPortalEvents(s.Objects)
	s.Events.flush()
}

func (s *Scene) collide(pair Pair) {
	a, b := pair.A, pair.B

	if a.IsTrigger || b.IsTrigger {
		if CheckOverlap(a, b, b.Position().Sub(a.Position())) {
			s.Events.recordTrigger(a, b)
		}
		return
	}

	switch {
	case isStaticQuad(a):
		CollideWithStaticQuad(b, a, s.Solver, s.Portals)
	case isStaticQuad(b):
		CollideWithStaticQuad(a, b, s.Solver, s.Portals)
	default:
		// Body-less shapes other than quads sit at the origin, in world space
		CollideTwoObjects(a, b, s.Solver)
	}
}

func isStaticQuad(object *actor.CollisionObject) bool {
	if object.Body != nil {
		return false
	}
	_, ok := object.Collider.Shape.(*actor.Quad)
	return ok
}
