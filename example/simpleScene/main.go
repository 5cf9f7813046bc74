package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/akmonengine/narrowphase"
	"github.com/akmonengine/narrowphase/actor"
	"github.com/akmonengine/narrowphase/contact"
	"github.com/go-gl/mathgl/mgl64"
)

// SetupScene creates a floor with an opening, a box resting on the floor and a
// box that slides over the opening.
func SetupScene() (*narrowphase.Scene, *actor.CollisionObject, *actor.CollisionObject, error) {
	scene := narrowphase.NewScene(narrowphase.DefaultSceneConfig())

	floor, err := actor.NewQuad(mgl64.Vec3{-5, 0, 5}, mgl64.Vec3{10, 0, 0}, mgl64.Vec3{0, 0, -10})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("floor: %w", err)
	}
	scene.AddQuad(floor, actor.CollisionLayerAll)

	portal, err := narrowphase.NewPortal(mgl64.Vec3{3, 0, 0}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec2{1, 1})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("portal: %w", err)
	}
	scene.AddPortal(portal)

	boxCollider := &actor.Collider{
		Type:  actor.ShapeTypeBox,
		Shape: &actor.Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}},
	}

	resting := actor.NewCollisionObject(boxCollider, actor.NewRigidBody(actor.Transform{
		Position: mgl64.Vec3{-2, 0.48, 0},
		Rotation: mgl64.QuatIdent(),
	}), 1.0, actor.CollisionLayerTangible)
	scene.AddObject(resting)

	sliding := actor.NewCollisionObject(boxCollider, actor.NewRigidBody(actor.Transform{
		Position: mgl64.Vec3{0, 0.48, 0},
		Rotation: mgl64.QuatRotate(0.3, mgl64.Vec3{0, 1, 0}),
	}), 1.0, actor.CollisionLayerTangible)
	sliding.Body.Velocity = mgl64.Vec3{3, 0, 0}
	scene.AddObject(sliding)

	return scene, resting, sliding, nil
}

func printManifold(m *contact.Manifold) {
	fmt.Printf("  manifold: normal=%v friction=%.2f restitution=%.2f contacts=%d\n",
		m.Normal, m.Friction, m.Restitution, m.Count)
	for i, p := range m.Points() {
		fmt.Printf("    point %d: localA=%v localB=%v penetration=%.4f\n",
			i, p.LocalPointA, p.LocalPointB, p.Penetration)
	}
}

func main() {
	ticks := flag.Int("ticks", 90, "number of ticks to simulate")
	dt := flag.Float64("dt", 1.0/60.0, "tick duration in seconds")
	verbose := flag.Bool("v", false, "print every manifold each tick")
	flag.Parse()

	scene, resting, sliding, err := SetupScene()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	scene.Events.Subscribe(narrowphase.COLLISION_ENTER, func(event narrowphase.Event) {
		e := event.(narrowphase.CollisionEnterEvent)
		fmt.Printf("collision enter: %s / %s\n", e.ObjectA.Collider.Type, e.ObjectB.Collider.Type)
	})
	scene.Events.Subscribe(narrowphase.COLLISION_EXIT, func(event narrowphase.Event) {
		e := event.(narrowphase.CollisionExitEvent)
		fmt.Printf("collision exit: %s / %s\n", e.ObjectA.Collider.Type, e.ObjectB.Collider.Type)
	})
	scene.Events.Subscribe(narrowphase.PORTAL_ENTER, func(event narrowphase.Event) {
		fmt.Printf("portal enter: body at %v\n", event.(narrowphase.PortalEnterEvent).Object.Position())
	})
	scene.Events.Subscribe(narrowphase.PORTAL_EXIT, func(event narrowphase.Event) {
		fmt.Printf("portal exit: body at %v\n", event.(narrowphase.PortalExitEvent).Object.Position())
	})

	for tick := 0; tick < *ticks; tick++ {
		// Kinematic motion only: contact response is the solver's job
		body := sliding.Body
		body.Transform.Position = body.Transform.Position.Add(body.Velocity.Mul(*dt))

		scene.Step()

		if *verbose {
			fmt.Printf("--- tick %d ---\n", tick+1)
			for _, m := range scene.Solver.Manifolds() {
				printManifold(m)
			}
		}
	}

	fmt.Printf("resting box touching portal: %v\n", resting.Body.HasFlag(actor.BodyFlagTouchingPortal))
	fmt.Printf("sliding box touching portal: %v\n", sliding.Body.HasFlag(actor.BodyFlagTouchingPortal))
	fmt.Printf("live manifolds: %d\n", scene.Solver.Len())
}
