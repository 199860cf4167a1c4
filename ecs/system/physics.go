package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/combat"
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeVictim
	collisionTypeHostile
)

const (
	boundsThickness = 0.1
	boundsFriction  = 0
	spaceIterations = 10
)

// PhysicsSystem owns the Chipmunk space. Every step it mirrors the world's
// bodies into the space, runs the solver, collects victim/hostile contacts
// into ContactVictim.Pending and copies positions back.
type PhysicsSystem struct {
	space         *cp.Space
	step          float64
	handlersReady bool

	// world is the world being stepped; collision callbacks read it.
	world *ecs.World

	entities map[ecs.Entity]*bodyInfo
	shapes   map[*cp.Shape]ecs.Entity

	bounds       cp.BB
	boundsShapes []*cp.Shape
}

type bodyInfo struct {
	body  *cp.Body
	shape *cp.Shape
}

func NewPhysicsSystem(step float64) *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = spaceIterations
	space.SetGravity(cp.Vector{})
	return &PhysicsSystem{
		space:    space,
		step:     step,
		entities: make(map[ecs.Entity]*bodyInfo),
		shapes:   make(map[*cp.Shape]ecs.Entity),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// BodyCount is the number of entity bodies currently in the space.
func (ps *PhysicsSystem) BodyCount() int {
	if ps == nil {
		return 0
	}
	return len(ps.entities)
}

// SetBounds walls in the rectangle [0,width] x [0,height].
func (ps *PhysicsSystem) SetBounds(width, height float64) {
	if ps == nil || width <= 0 || height <= 0 {
		return
	}
	for _, shape := range ps.boundsShapes {
		ps.space.RemoveShape(shape)
	}
	ps.boundsShapes = ps.boundsShapes[:0]
	ps.bounds = cp.BB{L: 0, B: 0, R: width, T: height}

	corners := []cp.Vector{{X: 0, Y: 0}, {X: width, Y: 0}, {X: width, Y: height}, {X: 0, Y: height}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		shape := cp.NewSegment(ps.space.StaticBody, a, b, boundsThickness)
		shape.SetFriction(boundsFriction)
		shape.SetCollisionType(collisionTypeSolid)
		ps.space.AddShape(shape)
		ps.boundsShapes = append(ps.boundsShapes, shape)
	}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.world = w
	defer func() { ps.world = nil }()

	ps.ensureHandlers()
	ps.cleanupEntities(w)
	ps.syncEntities(w)

	ps.space.Step(ps.step)

	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady {
		return
	}

	contactHandler := ps.space.NewCollisionHandler(collisionTypeVictim, collisionTypeHostile)
	contactHandler.UserData = ps
	contactHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil || sys.world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		victim, okA := sys.shapes[shapeA]
		attacker, okB := sys.shapes[shapeB]
		if !okA || !okB {
			return true
		}
		sys.recordContact(victim, attacker, shapeA.Body(), shapeB.Body())
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) recordContact(victim, attacker ecs.Entity, victimBody, attackerBody *cp.Body) {
	w := ps.world
	if collidersOff(w, victim) || collidersOff(w, attacker) {
		return
	}
	cv, ok := ecs.Get(w, victim, component.ContactVictimComponent.Kind())
	if !ok {
		return
	}
	hostile, ok := ecs.Get(w, attacker, component.HostileComponent.Kind())
	if !ok {
		return
	}
	cv.Pending = append(cv.Pending, combat.Contact{
		Attacker:    combat.ID(attacker),
		Layer:       hostile.Layer,
		Tag:         hostile.Tag,
		AttackerPos: attackerBody.Position(),
		VictimPos:   victimBody.Position(),
	})
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	entities := w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind())
	for _, e := range entities {
		if ecs.Has(w, e, component.PhysicsDisabledComponent.Kind()) {
			continue
		}
		bodyComp, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if info := ps.entities[e]; info != nil {
			bodyComp.Body = info.body
			bodyComp.Shape = info.shape
			info.shape.SetSensor(bodyComp.Sensor || collidersOff(w, e))
			continue
		}

		transform, _ := ecs.Get(w, e, component.TransformComponent.Kind())
		info := ps.createBodyInfo(w, e, transform, bodyComp)
		ps.entities[e] = info
		ps.shapes[info.shape] = e
		bodyComp.Body = info.body
		bodyComp.Shape = info.shape
	}
}

func (ps *PhysicsSystem) createBodyInfo(w *ecs.World, e ecs.Entity, transform *component.Transform, bodyComp *component.PhysicsBody) *bodyInfo {
	radius := bodyComp.Radius
	if radius <= 0 {
		radius = 0.25
	}

	var body *cp.Body
	if bodyComp.Static {
		body = cp.NewStaticBody()
	} else {
		mass := bodyComp.Mass
		if mass <= 0 {
			mass = 1
		}
		body = cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	}
	body.SetPosition(transform.Position())

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetSensor(bodyComp.Sensor)

	switch {
	case ecs.Has(w, e, component.ContactVictimComponent.Kind()):
		shape.SetCollisionType(collisionTypeVictim)
	case ecs.Has(w, e, component.HostileComponent.Kind()):
		shape.SetCollisionType(collisionTypeHostile)
	default:
		shape.SetCollisionType(collisionTypeSolid)
	}

	if layer, ok := ecs.Get(w, e, component.CollisionLayerComponent.Kind()); ok {
		category, mask := uint(layer.Category), uint(layer.Mask)
		if category == 0 {
			category = 1
		}
		if mask == 0 {
			mask = cp.ALL_CATEGORIES
		}
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, category, mask))
	}

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	return &bodyInfo{body: body, shape: shape}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, info := range ps.entities {
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		transform.SetPosition(info.body.Position())
	}
}

// cleanupEntities removes bodies whose entity died, lost its body or had
// physics disabled.
func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		bodyComp, hasBody := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if hasBody && !ecs.Has(w, e, component.PhysicsDisabledComponent.Kind()) {
			continue
		}

		ps.space.RemoveShape(info.shape)
		ps.space.RemoveBody(info.body)
		delete(ps.shapes, info.shape)
		delete(ps.entities, e)

		if hasBody {
			bodyComp.Body = nil
			bodyComp.Shape = nil
		}
	}
}
