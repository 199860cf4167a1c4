package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
)

// MovementSystem combines locomotion with knockback. A stunned entity moves
// by its external velocity only. Entities with a physics body get the
// velocity set on the body; the rest are integrated directly.
type MovementSystem struct {
	step float64
}

func NewMovementSystem(step float64) *MovementSystem {
	return &MovementSystem{step: step}
}

func (s *MovementSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.LocomotionComponent.Kind(), func(e ecs.Entity, t *component.Transform, loc *component.Locomotion) {
		if ecs.Has(w, e, component.PhysicsDisabledComponent.Kind()) {
			return
		}
		v := Velocity(w, e, loc)
		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
			body.Body.SetVelocityVector(v)
			return
		}
		t.SetPosition(t.Position().Add(v.Mult(s.step)))
	})
}

// Velocity is the entity's movement for this step.
func Velocity(w *ecs.World, e ecs.Entity, loc *component.Locomotion) cp.Vector {
	if isInert(w, e) {
		return cp.Vector{}
	}
	d, ok := ecs.Get(w, e, component.DamageableComponent.Kind())
	if !ok || d.State == nil {
		return loc.Velocity
	}
	if d.State.IsDying() {
		return cp.Vector{}
	}
	if d.State.IsStunned() {
		return d.State.ExternalVelocity()
	}
	return loc.Velocity.Add(d.State.ExternalVelocity())
}
