package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/common"
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
)

const (
	moveDeadZone = 0.1
	// targetEpsilonSq picks accel over decel once there is any intent.
	targetEpsilonSq = 0.0001
)

// PlayerControlSystem turns Input into a locomotion velocity with separate
// acceleration and deceleration, updates facing and starts swings.
type PlayerControlSystem struct {
	clock DeltaSource
}

func NewPlayerControlSystem(clock DeltaSource) *PlayerControlSystem {
	return &PlayerControlSystem{clock: clock}
}

func (s *PlayerControlSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := frameDelta(s.clock)

	players := w.Query(
		component.PlayerTagComponent.Kind(),
		component.PlayerComponent.Kind(),
		component.InputComponent.Kind(),
		component.LocomotionComponent.Kind(),
	)
	for _, e := range players {
		loc, _ := ecs.Get(w, e, component.LocomotionComponent.Kind())
		if isInert(w, e) || dying(w, e) {
			loc.Velocity = cp.Vector{}
			continue
		}
		p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
		in, _ := ecs.Get(w, e, component.InputComponent.Kind())

		dir := cp.Vector{X: in.MoveX, Y: in.MoveY}
		if dir.LengthSq() > 1 {
			dir = dir.Normalize()
		}
		target := dir.Mult(p.MaxSpeed)
		rate := p.Decel
		if target.LengthSq() > targetEpsilonSq {
			rate = p.Accel
		}
		loc.Velocity = common.MoveToward(loc.Velocity, target, rate*dt)

		if f, ok := ecs.Get(w, e, component.FacingComponent.Kind()); ok {
			if dir.LengthSq() > moveDeadZone*moveDeadZone && math.Abs(dir.X) > math.Abs(dir.Y) {
				f.Left = dir.X < 0
			}
			if sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
				sprite.FacingLeft = f.Left
			}
		}

		if in.AttackPressed {
			if mw, ok := ecs.Get(w, e, component.MeleeWeaponComponent.Kind()); ok && mw.Swing != nil {
				t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
				if ok {
					mw.Swing.TryStart(t.Position(), cp.Vector{X: in.AimX, Y: in.AimY})
				}
			}
		}
	}
}

func dying(w *ecs.World, e ecs.Entity) bool {
	d, ok := ecs.Get(w, e, component.DamageableComponent.Kind())
	return ok && d.State != nil && d.State.IsDying()
}
