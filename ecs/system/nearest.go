package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
)

// NearestDamageable finds the closest living Damageable within maxDist of
// from. A zero layers mask accepts any hurtbox layer; a non-positive maxDist
// means unlimited. exclude is skipped.
func NearestDamageable(w *ecs.World, from cp.Vector, layers uint32, maxDist float64, exclude ecs.Entity) (ecs.Entity, bool) {
	best := ecs.Entity(0)
	bestDistSq := math.Inf(1)
	if maxDist > 0 {
		bestDistSq = maxDist * maxDist
	}

	ecs.ForEach2(w, component.DamageableComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, d *component.Damageable, t *component.Transform) {
		if e == exclude || d.State == nil || d.State.IsDying() {
			return
		}
		if layers != 0 {
			hb, ok := ecs.Get(w, e, component.HurtboxComponent.Kind())
			if !ok || hb.Layer&layers == 0 {
				return
			}
		}
		if distSq := from.DistanceSq(t.Position()); distSq <= bestDistSq {
			best, bestDistSq = e, distSq
		}
	})
	return best, best != 0
}
