package system

import (
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
)

// DeltaSource reports the length of the current variable frame.
// *common.FrameClock satisfies it.
type DeltaSource interface {
	Delta() float64
}

func frameDelta(src DeltaSource) float64 {
	if src == nil {
		return 0
	}
	return max(0, src.Delta())
}

func isInert(w *ecs.World, e ecs.Entity) bool {
	return ecs.Has(w, e, component.InertComponent.Kind())
}

func collidersOff(w *ecs.World, e ecs.Entity) bool {
	return ecs.Has(w, e, component.CollidersDisabledComponent.Kind())
}
