package system

import (
	"math"

	"github.com/milk9111/slimearena/combat"
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
)

// fallAngle is the sprite rotation, in degrees, of a body that fell over.
const fallAngle = 90.0

// DamageableSystem advances flash, spawn and death animations and writes the
// resulting cosmetic state into sprites and transforms.
type DamageableSystem struct {
	clock DeltaSource
}

func NewDamageableSystem(clock DeltaSource) *DamageableSystem {
	return &DamageableSystem{clock: clock}
}

func (s *DamageableSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := frameDelta(s.clock)
	ecs.ForEach(w, component.DamageableComponent.Kind(), func(e ecs.Entity, d *component.Damageable) {
		if d.State == nil {
			return
		}
		d.State.Update(dt)
		// A finished death may have destroyed the entity.
		if !w.IsAlive(e) {
			return
		}
		applyVisual(w, e, d.State)
	})
}

func applyVisual(w *ecs.World, e ecs.Entity, d *combat.Damageable) {
	v := d.Visual()

	facingLeft := false
	if f, ok := ecs.Get(w, e, component.FacingComponent.Kind()); ok {
		facingLeft = f.Left
	}

	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		t.ScaleX = v.Scale
		t.ScaleY = v.Scale
		switch {
		case v.Corpse:
			t.Rotation = 0
		case v.FallProgress > 0:
			angle := fallAngle
			if facingLeft {
				angle = -fallAngle
			}
			t.Rotation = angle * v.FallProgress
		}
	}

	sprite, ok := ecs.Get(w, e, component.SpriteComponent.Kind())
	if !ok {
		return
	}
	sprite.Alpha = v.Alpha
	sprite.Tint = nil
	if v.Flash {
		sprite.Tint = v.FlashColor
	}

	side := 1.0
	if facingLeft {
		side = -1
	}
	sprite.OffsetX = math.Abs(v.Offset.X) * side
	sprite.OffsetY = v.Offset.Y

	if v.Corpse {
		if name := d.Config().Death.CorpseSprite; name != "" {
			sprite.Name = name
		}
		sprite.FacingLeft = facingLeft
	}
}
