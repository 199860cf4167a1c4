package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/combat"
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
	"github.com/milk9111/slimearena/logger"
	"github.com/sirupsen/logrus"
)

// Sort orders for the weapon sprite relative to its wielder.
const (
	weaponOrderBehind = -1
	weaponOrderFront  = 1
)

// MeleeSwingSystem advances every wielded weapon, keeps its visual entity
// on the orbit and lands hits on overlapping hurtboxes while the hit window
// is open.
type MeleeSwingSystem struct {
	clock DeltaSource
	log   *logrus.Entry
}

func NewMeleeSwingSystem(clock DeltaSource) *MeleeSwingSystem {
	return &MeleeSwingSystem{clock: clock, log: logger.With("melee")}
}

func (s *MeleeSwingSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := frameDelta(s.clock)
	ecs.ForEach2(w, component.MeleeWeaponComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, mw *component.MeleeWeapon, t *component.Transform) {
		if mw.Swing == nil || isInert(w, e) {
			return
		}
		wielder := t.Position()
		mw.Swing.Update(dt, wielder, aimPoint(w, e, wielder))
		syncWeaponVisual(w, mw)
		if mw.Swing.HitboxActive() {
			s.strike(w, e, mw.Swing, wielder)
		}
	})
}

// aimPoint is the wielder's input aim, or straight right without input.
func aimPoint(w *ecs.World, e ecs.Entity, wielder cp.Vector) cp.Vector {
	if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
		return cp.Vector{X: in.AimX, Y: in.AimY}
	}
	return wielder.Add(cp.Vector{X: 1})
}

func syncWeaponVisual(w *ecs.World, mw *component.MeleeWeapon) {
	if mw.Visual == 0 {
		return
	}
	visual := ecs.Entity(mw.Visual)
	if t, ok := ecs.Get(w, visual, component.TransformComponent.Kind()); ok {
		t.SetPosition(mw.Swing.Position())
		t.Rotation = mw.Swing.Orientation()
	}
	if sprite, ok := ecs.Get(w, visual, component.SpriteComponent.Kind()); ok {
		sprite.FlipY = mw.Swing.FlipY()
		sprite.Order = weaponOrderFront
		if mw.Swing.SortBehind() {
			sprite.Order = weaponOrderBehind
		}
	}
}

func (s *MeleeSwingSystem) strike(w *ecs.World, wielderEnt ecs.Entity, swing *combat.Swing, wielder cp.Vector) {
	cfg := swing.Config()
	blade := swing.Position()

	targets := w.Query(
		component.HurtboxComponent.Kind(),
		component.TransformComponent.Kind(),
		component.DamageableComponent.Kind(),
	)
	for _, target := range targets {
		if target == wielderEnt || collidersOff(w, target) {
			continue
		}
		hb, _ := ecs.Get(w, target, component.HurtboxComponent.Kind())
		if cfg.TargetLayers != 0 && hb.Layer&cfg.TargetLayers == 0 {
			continue
		}
		t, _ := ecs.Get(w, target, component.TransformComponent.Kind())
		center := t.Position().Add(cp.Vector{X: hb.OffsetX, Y: hb.OffsetY})
		reach := cfg.HitRadius + hb.Radius
		if blade.DistanceSq(center) > reach*reach {
			continue
		}
		d, _ := ecs.Get(w, target, component.DamageableComponent.Kind())
		if swing.TryHit(combat.ID(target), d.State, wielder, center) {
			s.log.WithFields(logrus.Fields{
				"wielder": wielderEnt.Label(),
				"target":  target.Label(),
				"health":  d.State.CurrentHealth(),
			}).Debug("melee hit")
		}
	}
}
