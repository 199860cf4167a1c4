package entity

import (
	"fmt"

	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
	"github.com/milk9111/slimearena/prefabs"
)

// ApplyPlayerSpec retunes a live player in place. Current health is kept
// and clamped to the new maximum.
func ApplyPlayerSpec(w *ecs.World, e ecs.Entity, spec *prefabs.PlayerSpec) error {
	const file = "player.yaml"
	dmgCfg, err := spec.Damageable.Config(file)
	if err != nil {
		return fmt.Errorf("player: reload damageable: %w", err)
	}
	contactCfg, err := spec.Contact.Config(file)
	if err != nil {
		return fmt.Errorf("player: reload contact: %w", err)
	}
	if !w.IsAlive(e) {
		return fmt.Errorf("player: reload %s: %w", e.Label(), component.ErrEntityNotAlive)
	}

	if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
		p.MaxSpeed = spec.MaxSpeed
		p.Accel = spec.Accel
		p.Decel = spec.Decel
	}
	if d, ok := ecs.Get(w, e, component.DamageableComponent.Kind()); ok {
		d.State.Reconfigure(dmgCfg)
	}
	if cv, ok := ecs.Get(w, e, component.ContactVictimComponent.Kind()); ok && cv.Resolver != nil {
		cv.Resolver.Reconfigure(contactCfg)
	}
	if hb, ok := ecs.Get(w, e, component.HurtboxComponent.Kind()); ok {
		hb.Radius = spec.Hurtbox.Radius
		hb.OffsetX = spec.Hurtbox.OffsetX
		hb.OffsetY = spec.Hurtbox.OffsetY
	}
	if s, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
		applySprite(s, spec.Sprite)
	}
	return nil
}

// ApplySlimeSpec retunes every live slime and reports how many changed.
func ApplySlimeSpec(w *ecs.World, spec *prefabs.SlimeSpec) (int, error) {
	dmgCfg, err := spec.Damageable.Config("slime.yaml")
	if err != nil {
		return 0, fmt.Errorf("slime: reload damageable: %w", err)
	}

	n := 0
	ecs.ForEach2(w, component.AIComponent.Kind(), component.DamageableComponent.Kind(), func(e ecs.Entity, ai *component.AI, d *component.Damageable) {
		ai.MoveSpeed = spec.MoveSpeed
		ai.StopDistance = spec.StopDistance
		ai.Script = spec.Script
		d.State.Reconfigure(dmgCfg)
		if hb, ok := ecs.Get(w, e, component.HurtboxComponent.Kind()); ok {
			hb.Radius = spec.Hurtbox.Radius
		}
		if s, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok {
			applySprite(s, spec.Sprite)
		}
		n++
	})
	return n, nil
}

// ApplySwordSpec retunes every wielded weapon. A swing in progress keeps
// its elapsed time.
func ApplySwordSpec(w *ecs.World, spec *prefabs.SwordSpec) (int, error) {
	cfg, err := spec.Config(swordFile(spec))
	if err != nil {
		return 0, fmt.Errorf("sword: reload: %w", err)
	}

	n := 0
	ecs.ForEach(w, component.MeleeWeaponComponent.Kind(), func(_ ecs.Entity, mw *component.MeleeWeapon) {
		if mw.Swing == nil {
			return
		}
		mw.Swing.Reconfigure(cfg)
		if s, ok := ecs.Get(w, ecs.Entity(mw.Visual), component.SpriteComponent.Kind()); ok {
			applySprite(s, spec.Sprite)
		}
		n++
	})
	return n, nil
}

func applySprite(s *component.Sprite, spec prefabs.SpriteSpec) {
	s.Name = spec.Image
	s.Color = spec.NRGBA()
	s.Width = spec.Width
	s.Height = spec.Height
	s.OriginX = spec.OriginX
	s.OriginY = spec.OriginY
}
