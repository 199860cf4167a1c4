package system

import (
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
	"github.com/milk9111/slimearena/logger"
	"github.com/sirupsen/logrus"
)

// ContactDamageSystem resolves the contacts the physics step collected for
// each victim, then drops expired cooldown entries.
type ContactDamageSystem struct {
	log *logrus.Entry
}

func NewContactDamageSystem() *ContactDamageSystem {
	return &ContactDamageSystem{log: logger.With("contact")}
}

func (s *ContactDamageSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.ContactVictimComponent.Kind(), func(e ecs.Entity, cv *component.ContactVictim) {
		pending := cv.Pending
		cv.Pending = nil
		if cv.Resolver == nil {
			return
		}
		for _, c := range pending {
			if collidersOff(w, e) {
				break
			}
			if cv.Resolver.Resolve(c) {
				s.log.WithFields(logrus.Fields{
					"victim":   e.Label(),
					"attacker": ecs.Entity(c.Attacker).Label(),
					"health":   cv.Resolver.Victim().CurrentHealth(),
				}).Debug("contact damage")
			}
		}
		cv.Resolver.Prune()
	})
}

// KnockbackDecaySystem decays every Damageable's external velocity once per
// fixed step.
type KnockbackDecaySystem struct {
	step float64
}

func NewKnockbackDecaySystem(step float64) *KnockbackDecaySystem {
	return &KnockbackDecaySystem{step: step}
}

func (s *KnockbackDecaySystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach(w, component.DamageableComponent.Kind(), func(_ ecs.Entity, d *component.Damageable) {
		d.State.PhysicsTick(s.step)
	})
}
