package entity

import (
	"github.com/milk9111/slimearena/combat"
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
)

// Host adapts a world entity to combat.Host. Death markers are components so
// the systems that own colliders, bodies and behaviour react on their next
// pass instead of from inside a damage call.
type Host struct {
	w *ecs.World
	e ecs.Entity
}

var _ combat.Host = (*Host)(nil)

func NewHost(w *ecs.World, e ecs.Entity) *Host {
	return &Host{w: w, e: e}
}

func (h *Host) DisableColliders() {
	if !h.w.IsAlive(h.e) {
		return
	}
	_ = ecs.Add(h.w, h.e, component.CollidersDisabledComponent.Kind(), &component.CollidersDisabled{})
	if cv, ok := ecs.Get(h.w, h.e, component.ContactVictimComponent.Kind()); ok {
		cv.Pending = nil
	}
}

func (h *Host) DisablePhysics() {
	if !h.w.IsAlive(h.e) {
		return
	}
	_ = ecs.Add(h.w, h.e, component.PhysicsDisabledComponent.Kind(), &component.PhysicsDisabled{})
	if loc, ok := ecs.Get(h.w, h.e, component.LocomotionComponent.Kind()); ok {
		loc.Velocity = loc.Velocity.Mult(0)
	}
}

// DisableBehaviours marks the entity inert and drops its wielded weapon.
func (h *Host) DisableBehaviours() {
	if !h.w.IsAlive(h.e) {
		return
	}
	_ = ecs.Add(h.w, h.e, component.InertComponent.Kind(), &component.Inert{})
	if mw, ok := ecs.Get(h.w, h.e, component.MeleeWeaponComponent.Kind()); ok {
		if mw.Swing != nil {
			mw.Swing.Cancel()
		}
		if mw.Visual != 0 {
			ecs.DestroyEntity(h.w, ecs.Entity(mw.Visual))
			mw.Visual = 0
		}
	}
}

func (h *Host) Finalize(destroy bool) {
	if !h.w.IsAlive(h.e) {
		return
	}
	if destroy {
		if mw, ok := ecs.Get(h.w, h.e, component.MeleeWeaponComponent.Kind()); ok && mw.Visual != 0 {
			ecs.DestroyEntity(h.w, ecs.Entity(mw.Visual))
		}
		h.forgetAttacker()
		ecs.DestroyEntity(h.w, h.e)
		return
	}
	_ = ecs.Add(h.w, h.e, component.InertComponent.Kind(), &component.Inert{})
}

// forgetAttacker drops the entity from every victim's contact cooldowns.
func (h *Host) forgetAttacker() {
	id := combat.ID(h.e)
	ecs.ForEach(h.w, component.ContactVictimComponent.Kind(), func(_ ecs.Entity, cv *component.ContactVictim) {
		if cv.Resolver != nil {
			cv.Resolver.Forget(id)
		}
	})
}
