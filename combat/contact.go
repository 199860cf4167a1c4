package combat

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/common"
)

// ContactConfig is the body-contact damage policy for one victim.
type ContactConfig struct {
	Damage         int
	Cooldown       float64
	KnockbackForce float64
	// HostileLayers is a layer bitmask. A contact is hostile when its layer
	// intersects the mask or its tag equals HostileTag.
	HostileLayers uint32
	HostileTag    string
}

// DefaultContactConfig is the player's tuning against slimes.
func DefaultContactConfig() ContactConfig {
	return ContactConfig{
		Damage:         1,
		Cooldown:       0.2,
		KnockbackForce: 6,
		HostileTag:     "enemy",
	}
}

// Contact describes one physical touch between the victim and another
// object.
type Contact struct {
	// Attacker is the touching object.
	Attacker ID
	// AttackerBody is the physics body the object belongs to, zero when it
	// has none. Compound attackers share one cooldown through their body.
	AttackerBody ID
	Layer        uint32
	Tag          string
	AttackerPos  cp.Vector
	VictimPos    cp.Vector
}

func (c Contact) identity() ID {
	if c.AttackerBody != 0 {
		return c.AttackerBody
	}
	return c.Attacker
}

// ContactResolver turns contacts against one victim into damage, rate
// limited per attacker and globally.
type ContactResolver struct {
	cfg    ContactConfig
	clock  common.Clock
	victim *Damageable

	nextAnyContact float64
	nextByAttacker map[ID]float64
}

func NewContactResolver(cfg ContactConfig, clock common.Clock, victim *Damageable) *ContactResolver {
	if clock == nil {
		clock = common.NewFrameClock()
	}
	return &ContactResolver{
		cfg:            cfg,
		clock:          clock,
		victim:         victim,
		nextByAttacker: make(map[ID]float64),
	}
}

func (r *ContactResolver) Config() ContactConfig { return r.cfg }

func (r *ContactResolver) Reconfigure(cfg ContactConfig) { r.cfg = cfg }

func (r *ContactResolver) Victim() *Damageable { return r.victim }

// Hostile reports whether c comes from an object the victim takes contact
// damage from.
func (r *ContactResolver) Hostile(c Contact) bool {
	if r.cfg.HostileLayers&c.Layer != 0 {
		return true
	}
	return r.cfg.HostileTag != "" && c.Tag == r.cfg.HostileTag
}

// Resolve applies contact damage for c when every cooldown allows it and
// reports whether damage landed.
func (r *ContactResolver) Resolve(c Contact) bool {
	if r.victim == nil || r.victim.IsInvulnerable() || r.victim.IsDying() {
		return false
	}
	now := r.clock.Now()
	if now < r.nextAnyContact {
		return false
	}
	if !r.Hostile(c) {
		return false
	}
	id := c.identity()
	if next, ok := r.nextByAttacker[id]; ok && now < next {
		return false
	}

	dir := c.VictimPos.Sub(c.AttackerPos)
	applied := r.victim.ApplyDamageFrom(id, r.cfg.Damage, dir, r.cfg.KnockbackForce)
	r.nextAnyContact = now + r.cfg.Cooldown
	r.nextByAttacker[id] = now + r.cfg.Cooldown
	return applied
}

// Ready reports whether the attacker identity is off its own cooldown.
func (r *ContactResolver) Ready(id ID) bool {
	next, ok := r.nextByAttacker[id]
	return !ok || r.clock.Now() >= next
}

// Prune drops per-attacker entries whose cooldown has expired.
func (r *ContactResolver) Prune() {
	now := r.clock.Now()
	for id, next := range r.nextByAttacker {
		if now >= next {
			delete(r.nextByAttacker, id)
		}
	}
}

// Forget removes the cooldown entry for id. Hosts call it when an attacker
// is destroyed.
func (r *ContactResolver) Forget(id ID) {
	delete(r.nextByAttacker, id)
}

// Tracked reports how many attacker cooldowns are live.
func (r *ContactResolver) Tracked() int { return len(r.nextByAttacker) }
