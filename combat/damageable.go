package combat

import (
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/common"
)

// State is the coarse lifecycle of a Damageable. Invulnerable and stunned
// are timed sub-states of StateAlive, queried separately.
type State int

const (
	StateAlive State = iota
	StateDying
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateAlive:
		return "alive"
	case StateDying:
		return "dying"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Host lets a Damageable freeze and remove the entity that owns it. Every
// call happens synchronously from ApplyDamage or Update.
type Host interface {
	DisableColliders()
	DisablePhysics()
	DisableBehaviours()
	// Finalize runs when the death sequence completes. destroy reports
	// whether the entity should be removed or only left inert.
	Finalize(destroy bool)
}

// Visual is the cosmetic state renderers apply on top of the base sprite.
type Visual struct {
	Scale        float64
	Alpha        float64
	Flash        bool
	FlashColor   color.Color
	FallProgress float64
	Offset       cp.Vector
	Corpse       bool
}

// Damageable owns health, invulnerability, knockback, stun and the death
// lifecycle of one entity. ApplyDamage is its only gameplay mutator.
type Damageable struct {
	cfg   DamageableConfig
	clock common.Clock
	host  Host

	current           int
	invulnerableUntil float64
	stunnedUntil      float64
	externalVelocity  cp.Vector

	state  State
	dying  bool
	flash  flash
	visual Visual

	spawnActive  bool
	spawnElapsed float64

	deathActive     bool
	deathElapsed    float64
	deathStartAlpha float64

	events Emitter
}

// NewDamageable creates a Damageable at full health. A non-positive
// MaxHealth is clamped to 1.
func NewDamageable(cfg DamageableConfig, clock common.Clock) *Damageable {
	if clock == nil {
		clock = common.NewFrameClock()
	}
	cfg = cfg.normalized()
	return &Damageable{
		cfg:     cfg,
		clock:   clock,
		current: cfg.MaxHealth,
		visual:  Visual{Scale: 1, Alpha: 1},
	}
}

// SetHost attaches the entity adapter used during death. A nil host keeps
// the state machine working without freezing anything.
func (d *Damageable) SetHost(h Host) {
	if d == nil {
		return
	}
	d.host = h
}

func (d *Damageable) Config() DamageableConfig {
	if d == nil {
		return DamageableConfig{}
	}
	return d.cfg
}

// Reconfigure swaps tuning without resetting runtime state. Current health
// is clamped to the new maximum.
func (d *Damageable) Reconfigure(cfg DamageableConfig) {
	if d == nil {
		return
	}
	d.cfg = cfg.normalized()
	if d.current > d.cfg.MaxHealth {
		d.current = d.cfg.MaxHealth
	}
}

// Subscribe registers a handler for hit, death and destroyed events.
func (d *Damageable) Subscribe(h CombatEventHandler) (unsubscribe func()) {
	if d == nil {
		return func() {}
	}
	return d.events.Subscribe(h)
}

func (d *Damageable) CurrentHealth() int {
	if d == nil {
		return 0
	}
	return d.current
}

func (d *Damageable) MaxHealth() int {
	if d == nil {
		return 0
	}
	return d.cfg.MaxHealth
}

func (d *Damageable) IsInvulnerable() bool {
	return d != nil && d.clock.Now() < d.invulnerableUntil
}

func (d *Damageable) IsStunned() bool {
	return d != nil && d.clock.Now() < d.stunnedUntil
}

func (d *Damageable) IsDying() bool {
	return d != nil && d.dying
}

func (d *Damageable) State() State {
	if d == nil {
		return StateDestroyed
	}
	return d.state
}

// ExternalVelocity is the knockback speed the owner must add to its own
// movement every physics step.
func (d *Damageable) ExternalVelocity() cp.Vector {
	if d == nil {
		return cp.Vector{}
	}
	return d.externalVelocity
}

func (d *Damageable) Visual() Visual {
	if d == nil {
		return Visual{}
	}
	v := d.visual
	v.Flash = d.flash.on()
	if v.Flash {
		v.FlashColor = d.cfg.Flash.Color
	}
	return v
}

// ApplyDamage applies an anonymous hit. See ApplyDamageFrom.
func (d *Damageable) ApplyDamage(amount int, hitDir cp.Vector, knockbackForce float64) bool {
	return d.ApplyDamageFrom(0, amount, hitDir, knockbackForce)
}

// ApplyDamageFrom applies amount of damage from source. hitDir points from
// the attacker toward this entity. It returns false, changing nothing, when
// the entity is dying, invulnerable, or amount is not positive.
func (d *Damageable) ApplyDamageFrom(source ID, amount int, hitDir cp.Vector, knockbackForce float64) bool {
	if d == nil || d.dying || d.IsInvulnerable() || amount <= 0 {
		return false
	}

	now := d.clock.Now()
	d.current -= amount
	if d.current < 0 {
		d.current = 0
	}
	d.invulnerableUntil = now + d.cfg.InvulnTime

	if knockbackForce > 0 {
		speed := knockbackForce * d.cfg.KnockbackToSpeed * knockbackSpeedScale
		d.externalVelocity = common.SafeNormalize(hitDir).Mult(speed)
		d.stunnedUntil = now + d.cfg.StunTime
	}

	d.restartFlash()

	d.events.Emit(CombatEvent{
		Type:      EventHit,
		Source:    source,
		Amount:    amount,
		Health:    d.current,
		MaxHealth: d.cfg.MaxHealth,
		Direction: hitDir,
		Time:      now,
	})

	if d.current == 0 {
		d.startDeath(source)
	}
	return true
}

func (d *Damageable) restartFlash() {
	fc := d.cfg.Flash
	half := fc.Interval
	if half <= 0 {
		if d.cfg.InvulnTime <= 0 || fc.Count <= 0 {
			d.flash.stop()
			return
		}
		half = d.cfg.InvulnTime / float64(fc.Count*2)
	}
	d.flash.start(fc.Count, half)
}

func (d *Damageable) startDeath(source ID) {
	if d.dying {
		return
	}
	d.dying = true
	d.state = StateDying
	d.spawnActive = false

	death := d.cfg.Death
	if d.host != nil {
		if death.DisableColliders {
			d.host.DisableColliders()
		}
		if death.DisablePhysics {
			d.host.DisablePhysics()
		}
		if death.DisableBehaviours {
			d.host.DisableBehaviours()
		}
	}

	d.events.Emit(CombatEvent{
		Type:      EventDeath,
		Source:    source,
		Health:    d.current,
		MaxHealth: d.cfg.MaxHealth,
		Time:      d.clock.Now(),
	})

	if death.Animate && death.Duration > 0 {
		d.deathActive = true
		d.deathElapsed = 0
		d.deathStartAlpha = d.visual.Alpha
		return
	}
	d.finalize()
}

func (d *Damageable) finalize() {
	if d.state == StateDestroyed {
		return
	}
	d.deathActive = false
	d.flash.stop()
	d.state = StateDestroyed
	if d.host != nil {
		d.host.Finalize(d.cfg.Death.DestroyOnFinish)
	}
	d.events.Emit(CombatEvent{
		Type:      EventDestroyed,
		Health:    d.current,
		MaxHealth: d.cfg.MaxHealth,
		Time:      d.clock.Now(),
	})
}

// StartSpawn plays the appear animation when it is configured.
func (d *Damageable) StartSpawn() {
	if d == nil || d.dying {
		return
	}
	sc := d.cfg.Spawn
	if !sc.Animate || sc.Duration <= 0 {
		return
	}
	d.spawnActive = true
	d.spawnElapsed = 0
	d.visual.Scale = 0
	if sc.FadeIn {
		d.visual.Alpha = 0
	}
}

// Spawning reports whether the appear animation is still running.
func (d *Damageable) Spawning() bool {
	return d != nil && d.spawnActive
}

// Update advances the frame-rate driven timers: flash, spawn and death.
func (d *Damageable) Update(dt float64) {
	if d == nil || dt < 0 {
		return
	}
	d.flash.advance(dt)
	if d.spawnActive {
		d.advanceSpawn(dt)
	}
	if d.deathActive {
		d.advanceDeath(dt)
	}
}

func (d *Damageable) advanceSpawn(dt float64) {
	sc := d.cfg.Spawn
	d.spawnElapsed += dt
	k := common.Clamp01(d.spawnElapsed / sc.Duration)
	eased := sc.Ease.Eval(k)
	d.visual.Scale = common.Lerp(0, 1, eased)
	if sc.FadeIn {
		d.visual.Alpha = common.LerpClamped(0, 1, eased)
	}
	if d.spawnElapsed >= sc.Duration {
		d.spawnActive = false
		d.visual.Scale = 1
		d.visual.Alpha = 1
	}
}

func (d *Damageable) advanceDeath(dt float64) {
	death := d.cfg.Death
	d.deathElapsed += dt
	k := common.Clamp01(d.deathElapsed / death.Duration)
	eased := death.Ease.Eval(k)

	switch death.Style {
	case DeathFall:
		d.visual.FallProgress = eased
		d.visual.Offset = death.FallOffset.Mult(eased)
	default:
		d.visual.Scale = common.Lerp(1, 0, eased)
	}
	if death.FadeOut {
		d.visual.Alpha = common.LerpClamped(d.deathStartAlpha, 0, eased)
	}

	if d.deathElapsed >= death.Duration {
		if death.Style == DeathFall && death.CorpseSprite != "" {
			d.visual.Corpse = true
		}
		d.finalize()
	}
}

// PhysicsTick decays knockback velocity. Call once per fixed physics step.
func (d *Damageable) PhysicsTick(dt float64) {
	if d == nil {
		return
	}
	d.externalVelocity = common.DecayToZero(d.externalVelocity, d.cfg.KnockbackDamp, dt)
}
