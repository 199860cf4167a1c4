package combat

import (
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/common"
)

// knockbackSpeedScale converts knockbackForce*knockbackToSpeed into a start
// speed. Tuned by feel; roughly one sixth.
const knockbackSpeedScale = 0.1667

// DeathStyle selects the death animation.
type DeathStyle string

const (
	// DeathShrink scales the entity to zero and optionally fades it out.
	DeathShrink DeathStyle = "shrink"
	// DeathFall tips the sprite over and slides it toward FallOffset.
	DeathFall DeathStyle = "fall"
)

type FlashConfig struct {
	// Count is how many on/off blinks play per hit.
	Count int
	// Interval is the length of one half-blink in seconds. Zero spreads
	// Count blinks evenly across the invulnerability window.
	Interval float64
	Color    color.Color
}

type DeathConfig struct {
	Animate           bool
	Style             DeathStyle
	Duration          float64
	Ease              common.Curve
	FadeOut           bool
	DisableColliders  bool
	DisablePhysics    bool
	DisableBehaviours bool
	DestroyOnFinish   bool
	FallOffset        cp.Vector
	CorpseSprite      string
}

type SpawnConfig struct {
	Animate  bool
	Duration float64
	Ease     common.Curve
	FadeIn   bool
}

// DamageableConfig is the tuning for one combat-capable entity.
type DamageableConfig struct {
	MaxHealth        int
	InvulnTime       float64
	Flash            FlashConfig
	KnockbackToSpeed float64
	KnockbackDamp    float64
	StunTime         float64
	Death            DeathConfig
	Spawn            SpawnConfig
}

// DefaultDamageableConfig mirrors the slime tuning.
func DefaultDamageableConfig() DamageableConfig {
	return DamageableConfig{
		MaxHealth:  3,
		InvulnTime: 0.25,
		Flash: FlashConfig{
			Count: 4,
			Color: color.NRGBA{R: 255, G: 51, B: 51, A: 255},
		},
		KnockbackToSpeed: 6,
		KnockbackDamp:    10,
		StunTime:         0.12,
		Death: DeathConfig{
			Animate:           true,
			Style:             DeathShrink,
			Duration:          0.25,
			Ease:              common.EaseInOut,
			FadeOut:           true,
			DisableColliders:  true,
			DisablePhysics:    true,
			DisableBehaviours: true,
			DestroyOnFinish:   true,
		},
		Spawn: SpawnConfig{
			Animate:  true,
			Duration: 0.25,
			Ease:     common.EaseInOut,
			FadeIn:   true,
		},
	}
}

func (c DamageableConfig) normalized() DamageableConfig {
	if c.MaxHealth < 1 {
		c.MaxHealth = 1
	}
	if c.InvulnTime < 0 {
		c.InvulnTime = 0
	}
	if c.StunTime < 0 {
		c.StunTime = 0
	}
	if c.KnockbackDamp < 0 {
		c.KnockbackDamp = 0
	}
	if c.Death.Style == "" {
		c.Death.Style = DeathShrink
	}
	if c.Death.Ease == nil {
		c.Death.Ease = common.EaseInOut
	}
	if c.Spawn.Ease == nil {
		c.Spawn.Ease = common.EaseInOut
	}
	return c
}
