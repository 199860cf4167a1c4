package combat

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHost struct {
	calls []string
}

func (h *recordingHost) DisableColliders()  { h.calls = append(h.calls, "colliders") }
func (h *recordingHost) DisablePhysics()    { h.calls = append(h.calls, "physics") }
func (h *recordingHost) DisableBehaviours() { h.calls = append(h.calls, "behaviours") }
func (h *recordingHost) Finalize(destroy bool) {
	if destroy {
		h.calls = append(h.calls, "destroy")
	} else {
		h.calls = append(h.calls, "inert")
	}
}

func newTestDamageable(maxHP int, invuln float64) (*Damageable, *common.FrameClock) {
	clock := common.NewFrameClock()
	cfg := DefaultDamageableConfig()
	cfg.MaxHealth = maxHP
	cfg.InvulnTime = invuln
	return NewDamageable(cfg, clock), clock
}

func TestInvulnerabilityScenario(t *testing.T) {
	d, clock := newTestDamageable(3, 0.25)

	require.True(t, d.ApplyDamage(1, cp.Vector{X: 1}, 0))
	assert.Equal(t, 2, d.CurrentHealth())
	assert.True(t, d.IsInvulnerable())

	clock.Set(0.1)
	assert.False(t, d.ApplyDamage(1, cp.Vector{X: 1}, 0))
	assert.Equal(t, 2, d.CurrentHealth())

	clock.Set(0.25)
	assert.False(t, d.IsInvulnerable())

	clock.Set(0.3)
	require.True(t, d.ApplyDamage(1, cp.Vector{X: 1}, 0))
	assert.Equal(t, 1, d.CurrentHealth())
}

func TestHealthNeverNegativeNorIncreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	d, clock := newTestDamageable(5, 0.05)

	prev := d.CurrentHealth()
	for i := 0; i < 500; i++ {
		clock.Advance(rng.Float64() * 0.1)
		amount := rng.Intn(5) - 1
		d.ApplyDamage(amount, cp.Vector{X: rng.Float64() - 0.5, Y: rng.Float64() - 0.5}, rng.Float64()*8)
		d.Update(clock.Delta())
		d.PhysicsTick(1.0 / 60.0)

		hp := d.CurrentHealth()
		require.GreaterOrEqual(t, hp, 0)
		require.LessOrEqual(t, hp, prev, "health increased at step %d", i)
		prev = hp
	}
}

func TestRejectsNonPositiveAmounts(t *testing.T) {
	for _, amount := range []int{0, -1, -100} {
		d, _ := newTestDamageable(3, 0.25)
		assert.False(t, d.ApplyDamage(amount, cp.Vector{X: 1}, 6))
		assert.Equal(t, 3, d.CurrentHealth())
		assert.False(t, d.IsInvulnerable())
		assert.Equal(t, cp.Vector{}, d.ExternalVelocity())
	}
}

func TestMaxHealthClampedToOne(t *testing.T) {
	cfg := DefaultDamageableConfig()
	cfg.MaxHealth = -4
	d := NewDamageable(cfg, nil)
	assert.Equal(t, 1, d.MaxHealth())
	assert.Equal(t, 1, d.CurrentHealth())
}

func TestKnockbackAndStun(t *testing.T) {
	d, clock := newTestDamageable(3, 0.25)

	require.True(t, d.ApplyDamage(1, cp.Vector{X: 3, Y: 4}, 6))
	v := d.ExternalVelocity()
	want := 6 * 6 * knockbackSpeedScale
	assert.InDelta(t, want, v.Length(), 1e-9)
	assert.InDelta(t, 0.6, v.X/v.Length(), 1e-9)
	assert.True(t, d.IsStunned())

	clock.Set(0.13)
	assert.False(t, d.IsStunned())
}

func TestNoKnockbackWithoutForce(t *testing.T) {
	d, _ := newTestDamageable(3, 0.25)
	require.True(t, d.ApplyDamage(1, cp.Vector{X: 1}, 0))
	assert.Equal(t, cp.Vector{}, d.ExternalVelocity())
	assert.False(t, d.IsStunned())
}

func TestKnockbackDecayTerminates(t *testing.T) {
	d, _ := newTestDamageable(3, 0.25)
	require.True(t, d.ApplyDamage(1, cp.Vector{X: -1}, 6))

	dt := 1.0 / 60.0
	v0 := d.ExternalVelocity().Length()
	bound := int(math.Ceil(v0/(d.Config().KnockbackDamp*dt))) + 1

	prev := v0
	ticks := 0
	for d.ExternalVelocity().LengthSq() > 0 {
		d.PhysicsTick(dt)
		ticks++
		cur := d.ExternalVelocity().Length()
		require.Less(t, cur, prev)
		prev = cur
		require.LessOrEqual(t, ticks, bound)
	}
	assert.Equal(t, cp.Vector{}, d.ExternalVelocity())
}

func TestDeathOrderingAndIdempotence(t *testing.T) {
	d, clock := newTestDamageable(1, 0)
	host := &recordingHost{}
	d.SetHost(host)

	var order []string
	d.Subscribe(func(evt CombatEvent) {
		order = append(order, string(evt.Type))
		if evt.Type == EventDeath {
			assert.Equal(t, 1.0, d.Visual().Scale, "death fired after the animation started")
			assert.True(t, d.IsDying())
		}
	})

	require.True(t, d.ApplyDamage(1, cp.Vector{X: 1}, 6))
	assert.Equal(t, []string{"hit", "death"}, order)
	assert.Equal(t, []string{"colliders", "physics", "behaviours"}, host.calls)
	assert.Equal(t, StateDying, d.State())

	vel := d.ExternalVelocity()
	clock.Set(5)
	assert.False(t, d.ApplyDamage(1, cp.Vector{Y: 1}, 20))
	assert.Equal(t, 0, d.CurrentHealth())
	assert.Equal(t, vel, d.ExternalVelocity())
	assert.False(t, d.IsStunned())

	for i := 0; i < 30; i++ {
		d.Update(1.0 / 60.0)
	}
	assert.Equal(t, StateDestroyed, d.State())
	assert.Equal(t, []string{"hit", "death", "destroyed"}, order)
	assert.Equal(t, "destroy", host.calls[len(host.calls)-1])
	assert.InDelta(t, 0, d.Visual().Scale, 1e-9)
	assert.InDelta(t, 0, d.Visual().Alpha, 1e-9)
	assert.False(t, d.Visual().Flash)
}

func TestDeathWithoutAnimationFinalizesImmediately(t *testing.T) {
	cfg := DefaultDamageableConfig()
	cfg.MaxHealth = 1
	cfg.Death.Animate = false
	cfg.Death.DestroyOnFinish = false
	d := NewDamageable(cfg, nil)
	host := &recordingHost{}
	d.SetHost(host)

	require.True(t, d.ApplyDamage(3, cp.Vector{}, 0))
	assert.Equal(t, StateDestroyed, d.State())
	assert.Equal(t, "inert", host.calls[len(host.calls)-1])
}

func TestZeroDurationDeathSkipsAnimation(t *testing.T) {
	cfg := DefaultDamageableConfig()
	cfg.MaxHealth = 1
	cfg.Death.Duration = 0
	d := NewDamageable(cfg, nil)

	require.True(t, d.ApplyDamage(1, cp.Vector{}, 0))
	assert.Equal(t, StateDestroyed, d.State())
}

func TestFlashRestartsOnHit(t *testing.T) {
	cfg := DefaultDamageableConfig()
	cfg.InvulnTime = 0.1
	cfg.Flash = FlashConfig{Count: 2, Interval: 0.05}
	clock := common.NewFrameClock()
	d := NewDamageable(cfg, clock)

	require.True(t, d.ApplyDamage(1, cp.Vector{}, 0))
	assert.True(t, d.Visual().Flash)

	d.Update(0.06)
	assert.False(t, d.Visual().Flash, "second half-blink should be off")

	clock.Set(0.15)
	require.True(t, d.ApplyDamage(1, cp.Vector{}, 0))
	assert.True(t, d.Visual().Flash, "new hit restarts the flash")

	d.Update(0.25)
	assert.False(t, d.Visual().Flash, "flash ends after count blinks")
}

func TestFlashDerivedFromInvulnerability(t *testing.T) {
	d, _ := newTestDamageable(3, 0.25)
	require.True(t, d.ApplyDamage(1, cp.Vector{}, 0))

	// 4 blinks over 0.25s, each half-blink 0.03125s.
	d.Update(0.02)
	assert.True(t, d.Visual().Flash)
	d.Update(0.02)
	assert.False(t, d.Visual().Flash)
	d.Update(0.25)
	assert.False(t, d.Visual().Flash)
}

func TestSpawnAnimation(t *testing.T) {
	d, _ := newTestDamageable(3, 0.25)
	d.StartSpawn()
	assert.True(t, d.Spawning())
	assert.Equal(t, 0.0, d.Visual().Scale)
	assert.Equal(t, 0.0, d.Visual().Alpha)

	d.Update(0.125)
	assert.InDelta(t, 0.5, d.Visual().Scale, 1e-9)

	d.Update(0.2)
	assert.False(t, d.Spawning())
	assert.Equal(t, 1.0, d.Visual().Scale)
	assert.Equal(t, 1.0, d.Visual().Alpha)
}

func TestFallDeathCorpseFallback(t *testing.T) {
	cases := []struct {
		name   string
		corpse string
		want   bool
	}{
		{"with_corpse", "player_dead", true},
		{"no_corpse", "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultDamageableConfig()
			cfg.MaxHealth = 1
			cfg.Death = DeathConfig{
				Animate:      true,
				Style:        DeathFall,
				Duration:     0.45,
				Ease:         common.EaseInOut,
				FallOffset:   cp.Vector{X: 0.08, Y: -0.18},
				CorpseSprite: c.corpse,
			}
			d := NewDamageable(cfg, nil)
			require.True(t, d.ApplyDamage(1, cp.Vector{}, 0))

			d.Update(0.225)
			mid := d.Visual()
			assert.InDelta(t, 0.5, mid.FallProgress, 1e-9)
			assert.False(t, mid.Corpse)

			d.Update(0.3)
			end := d.Visual()
			assert.Equal(t, StateDestroyed, d.State())
			assert.InDelta(t, 1, end.FallProgress, 1e-9)
			assert.InDelta(t, -0.18, end.Offset.Y, 1e-9)
			assert.Equal(t, 1.0, end.Scale)
			assert.Equal(t, c.want, end.Corpse)
		})
	}
}

func TestReconfigureClampsHealth(t *testing.T) {
	d, _ := newTestDamageable(5, 0)
	require.True(t, d.ApplyDamage(1, cp.Vector{}, 0))

	cfg := d.Config()
	cfg.MaxHealth = 2
	d.Reconfigure(cfg)
	assert.Equal(t, 2, d.CurrentHealth())

	cfg.MaxHealth = 10
	d.Reconfigure(cfg)
	assert.Equal(t, 2, d.CurrentHealth(), "raising max health must not heal")
	assert.Equal(t, 10, d.MaxHealth())
}

func TestNilDamageableIsSafe(t *testing.T) {
	var d *Damageable
	assert.False(t, d.ApplyDamage(1, cp.Vector{}, 1))
	assert.Equal(t, 0, d.CurrentHealth())
	assert.Equal(t, StateDestroyed, d.State())
	d.Update(1)
	d.PhysicsTick(1)
}
