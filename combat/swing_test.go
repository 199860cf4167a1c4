package combat

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/slimearena/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const swingDT = 0.025

type swingRig struct {
	clock   *common.FrameClock
	swing   *Swing
	wielder cp.Vector
	aim     cp.Vector
}

func newSwingRig() *swingRig {
	clock := common.NewFrameClock()
	cfg := DefaultSwingConfig()
	cfg.TurnSmooth = 0
	return &swingRig{
		clock: clock,
		swing: NewSwing(cfg, clock),
		aim:   cp.Vector{X: 2},
	}
}

func (r *swingRig) step() {
	r.clock.Advance(swingDT)
	r.swing.Update(swingDT, r.wielder, r.aim)
}

func sturdyTarget(clock common.Clock) *Damageable {
	cfg := DefaultDamageableConfig()
	cfg.MaxHealth = 100
	cfg.InvulnTime = 0
	return NewDamageable(cfg, clock)
}

func TestSwingHitsOncePerSwing(t *testing.T) {
	r := newSwingRig()
	target := sturdyTarget(r.clock)
	require.True(t, r.swing.TryStart(r.wielder, r.aim))

	hits := 0
	for r.swing.Phase() == PhaseSwinging {
		r.step()
		if r.swing.TryHit(7, target, r.wielder, cp.Vector{X: 1}) {
			hits++
		}
	}
	assert.Equal(t, 1, hits)
	assert.Equal(t, 99, target.CurrentHealth())
	assert.True(t, r.swing.Struck(7))
}

func TestSwingWindowExcludesEarlyProgress(t *testing.T) {
	r := newSwingRig()
	target := sturdyTarget(r.clock)
	require.True(t, r.swing.TryStart(r.wielder, r.aim))

	for r.swing.Phase() == PhaseSwinging {
		progress := r.swing.Progress()
		r.step()
		if progress > 0.05 && progress < 0.15 {
			assert.False(t, r.swing.HitboxActive(), "window open at t=%v", progress)
			assert.False(t, r.swing.TryHit(1, target, r.wielder, cp.Vector{X: 1}))
		}
	}
	assert.Equal(t, 100, target.CurrentHealth())
	assert.False(t, r.swing.HitboxActive())
}

func TestSwingSkipsInvulnerableWithoutRecording(t *testing.T) {
	r := newSwingRig()
	cfg := DefaultDamageableConfig()
	cfg.InvulnTime = 1
	target := NewDamageable(cfg, r.clock)
	require.True(t, target.ApplyDamage(1, cp.Vector{}, 0))

	require.True(t, r.swing.TryStart(r.wielder, r.aim))
	for !r.swing.HitboxActive() {
		r.step()
	}
	assert.False(t, r.swing.TryHit(3, target, r.wielder, cp.Vector{X: 1}))
	assert.False(t, r.swing.Struck(3))
}

func TestSwingCooldownAndReturnBlockRestart(t *testing.T) {
	r := newSwingRig()
	require.True(t, r.swing.TryStart(r.wielder, r.aim))
	assert.False(t, r.swing.TryStart(r.wielder, r.aim), "already swinging")

	for r.swing.Phase() == PhaseSwinging {
		r.step()
	}
	end := r.clock.Now()
	require.Equal(t, PhaseReturning, r.swing.Phase())
	assert.False(t, r.swing.TryStart(r.wielder, r.aim), "returning")

	for r.swing.Phase() == PhaseReturning {
		r.step()
	}
	require.Equal(t, PhaseIdle, r.swing.Phase())
	if r.clock.Now() < end+r.swing.Config().Cooldown {
		assert.False(t, r.swing.TryStart(r.wielder, r.aim), "cooldown")
	}

	r.clock.Set(end + r.swing.Config().Cooldown)
	assert.True(t, r.swing.TryStart(r.wielder, r.aim))
}

func TestSwingHitboxEdgeTriggered(t *testing.T) {
	r := newSwingRig()
	var edges []bool
	r.swing.OnHitbox(func(open bool) { edges = append(edges, open) })

	for i := 0; i < 5; i++ {
		r.step()
	}
	assert.Empty(t, edges, "idle frames must not toggle the hitbox")

	require.True(t, r.swing.TryStart(r.wielder, r.aim))
	for r.swing.Phase() != PhaseIdle {
		r.step()
	}
	assert.Equal(t, []bool{true, false}, edges)
}

func TestSwingDirectionAndPose(t *testing.T) {
	cases := []struct {
		name      string
		aim       cp.Vector
		direction float64
		flip      bool
		behind    bool
	}{
		{"right", cp.Vector{X: 1}, 1, false, true},
		{"left", cp.Vector{X: -1}, -1, true, true},
		{"down_left", cp.Vector{X: -1, Y: -1}, -1, true, false},
		{"up", cp.Vector{Y: 1}, 1, false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newSwingRig()
			r.aim = c.aim
			r.step()
			require.True(t, r.swing.TryStart(r.wielder, r.aim))
			assert.Equal(t, c.direction, r.swing.Direction())
			assert.Equal(t, c.flip, r.swing.FlipY())
			assert.Equal(t, c.behind, r.swing.SortBehind())

			pos := r.swing.Position()
			assert.InDelta(t, r.swing.Config().Radius, pos.Length(), 1e-9)
		})
	}
}

func TestSwingOrientationSweepsArc(t *testing.T) {
	r := newSwingRig()
	r.step()
	idle := r.swing.Orientation()
	assert.InDelta(t, -90, idle, 1e-9)

	require.True(t, r.swing.TryStart(r.wielder, r.aim))
	r.step()
	assert.InDelta(t, -90-55, r.swing.Orientation(), 1e-9, "swing starts at -half arc")

	for r.swing.Phase() == PhaseSwinging {
		r.step()
	}
	for r.swing.Phase() == PhaseReturning {
		r.step()
	}
	assert.InDelta(t, idle, r.swing.Orientation(), 1e-9)
}

func TestAimSmoothingFollowsTarget(t *testing.T) {
	clock := common.NewFrameClock()
	s := NewSwing(DefaultSwingConfig(), clock)
	for i := 0; i < 120; i++ {
		s.Update(1.0/60.0, cp.Vector{}, cp.Vector{Y: 3})
	}
	assert.InDelta(t, 90, s.AimAngle(), 1e-3)
}

func TestSwingCancelClosesWindow(t *testing.T) {
	r := newSwingRig()
	require.True(t, r.swing.TryStart(r.wielder, r.aim))
	for !r.swing.HitboxActive() {
		r.step()
	}
	r.swing.Cancel()
	assert.False(t, r.swing.HitboxActive())
	assert.Equal(t, PhaseIdle, r.swing.Phase())
	assert.False(t, r.swing.Ready(), "cancel starts the cooldown")
}

func TestSwingHitReportsWielderAsSource(t *testing.T) {
	r := newSwingRig()
	r.swing.SetOwner(5)
	target := sturdyTarget(r.clock)

	var sources []ID
	target.Subscribe(func(evt CombatEvent) {
		if evt.Type == EventHit {
			sources = append(sources, evt.Source)
		}
	})

	require.True(t, r.swing.TryStart(r.wielder, r.aim))
	for r.swing.Phase() == PhaseSwinging {
		r.step()
		r.swing.TryHit(42, target, r.wielder, cp.Vector{X: 1})
	}
	assert.Equal(t, []ID{5}, sources)
	assert.True(t, r.swing.Struck(42))
	assert.False(t, r.swing.Struck(5))
}
