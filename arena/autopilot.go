package arena

import (
	"github.com/milk9111/slimearena/common"
	"github.com/milk9111/slimearena/ecs"
	"github.com/milk9111/slimearena/ecs/component"
	"github.com/milk9111/slimearena/ecs/system"
	"github.com/milk9111/slimearena/prefabs"
)

// Autopilot plays the player headlessly: it walks toward the nearest slime,
// aims at it and keeps the attack pressed.
type Autopilot struct {
	// Reach is the distance at which the player stops walking.
	Reach float64
}

func NewAutopilot() *Autopilot {
	return &Autopilot{Reach: 0.7}
}

// Drive fills the player's Input for the next frame. It reports false when
// there is no target left.
func (p *Autopilot) Drive(a *Arena) bool {
	w := a.World()
	in, ok := ecs.Get(w, a.Player(), component.InputComponent.Kind())
	if !ok {
		return false
	}
	t, ok := ecs.Get(w, a.Player(), component.TransformComponent.Kind())
	if !ok {
		return false
	}
	*in = component.Input{AimX: in.AimX, AimY: in.AimY}

	pos := t.Position()
	target, ok := system.NearestDamageable(w, pos, prefabs.LayerEnemy, 0, a.Player())
	if !ok {
		return false
	}
	tt, _ := ecs.Get(w, target, component.TransformComponent.Kind())
	goal := tt.Position()

	in.AimX, in.AimY = goal.X, goal.Y
	in.AttackPressed = true

	to := goal.Sub(pos)
	if to.Length() > p.Reach {
		dir := common.SafeNormalize(to)
		in.MoveX, in.MoveY = dir.X, dir.Y
	}
	return true
}

// Run steps the arena at dt until it is cleared, the player has died or
// maxTime elapses. It returns the elapsed simulated time.
func (p *Autopilot) Run(a *Arena, dt, maxTime float64) float64 {
	elapsed := 0.0
	for elapsed < maxTime && !a.Cleared() {
		if st := a.PlayerState(); st == nil || st.IsDying() {
			break
		}
		p.Drive(a)
		a.Step(dt)
		elapsed += dt
	}
	return elapsed
}

